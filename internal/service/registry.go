package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/confine/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/confine/internal/shared/types"
)

// Registry manages service discovery and execution
type Registry struct {
	services sync.Map
	metrics  *monitoring.Metrics
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// NewRegistry creates a new service registry. metrics may be nil.
func NewRegistry(metrics *monitoring.Metrics) *Registry {
	return &Registry{metrics: metrics}
}

// Register adds a service provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}
	if _, loaded := r.services.LoadOrStore(def.ID, provider); loaded {
		return fmt.Errorf("service already registered: %s", def.ID)
	}
	return nil
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services ordered by ID
func (r *Registry) List(category *types.Category) []types.Service {
	services := []types.Service{}
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool {
		return services[i].ID < services[j].ID
	})
	return services
}

// Discover ranks services against a free-text query and returns at most
// limit of them. Services scoring zero are omitted.
func (r *Registry) Discover(query string, limit int) []types.Service {
	type match struct {
		def   types.Service
		score int
	}

	q := strings.ToLower(query)
	var matches []match
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if score := relevance(q, def); score > 0 {
			matches = append(matches, match{def: def, score: score})
		}
		return true
	})

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].def.ID < matches[j].def.ID
		}
		return matches[i].score > matches[j].score
	})

	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	out := make([]types.Service, limit)
	for i := range out {
		out[i] = matches[i].def
	}
	return out
}

// Execute runs a service tool addressed as "service.tool"
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return &types.Result{
			Success:   false,
			Error:     stringPtr("invalid tool ID format"),
			ErrorKind: "invalid_argument",
		}, fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	serviceID := parts[0]
	provider, ok := r.Get(serviceID)
	if !ok {
		return &types.Result{
			Success:   false,
			Error:     stringPtr(fmt.Sprintf("service not found: %s", serviceID)),
			ErrorKind: "not_found",
		}, fmt.Errorf("service not found: %s", serviceID)
	}

	timer := monitoring.NewTimer(r.metrics, serviceID, toolID)
	result, err := provider.Execute(ctx, toolID, params, appCtx)
	switch {
	case err != nil:
		timer.Stop("error")
		r.metrics.RecordServiceError(serviceID, toolID, "internal")
	case result != nil && !result.Success:
		timer.Stop("failure")
		r.metrics.RecordServiceError(serviceID, toolID, result.ErrorKind)
	default:
		timer.Stop("success")
	}
	return result, err
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"categories":     categories,
	}
}

// relevance weighs identifier hits above description words and capabilities.
func relevance(q string, def types.Service) int {
	score := 0
	if strings.Contains(q, def.ID) || strings.Contains(q, strings.ToLower(def.Name)) {
		score += 10
	}
	for _, word := range strings.Fields(strings.ToLower(def.Description)) {
		if len(word) > 3 && strings.Contains(q, word) {
			score += 5
		}
	}
	for _, c := range def.Capabilities {
		if strings.Contains(q, strings.ReplaceAll(strings.ToLower(c), "_", " ")) {
			score += 3
		}
	}
	if def.Category != "" && strings.Contains(q, string(def.Category)) {
		score += 2
	}
	return score
}

func stringPtr(s string) *string {
	return &s
}
