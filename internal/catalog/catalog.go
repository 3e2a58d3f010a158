package catalog

import (
	"sort"
	"strings"

	"github.com/reelmates/reelsync/internal/normalize"
)

// DefaultFilterLimit caps how many services a filter result carries; the
// picker UI never shows more.
const DefaultFilterLimit = 20

// Merge folds incoming services into the known catalog. Known ids are kept
// verbatim (first write wins, canonical metadata per id is assumed stable);
// unseen ids are added. The result is always in total order, so the merge is
// idempotent and never shrinks the catalog.
func Merge(existing, incoming []normalize.Service) []normalize.Service {
	known := make(map[string]struct{}, len(existing))
	merged := make([]normalize.Service, 0, len(existing)+len(incoming))

	for _, svc := range existing {
		if _, dup := known[svc.ID]; dup {
			continue
		}
		known[svc.ID] = struct{}{}
		merged = append(merged, svc)
	}
	for _, svc := range incoming {
		if _, dup := known[svc.ID]; dup {
			continue
		}
		known[svc.ID] = struct{}{}
		merged = append(merged, svc)
	}

	Sort(merged)
	return merged
}

// Sort orders a service list in place by display priority descending, ties
// broken by case-insensitive name ascending. This is the one presentation
// order used everywhere a service list appears.
func Sort(services []normalize.Service) {
	sort.SliceStable(services, func(i, j int) bool {
		if services[i].DisplayPriority != services[j].DisplayPriority {
			return services[i].DisplayPriority > services[j].DisplayPriority
		}
		return strings.ToLower(services[i].Name) < strings.ToLower(services[j].Name)
	})
}

// Filter returns up to limit services whose name contains term, case
// insensitively. An empty term returns the head of the full sorted catalog.
// The catalog is small enough that no pagination is needed here.
func Filter(services []normalize.Service, term string, limit int) []normalize.Service {
	if limit <= 0 {
		limit = DefaultFilterLimit
	}
	term = strings.ToLower(strings.TrimSpace(term))

	out := make([]normalize.Service, 0, limit)
	for _, svc := range services {
		if term != "" && !strings.Contains(strings.ToLower(svc.Name), term) {
			continue
		}
		out = append(out, svc)
		if len(out) == limit {
			break
		}
	}
	return out
}
