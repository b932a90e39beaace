package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/easybook/internal/ledger"
)

// CategoryResolver maps the category text of an imported row to a
// registry entry of the given type.
type CategoryResolver interface {
	Resolve(name string, kind ledger.Type) ledger.Category
}

// ExactResolver matches names exactly and falls back to the per-type
// default: cash for income, other for expense.
type ExactResolver struct {
	Registry *ledger.Registry
}

func (r ExactResolver) Resolve(name string, kind ledger.Type) ledger.Category {
	if c, ok := r.Registry.FindByName(strings.TrimSpace(name)); ok {
		return c
	}
	return importFallback(r.Registry, kind)
}

// FuzzyResolver accepts the closest category name of the row's type within
// MaxDistance edits. An exact match always wins.
type FuzzyResolver struct {
	Registry    *ledger.Registry
	MaxDistance int
}

func (r FuzzyResolver) Resolve(name string, kind ledger.Type) ledger.Category {
	name = strings.TrimSpace(name)
	if c, ok := r.Registry.FindByName(name); ok {
		return c
	}
	if name == "" {
		return importFallback(r.Registry, kind)
	}
	best, bestDist := ledger.Category{}, r.MaxDistance+1
	for _, c := range r.Registry.ForType(kind) {
		// Names are CJK; distance is counted in runes.
		if d := levenshtein.ComputeDistance(name, c.Name); d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist <= r.MaxDistance {
		return best
	}
	return importFallback(r.Registry, kind)
}

func importFallback(reg *ledger.Registry, kind ledger.Type) ledger.Category {
	id := "other"
	if kind == ledger.Income {
		id = "cash"
	}
	if c, ok := reg.Lookup(id); ok {
		return c
	}
	return reg.Fallback()
}
