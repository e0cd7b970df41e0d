package services

import (
	"strings"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

// FilterByIntent narrows a candidate set by the intent's resolved slots. Each
// set slot is an independent exact, case-insensitive equality constraint, so
// the result is the intersection of the constraints and does not depend on
// evaluation order. A package slot resolved to explicitly none keeps only
// candidates without package information. Unknown slots do not constrain.
//
// Package equality is plain string comparison after case folding; "0.5L" and
// "500ml" are different values.
func FilterByIntent(candidates []*catalog.Product, intent *dialogue.Intent) []*catalog.Product {
	filtered := make([]*catalog.Product, 0, len(candidates))
	for _, p := range candidates {
		if !matchesSlot(intent.Brand, p.BrandName) {
			continue
		}
		if !matchesSlot(intent.Package, p.PackageInfo) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesSlot(slot dialogue.Slot, value string) bool {
	if !slot.Known {
		return true
	}
	if slot.Value == nil {
		return strings.TrimSpace(value) == ""
	}
	return strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(*slot.Value))
}
