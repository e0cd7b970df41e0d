// Package services provides the pure decision logic of the conversational
// search flow: clarification policy, intent merging, and intent filtering.
// Everything here is deterministic and side-effect free.
package services

import (
	"strings"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

// Question texts presented to the customer. Quick replies carry the actual
// candidate values.
const (
	QuestionBrand    = "Which brand?"
	QuestionPackage  = "Which package size?"
	QuestionLocation = "Please share your location and search radius"
	QuestionNotFound = "No matching product found. Try another name or brand."
	QuestionNarrow   = "Please narrow down the brand or package."
)

// Clarification is a set of system-posed questions plus suggested quick-reply
// values. All questions of one turn are presented together.
type Clarification struct {
	Questions    []string `json:"questions"`
	QuickReplies []string `json:"quickReplies"`
}

// Empty reports whether no clarification is needed.
func (c Clarification) Empty() bool {
	return len(c.Questions) == 0
}

// NeedsClarification decides, from the candidate set and the already-known
// slots, whether distinct values remain ambiguous. A brand question is
// emitted only when the intent's brand is unknown and more than one distinct
// brand exists among the candidates; the package question is decided
// independently. Quick replies are capped at maxReplies per question.
func NeedsClarification(candidates []*catalog.Product, intent *dialogue.Intent, maxReplies int) Clarification {
	var out Clarification

	if len(candidates) <= 1 {
		return out
	}

	brands := distinctValues(candidates, func(p *catalog.Product) string { return p.BrandName })
	packages := distinctValues(candidates, func(p *catalog.Product) string { return p.PackageInfo })

	if !intent.Brand.Known && len(brands) > 1 {
		out.Questions = append(out.Questions, QuestionBrand)
		out.QuickReplies = append(out.QuickReplies, capped(brands, maxReplies)...)
	}
	if !intent.Package.Known && len(packages) > 1 {
		out.Questions = append(out.Questions, QuestionPackage)
		out.QuickReplies = append(out.QuickReplies, capped(packages, maxReplies)...)
	}

	return out
}

// distinctValues collects distinct non-empty values in first-seen order,
// deduplicated case-insensitively.
func distinctValues(candidates []*catalog.Product, field func(*catalog.Product) string) []string {
	seen := make(map[string]struct{}, len(candidates))
	var values []string
	for _, p := range candidates {
		v := strings.TrimSpace(field(p))
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	return values
}

func capped(values []string, max int) []string {
	if max > 0 && len(values) > max {
		return values[:max]
	}
	return values
}
