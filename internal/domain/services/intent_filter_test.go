package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

func TestFilterByIntentBrandExactCaseInsensitive(t *testing.T) {
	candidates := []*catalog.Product{
		{BrandName: "Acme", PackageInfo: "500ml"},
		{BrandName: "acme", PackageInfo: "1L"},
		{BrandName: "Acme Light", PackageInfo: "500ml"},
	}
	intent := &dialogue.Intent{Brand: dialogue.ResolvedSlot("ACME")}

	filtered := FilterByIntent(candidates, intent)

	// Exact equality, not substring: "Acme Light" is out.
	assert.Len(t, filtered, 2)
	for _, p := range filtered {
		assert.True(t, strings.EqualFold(p.BrandName, "acme"))
	}
}

func TestFilterByIntentIdempotent(t *testing.T) {
	candidates := []*catalog.Product{
		{BrandName: "A", PackageInfo: "500ml"},
		{BrandName: "B", PackageInfo: "500ml"},
	}
	intent := &dialogue.Intent{Brand: dialogue.ResolvedSlot("A")}

	once := FilterByIntent(candidates, intent)
	twice := FilterByIntent(once, intent)

	assert.Equal(t, once, twice)
}

func TestFilterByIntentExplicitNonePackage(t *testing.T) {
	candidates := []*catalog.Product{
		{BrandName: "A", PackageInfo: "500ml"},
		{BrandName: "A", PackageInfo: ""},
	}
	intent := &dialogue.Intent{Package: dialogue.NoneSlot()}

	filtered := FilterByIntent(candidates, intent)

	assert.Len(t, filtered, 1)
	assert.Empty(t, filtered[0].PackageInfo)
}

func TestFilterByIntentUnknownSlotsDoNotConstrain(t *testing.T) {
	candidates := []*catalog.Product{
		{BrandName: "A", PackageInfo: "500ml"},
		{BrandName: "B", PackageInfo: "1L"},
	}

	filtered := FilterByIntent(candidates, &dialogue.Intent{})

	assert.Len(t, filtered, 2)
}

func TestFilterByIntentIntersectionOrderIndependent(t *testing.T) {
	candidates := []*catalog.Product{
		{BrandName: "A", PackageInfo: "500ml"},
		{BrandName: "A", PackageInfo: "1L"},
		{BrandName: "B", PackageInfo: "500ml"},
	}
	intent := &dialogue.Intent{
		Brand:   dialogue.ResolvedSlot("A"),
		Package: dialogue.ResolvedSlot("500ml"),
	}

	filtered := FilterByIntent(candidates, intent)

	assert.Len(t, filtered, 1)
	assert.Equal(t, "A", filtered[0].BrandName)
	assert.Equal(t, "500ml", filtered[0].PackageInfo)

	// No unit normalization: "0.5L" does not match "500ml".
	intent.Package = dialogue.ResolvedSlot("0.5L")
	assert.Empty(t, FilterByIntent(candidates, intent))
}
