package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nearcart/nearcart-go/internal/domain/entities/catalog"
	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

func product(brand, pkg string) *catalog.Product {
	return &catalog.Product{BrandName: brand, PackageInfo: pkg}
}

func TestNeedsClarificationBrandAmbiguity(t *testing.T) {
	candidates := []*catalog.Product{
		product("A", "500ml"),
		product("B", "500ml"),
	}
	intent := &dialogue.Intent{}

	c := NeedsClarification(candidates, intent, 5)

	assert.Equal(t, []string{QuestionBrand}, c.Questions)
	assert.Contains(t, c.QuickReplies, "A")
	assert.Contains(t, c.QuickReplies, "B")
}

func TestNeedsClarificationNoBrandQuestionWhenSingleBrand(t *testing.T) {
	candidates := []*catalog.Product{
		product("Acme", "500ml"),
		product("Acme", "1L"),
	}
	intent := &dialogue.Intent{}

	c := NeedsClarification(candidates, intent, 5)

	assert.NotContains(t, c.Questions, QuestionBrand)
	assert.Equal(t, []string{QuestionPackage}, c.Questions)
	assert.ElementsMatch(t, []string{"500ml", "1L"}, c.QuickReplies)
}

func TestNeedsClarificationBothQuestionsInOneTurn(t *testing.T) {
	candidates := []*catalog.Product{
		product("A", "500ml"),
		product("B", "1L"),
	}
	intent := &dialogue.Intent{}

	c := NeedsClarification(candidates, intent, 5)

	assert.Equal(t, []string{QuestionBrand, QuestionPackage}, c.Questions)
}

func TestNeedsClarificationKnownSlotsSuppressQuestions(t *testing.T) {
	candidates := []*catalog.Product{
		product("A", "500ml"),
		product("B", "1L"),
	}
	intent := &dialogue.Intent{
		Brand:   dialogue.ResolvedSlot("A"),
		Package: dialogue.NoneSlot(),
	}

	c := NeedsClarification(candidates, intent, 5)

	assert.True(t, c.Empty())
}

func TestNeedsClarificationSingleCandidate(t *testing.T) {
	candidates := []*catalog.Product{product("A", "500ml")}

	c := NeedsClarification(candidates, &dialogue.Intent{}, 5)

	assert.True(t, c.Empty())
}

func TestNeedsClarificationQuickReplyCap(t *testing.T) {
	var candidates []*catalog.Product
	for _, b := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		candidates = append(candidates, product(b, ""))
	}

	c := NeedsClarification(candidates, &dialogue.Intent{}, 5)

	assert.Equal(t, []string{QuestionBrand}, c.Questions)
	assert.Len(t, c.QuickReplies, 5)
}

func TestNeedsClarificationDeduplicatesCaseInsensitively(t *testing.T) {
	candidates := []*catalog.Product{
		product("acme", "500ml"),
		product("ACME", "1L"),
	}

	c := NeedsClarification(candidates, &dialogue.Intent{}, 5)

	assert.NotContains(t, c.Questions, QuestionBrand)
}
