package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"
)

func strptr(s string) *string { return &s }

func TestMergeIntentAbsentSlotLeftAsIs(t *testing.T) {
	prev := dialogue.Intent{Brand: dialogue.ResolvedSlot("Acme")}

	next := MergeIntent(prev, dialogue.IntentPatch{}, "more text")

	assert.Equal(t, prev.Brand, next.Brand)
	assert.Equal(t, "more text", next.RawText)
}

func TestMergeIntentExplicitNoneDistinctFromAbsent(t *testing.T) {
	prev := dialogue.Intent{}

	patch := dialogue.IntentPatch{
		Package: dialogue.SlotPatch{Set: true, Value: nil},
	}
	next := MergeIntent(prev, patch, "")

	assert.True(t, next.Package.Known)
	assert.Nil(t, next.Package.Value)
	assert.False(t, next.Brand.Known)
}

func TestMergeIntentOverwritesOnlySetSlots(t *testing.T) {
	prev := dialogue.Intent{
		Brand:   dialogue.ResolvedSlot("Old"),
		Package: dialogue.ResolvedSlot("1L"),
	}

	patch := dialogue.IntentPatch{
		Brand: dialogue.SlotPatch{Set: true, Value: strptr("New")},
	}
	next := MergeIntent(prev, patch, "")

	assert.Equal(t, "New", *next.Brand.Value)
	assert.Equal(t, "1L", *next.Package.Value)
}

func TestMergeIntentIdempotent(t *testing.T) {
	prev := dialogue.Intent{RawText: "initial"}
	patch := dialogue.IntentPatch{
		Brand:      dialogue.SlotPatch{Set: true, Value: strptr("Acme")},
		Package:    dialogue.SlotPatch{Set: true, Value: nil},
		Confidence: func() *float64 { c := 0.9; return &c }(),
	}

	once := MergeIntent(prev, patch, "text")
	twice := MergeIntent(once, patch, "text")

	assert.Equal(t, once, twice)
}

func TestMergeIntentPreservesRawTextWhenEmpty(t *testing.T) {
	prev := dialogue.Intent{RawText: "kept"}

	next := MergeIntent(prev, dialogue.IntentPatch{}, "")

	assert.Equal(t, "kept", next.RawText)
}
