package services

import "github.com/nearcart/nearcart-go/internal/domain/entities/dialogue"

// MergeIntent applies a sparse extractor patch to a previous intent and
// returns the merged value. A slot is only overwritten when the patch
// explicitly sets it; a set-but-nil value resolves the slot to explicitly
// none, which is different from leaving it unknown. Merging the same patch
// twice produces the same result.
func MergeIntent(prev dialogue.Intent, patch dialogue.IntentPatch, rawText string) dialogue.Intent {
	next := prev

	if rawText != "" {
		next.RawText = rawText
	}

	next.Brand = mergeSlot(prev.Brand, patch.Brand)
	next.Type = mergeSlot(prev.Type, patch.Type)
	next.Package = mergeSlot(prev.Package, patch.Package)

	if patch.Confidence != nil {
		c := *patch.Confidence
		next.Confidence = &c
	}

	return next
}

func mergeSlot(prev dialogue.Slot, patch dialogue.SlotPatch) dialogue.Slot {
	if !patch.Set {
		return prev
	}
	if patch.Value == nil {
		return dialogue.NoneSlot()
	}
	return dialogue.ResolvedSlot(*patch.Value)
}
