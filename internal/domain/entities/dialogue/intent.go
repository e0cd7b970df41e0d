package dialogue

// Slot is a tri-state intent attribute. Unknown (never resolved) is distinct
// from known-with-no-value: a customer saying "no particular brand" resolves
// the slot to explicitly none, which still narrows the candidate set.
type Slot struct {
	Known bool    `json:"known"`
	Value *string `json:"value,omitempty"`
}

// UnknownSlot returns a slot that has not been resolved yet.
func UnknownSlot() Slot {
	return Slot{}
}

// ResolvedSlot returns a slot resolved to a concrete value.
func ResolvedSlot(value string) Slot {
	return Slot{Known: true, Value: &value}
}

// NoneSlot returns a slot resolved to explicitly no value.
func NoneSlot() Slot {
	return Slot{Known: true}
}

// Intent is the accumulated understanding of what the customer wants. It is
// owned by exactly one conversation and mutated in place across turns.
type Intent struct {
	ID             string   `json:"intentId"`
	ConversationID string   `json:"conversationId"`
	RawText        string   `json:"rawText"`
	Brand          Slot     `json:"brand"`
	Type           Slot     `json:"type"`
	Package        Slot     `json:"package"`
	Confidence     *float64 `json:"confidence,omitempty"`

	// CandidateIDs caches the current candidate product id set between
	// turns. CandidatesResolved distinguishes "no cache yet" from a cached
	// empty set.
	CandidateIDs       []string `json:"candidateIds,omitempty"`
	CandidatesResolved bool     `json:"candidatesResolved"`
}

// SlotPatch is one sparse slot update from the intent extractor. Set=false
// means the extractor said nothing about this slot and it must be left
// as-is; Set=true with a nil Value means the slot is known to have no value.
type SlotPatch struct {
	Value *string
	Set   bool
}

// IntentPatch is a sparse extractor result to be merged into an intent.
type IntentPatch struct {
	Brand      SlotPatch
	Type       SlotPatch
	Package    SlotPatch
	Confidence *float64
}
