package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtractionReadyToSearch(t *testing.T) {
	raw := `{"action":"READY_TO_SEARCH","brand":{"value":"Coca-Cola"},"confidence":0.92}`

	ext, err := parseExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionReadyToSearch, ext.Action)
	require.True(t, ext.Patch.Brand.Set)
	require.NotNil(t, ext.Patch.Brand.Value)
	assert.Equal(t, "Coca-Cola", *ext.Patch.Brand.Value)
	assert.False(t, ext.Patch.Type.Set)
	assert.False(t, ext.Patch.Package.Set)
	require.NotNil(t, ext.Patch.Confidence)
	assert.InDelta(t, 0.92, *ext.Patch.Confidence, 0.001)
}

func TestParseExtractionExplicitNone(t *testing.T) {
	raw := `{"action":"ASK_CLARIFICATION","brand":{"value":null}}`

	ext, err := parseExtraction(raw)
	require.NoError(t, err)
	assert.True(t, ext.Patch.Brand.Set)
	assert.Nil(t, ext.Patch.Brand.Value)
}

func TestParseExtractionCarriesQuestions(t *testing.T) {
	raw := `{"action":"ASK_CLARIFICATION","questions":["Which brand do you prefer?"],"quickReplies":["Coca-Cola","Pepsi"]}`

	ext, err := parseExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionAskClarification, ext.Action)
	assert.Equal(t, []string{"Which brand do you prefer?"}, ext.Questions)
	assert.Equal(t, []string{"Coca-Cola", "Pepsi"}, ext.QuickReplies)
}

func TestParseExtractionCodeFence(t *testing.T) {
	raw := "```json\n{\"action\":\"READY_TO_SEARCH\"}\n```"

	ext, err := parseExtraction(raw)
	require.NoError(t, err)
	assert.Equal(t, ActionReadyToSearch, ext.Action)
}

func TestParseExtractionMissingAction(t *testing.T) {
	_, err := parseExtraction(`{"brand":{"value":"Pepsi"}}`)
	assert.Error(t, err)
}

func TestParseExtractionInvalidJSON(t *testing.T) {
	_, err := parseExtraction(`I think the customer wants cola`)
	assert.Error(t, err)
}
