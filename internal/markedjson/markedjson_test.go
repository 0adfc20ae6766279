package markedjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"passed":true,"score":8,"fixes":["a","b"],"nested":{"k":null}}`

func TestExtractMatchesDirectParse(t *testing.T) {
	var want map[string]any
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &want))

	inputs := []string{
		"BEGIN_JSON" + sampleJSON + "END_JSON",
		"BEGIN_JSON\n" + sampleJSON + "\nEND_JSON",
		"Вот ответ:\nBEGIN_JSON  \t\n" + sampleJSON + "\n\n  END_JSON\nСпасибо!",
	}

	for _, in := range inputs {
		var got map[string]any
		require.NoError(t, Extract(in, &got))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Extract(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestExtractMarkerNotFound(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no markers", sampleJSON},
		{"missing end", "BEGIN_JSON" + sampleJSON},
		{"missing begin", sampleJSON + "END_JSON"},
		{"end before begin", "END_JSON" + sampleJSON + "BEGIN_JSON"},
		{"empty text", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v map[string]any
			err := Extract(tt.text, &v)
			assert.True(t, errors.Is(err, ErrMarkerNotFound), "got %v", err)
		})
	}
}

func TestPayloadOverlappingMarkers(t *testing.T) {
	_, err := Payload("a<<", "a<", "<")
	assert.ErrorIs(t, err, ErrMarkerNotFound)

	_, err = Payload("ab", "ab", "ab")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestExtractSyntaxErrorPropagates(t *testing.T) {
	var v map[string]any
	err := Extract(`BEGIN_JSON {"a": 1,} END_JSON`, &v)
	require.Error(t, err)

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr), "expected *json.SyntaxError, got %T", err)
	assert.True(t, IsSyntaxError(err))
	assert.False(t, errors.Is(err, ErrMarkerNotFound))
}

func TestExtractEmptyPayload(t *testing.T) {
	var v map[string]any
	err := Extract("BEGIN_JSON   END_JSON", &v)
	assert.True(t, IsSyntaxError(err), "got %v", err)
}

func TestExtractUsesFirstBeginMarker(t *testing.T) {
	var v map[string]any
	err := Extract(`BEGIN_JSON {"a":1} BEGIN_JSON {"b":2} END_JSON`, &v)
	assert.True(t, IsSyntaxError(err), "second begin marker must stay inside the payload, got %v", err)
}

func TestExtractUsesFirstEndMarker(t *testing.T) {
	var v map[string]any
	require.NoError(t, Extract(`BEGIN_JSON {"a":1} END_JSON trailing END_JSON`, &v))
	assert.Equal(t, map[string]any{"a": float64(1)}, v)
}

func TestExtractIdempotent(t *testing.T) {
	var first map[string]any
	require.NoError(t, Extract("BEGIN_JSON "+sampleJSON+" END_JSON", &first))

	wrapped, err := Wrap(first)
	require.NoError(t, err)

	var second map[string]any
	require.NoError(t, Extract(wrapped, &second))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("re-extraction mismatch (-first +second):\n%s", diff)
	}
}

func TestExtractBetweenCustomMarkers(t *testing.T) {
	var v struct {
		Code string `json:"code"`
	}
	require.NoError(t, ExtractBetween(`<<<{"code":"x\ny"}>>>`, "<<<", ">>>", &v))
	assert.Equal(t, "x\ny", v.Code)
}
