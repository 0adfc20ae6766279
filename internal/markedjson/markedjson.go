// Package markedjson extracts a JSON payload that a language model was asked
// to place between two literal marker tokens.
//
// The markers are the contract between the service and its prompts. They
// must stay byte-for-byte identical to the ones the prompts mention.
package markedjson

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	BeginMarker = "BEGIN_JSON"
	EndMarker   = "END_JSON"
)

// ErrMarkerNotFound is returned when a marker is missing or the end marker
// does not follow the begin marker
var ErrMarkerNotFound = errors.New("model response does not contain JSON markers")

// Extract parses the payload between BEGIN_JSON and END_JSON into v
func Extract(text string, v any) error {
	return ExtractBetween(text, BeginMarker, EndMarker, v)
}

// ExtractBetween parses the payload between the first begin and the first
// end marker into v. JSON errors are returned as produced by encoding/json.
func ExtractBetween(text, begin, end string, v any) error {
	payload, err := Payload(text, begin, end)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(payload), v)
}

// Payload returns the trimmed text strictly between the first occurrence of
// begin and the first occurrence of end.
// A repeated begin marker is not special: it ends up inside the payload.
func Payload(text, begin, end string) (string, error) {
	beginIndex := strings.Index(text, begin)
	endIndex := strings.Index(text, end)

	if beginIndex == -1 || endIndex == -1 || endIndex <= beginIndex {
		return "", ErrMarkerNotFound
	}

	start := beginIndex + len(begin)
	if endIndex < start {
		// end marker overlaps the begin marker
		return "", ErrMarkerNotFound
	}

	return strings.TrimSpace(text[start:endIndex]), nil
}

// Wrap renders v as JSON surrounded by the markers, in the layout the
// prompts ask the model for
func Wrap(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return BeginMarker + "\n" + string(data) + "\n" + EndMarker, nil
}

// IsSyntaxError reports whether err came from malformed JSON
func IsSyntaxError(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr)
}
