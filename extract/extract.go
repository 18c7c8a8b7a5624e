// Package extract pulls a structured JSON payload out of free-form model text.
//
// Prompts ask the model to wrap its answer in <json></json> tags. Extract
// locates the first tagged region, parses it as a JSON object and returns the
// result as a Payload. Comments and trailing commas inside the region are
// tolerated, since models tend to copy them from prompt examples.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tailscale/hujson"
)

// Payload markers.
const (
	OpenTag  = "<json>"
	CloseTag = "</json>"
)

var (
	// ErrMissingPayloadMarkers indicates the text has no <json>...</json> region.
	ErrMissingPayloadMarkers = errors.New("extract: missing payload markers")

	// ErrMalformedPayload indicates the tagged region is not a valid JSON object,
	// or a field in it has an unexpected type.
	ErrMalformedPayload = errors.New("extract: malformed payload")
)

// Error describes an extraction failure.
type Error struct {
	Kind  error  // ErrMissingPayloadMarkers or ErrMalformedPayload
	Field string // payload field with an unexpected type, if any
	Text  string // response text or payload content that failed
	Err   error  // underlying parse error, if any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, " [%s]", truncate(e.Text, 200))
	}
	return b.String()
}

// Is reports whether target is the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying parse error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Extract returns the JSON object enclosed by the first <json></json> pair in text.
func Extract(text string) (Payload, error) {
	raw, err := Region(text)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Region returns the trimmed content between the first opening tag and the
// closing tag that follows it.
func Region(text string) (string, error) {
	start := strings.Index(text, OpenTag)
	if start == -1 {
		return "", &Error{Kind: ErrMissingPayloadMarkers, Text: text}
	}
	rest := text[start+len(OpenTag):]
	end := strings.Index(rest, CloseTag)
	if end == -1 {
		return "", &Error{Kind: ErrMissingPayloadMarkers, Text: text}
	}
	return strings.TrimSpace(rest[:end]), nil
}

// Parse decodes raw as a JSON object. Comments and trailing commas are allowed.
func Parse(raw string) (Payload, error) {
	if raw == "" {
		return nil, &Error{Kind: ErrMalformedPayload, Err: errors.New("empty payload")}
	}

	std, err := hujson.Standardize([]byte(raw))
	if err != nil {
		return nil, &Error{Kind: ErrMalformedPayload, Text: raw, Err: err}
	}

	var p Payload
	if err := json.Unmarshal(std, &p); err != nil {
		return nil, &Error{Kind: ErrMalformedPayload, Text: raw, Err: err}
	}
	if p == nil {
		return nil, &Error{Kind: ErrMalformedPayload, Text: raw, Err: errors.New("payload is null")}
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
