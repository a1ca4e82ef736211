package counsellor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoPayload means the reply holds no bracketed span of the wanted kind.
	ErrNoPayload = errors.New("no structured payload in reply")
	// ErrMalformedPayload means the bracketed span did not decode.
	ErrMalformedPayload = errors.New("malformed structured payload")
)

// ExtractArray decodes the span from the first '[' to the last ']' of text.
//
// The span is taken blindly: a reply that mentions brackets in prose before
// or after the payload yields a span that fails to decode, or, worse, one
// that decodes to something other than the intended payload. Callers treat
// any error as "no usable answer".
func ExtractArray[T any](text string) ([]T, error) {
	span, err := sliceBetween(text, '[', ']')
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}

// ExtractObject decodes the span from the first '{' to the last '}' of text.
// It shares the span heuristic of ExtractArray.
func ExtractObject[T any](text string) (T, error) {
	var zero T
	span, err := sliceBetween(text, '{', '}')
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}

func sliceBetween(text string, open, closing byte) (string, error) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, closing)
	if start < 0 || end < start {
		return "", ErrNoPayload
	}
	return text[start : end+1], nil
}
