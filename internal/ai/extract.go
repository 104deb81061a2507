package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse marks model output that failed the structured
// contract: either no parseable JSON or a payload that failed validation.
// It is the most likely runtime failure and is always surfaced as a
// distinct, catchable error.
var ErrMalformedResponse = errors.New("ai: malformed model response")

// ExtractJSON strips the wrapping artifacts models put around JSON output:
// fenced code blocks and surrounding prose. It returns the outermost JSON
// object or array, or the trimmed input when no bracket is found (letting
// the decoder produce the error).
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Fenced block, with or without a language tag.
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			// Drop the fence line ("```json" etc).
			rest = rest[nl+1:]
		}
		if end := strings.LastIndex(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = strings.TrimSpace(rest)
	}

	// Trim prose around the outermost object or array.
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')
	start := objStart
	closer := byte('}')
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
		closer = ']'
	}
	if start < 0 {
		return s
	}
	if end := strings.LastIndexByte(s, closer); end > start {
		return s[start : end+1]
	}
	return s[start:]
}

// DecodeInto extracts JSON from raw model output and unmarshals it into v.
// Any failure is reported as ErrMalformedResponse, never a raw syntax
// error.
func DecodeInto(raw string, v interface{}) error {
	cleaned := ExtractJSON(raw)
	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// DecodeValidated decodes and then validates a structured contract.
func DecodeValidated(raw string, v Validatable) error {
	if err := DecodeInto(raw, v); err != nil {
		return err
	}
	if errs := v.Validate(); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(errs, "; "))
	}
	return nil
}

// Validatable is implemented by every structured model contract.
type Validatable interface {
	Validate() []string
}
