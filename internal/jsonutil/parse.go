// Package jsonutil decodes JSON from LLM replies. Parse tolerates markdown
// code fences, surrounding prose and trailing commas; Strict accepts only a
// bare JSON value.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a reply contains no JSON object or array.
var ErrNoJSON = errors.New("no JSON content found")

var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// StripFences removes a ```json ... ``` or ``` ... ``` wrapper. Text without
// an opening fence is returned trimmed but otherwise unchanged.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return strings.Trim(text, "`")
	}

	end := len(lines)
	for i := len(lines) - 1; i > 0; i-- {
		if strings.TrimSpace(lines[i]) == "```" {
			end = i
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

// Extract returns the span from the first '{' or '[' to the last matching
// closing delimiter.
func Extract(text string) (string, error) {
	obj := strings.Index(text, "{")
	arr := strings.Index(text, "[")
	if obj == -1 && arr == -1 {
		return "", ErrNoJSON
	}

	start, closing := obj, "}"
	if obj == -1 || (arr != -1 && arr < obj) {
		start, closing = arr, "]"
	}
	text = text[start:]
	end := strings.LastIndex(text, closing)
	if end == -1 {
		return "", fmt.Errorf("no closing %s found", closing)
	}
	return text[:end+1], nil
}

// CleanTrailingCommas removes commas directly before a closing brace or
// bracket.
func CleanTrailingCommas(s string) string {
	return trailingComma.ReplaceAllString(s, "$1")
}

// Parse strips fences, extracts the JSON payload and decodes it into T. A
// payload that fails to decode is retried once with trailing commas removed.
func Parse[T any](raw string) (T, error) {
	var out T

	payload, err := Extract(StripFences(raw))
	if err != nil {
		return out, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}

	firstErr := json.Unmarshal([]byte(payload), &out)
	if firstErr == nil {
		return out, nil
	}

	var retry T
	if err := json.Unmarshal([]byte(CleanTrailingCommas(payload)), &retry); err == nil {
		return retry, nil
	}
	return out, fmt.Errorf("invalid JSON: %w (text: %s)", firstErr, preview(payload, 200))
}

// Strict decodes a reply that must be a single JSON value, surrounding
// whitespace aside. Fences, prose and trailing commas are all rejected.
func Strict[T any](raw string) (T, error) {
	var out T
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return out, ErrNoJSON
	}
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return out, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview(payload, 200))
	}
	return out, nil
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
