// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns free text into lowercase hyphenated identifiers. It
// also builds collision-free pattern-knowledge keys and sanitised file
// names whose extensions end uploaded asset object keys.
package slug

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// separators turns runs of whitespace and underscores into one hyphen.
	separators = regexp.MustCompile(`[\s_]+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a slug from the given string.
// Example: "EMEA Open Day, 2026" → "emea-open-day-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = separators.ReplaceAllString(result, " ")
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// Key builds an identifier from parts so that distinct inputs never share
// a key. Each part is trimmed and case-folded; letters and digits of any
// script are kept, ASCII letters lowercased, and every other byte
// (hyphens included) is percent-encoded. Parts are joined with "-", which
// therefore only ever separates parts: Key("US-EAST", "META") is
// "us%2Deast-meta" while Key("US", "EAST-META") is "us-east%2Dmeta".
func Key(parts ...string) string {
	encoded := make([]string, len(parts))
	for i, p := range parts {
		encoded[i] = keyPart(p)
	}
	return strings.Join(encoded, "-")
}

func keyPart(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		switch {
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			var buf [utf8.UTFMax]byte
			for _, b := range buf[:utf8.EncodeRune(buf[:], r)] {
				fmt.Fprintf(&sb, "%%%02X", b)
			}
		}
	}
	return sb.String()
}

// FileName slugs the base name of a file and keeps its lowercased
// extension: "Brand Guide (v2).PDF" → "brand-guide-v2.pdf". An empty base
// becomes "file".
func FileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(path.Ext(name))
	base := Generate(strings.TrimSuffix(name, path.Ext(name)))
	if base == "" {
		base = "file"
	}
	ext = nonAlphanumeric.ReplaceAllString(ext, "")
	if ext == "" || ext == "." {
		return base
	}
	return base + "." + strings.TrimPrefix(ext, ".")
}
