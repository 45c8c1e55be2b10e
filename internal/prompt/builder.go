// Package prompt assembles LLM prompts from an ordered list of optional
// named sections. A section contributes text only when its body is
// non-blank, so callers add every section unconditionally and let the
// builder drop the empty ones.
package prompt

import (
	"fmt"
	"strings"
)

// Section is one named block of a prompt.
type Section struct {
	Name  string // stable identifier, used by tests and logs
	Title string // rendered as a heading; empty renders the body alone
	Body  string
}

// Render returns the section text with its heading.
func (s Section) Render() string {
	if s.Title == "" {
		return s.Body
	}
	return "## " + s.Title + "\n" + s.Body
}

// Builder collects sections in insertion order.
type Builder struct {
	sections []Section
}

// Add appends a section when body is non-blank.
func (b *Builder) Add(name, title, body string) *Builder {
	body = strings.TrimSpace(body)
	if body == "" {
		return b
	}
	b.sections = append(b.sections, Section{Name: name, Title: title, Body: body})
	return b
}

// AddList appends a bulleted section when at least one item is non-blank.
func (b *Builder) AddList(name, title string, items []string) *Builder {
	return b.Add(name, title, Bullets(items))
}

// AddFunc appends a section whose body is written by fn. The section is
// dropped when fn writes nothing but whitespace.
func (b *Builder) AddFunc(name, title string, fn func(sb *strings.Builder)) *Builder {
	var sb strings.Builder
	fn(&sb)
	return b.Add(name, title, sb.String())
}

// Sections returns the included sections in order.
func (b *Builder) Sections() []Section {
	return append([]Section(nil), b.sections...)
}

// Names returns the names of the included sections in order.
func (b *Builder) Names() []string {
	names := make([]string, len(b.sections))
	for i, s := range b.sections {
		names[i] = s.Name
	}
	return names
}

// Has reports whether a section with the given name was included.
func (b *Builder) Has(name string) bool {
	for _, s := range b.sections {
		if s.Name == name {
			return true
		}
	}
	return false
}

// String renders every included section separated by blank lines.
func (b *Builder) String() string {
	parts := make([]string, len(b.sections))
	for i, s := range b.sections {
		parts[i] = s.Render()
	}
	return strings.Join(parts, "\n\n")
}

// Bullets renders non-blank items as a "- " list.
func Bullets(items []string) string {
	var sb strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Field writes "Label: value\n" to sb when value is non-blank.
func Field(sb *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, value)
}
