package instructions

import (
	"fmt"
	"strings"

	"brandstudio/internal/models"
)

// ValidationError lists every required field that is missing from a
// document submitted for saving.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "instructions: missing required fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks the fields prompt assembly cannot do without. It returns a
// *ValidationError naming all missing fields, or nil.
func Validate(doc *models.BrandInstructions) error {
	if doc == nil {
		return &ValidationError{Fields: []string{"document"}}
	}

	var missing []string
	if blank(doc.BrandIntroduction) {
		missing = append(missing, "brandIntroduction")
	}
	if blank(doc.ToneOfVoice) {
		missing = append(missing, "toneOfVoice")
	}
	if !hasItem(doc.CoreValues) {
		missing = append(missing, "coreValues")
	}
	if !hasItem(doc.KeyMessaging) {
		missing = append(missing, "keyMessaging")
	}
	if len(doc.Personas) == 0 {
		missing = append(missing, "personas")
	}
	for i, p := range doc.Personas {
		if blank(p.Name) {
			missing = append(missing, fmt.Sprintf("personas[%d].name", i))
		}
		if blank(p.Description) {
			missing = append(missing, fmt.Sprintf("personas[%d].description", i))
		}
	}

	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func hasItem(list []string) bool {
	for _, s := range list {
		if !blank(s) {
			return true
		}
	}
	return false
}
