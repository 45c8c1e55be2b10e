package models

// Brand is immutable reference data describing a brand's visual and verbal
// identity. Brands are loaded from the catalogue at startup.
type Brand struct {
	ID                  string          `json:"id" yaml:"id"`
	Name                string          `json:"name" yaml:"name"`
	Guidelines          BrandGuidelines `json:"guidelines" yaml:"guidelines"`
	InspirationExamples []string        `json:"inspirationExamples" yaml:"inspiration_examples"`
}

// BrandGuidelines holds the visual guideline fields of a brand.
type BrandGuidelines struct {
	Tone           string   `json:"tone" yaml:"tone"`
	KeyMessages    []string `json:"keyMessages" yaml:"key_messages"`
	TargetAudience string   `json:"targetAudience" yaml:"target_audience"`
	ColorPalette   []string `json:"colorPalette" yaml:"color_palette"`
	ImageryStyle   string   `json:"imageryStyle" yaml:"imagery_style"`
	Dos            []string `json:"dos" yaml:"dos"`
	Donts          []string `json:"donts" yaml:"donts"`
}
