package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal text ---
		{name: "two words", input: "Open Day", want: "open-day"},
		{name: "campaign with year", input: "EMEA Open Day, 2026", want: "emea-open-day-2026"},
		{name: "already a slug", input: "ad-copy", want: "ad-copy"},
		{name: "single word", input: "META", want: "meta"},

		// --- Separators ---
		{name: "underscores", input: "landing_page", want: "landing-page"},
		{name: "tabs and newlines", input: "google\tads\nsearch", want: "google-ads-search"},
		{name: "spaced hyphen", input: "a - b", want: "a-b"},
		{name: "leading and trailing hyphens", input: "  --Leading and trailing--  ", want: "leading-and-trailing"},

		// --- Special characters ---
		{name: "punctuation", input: "Apply now! Spots are limited?", want: "apply-now-spots-are-limited"},
		{name: "ampersand", input: "Brand & Performance", want: "brand-performance"},
		{name: "slashes", input: "TOFU/MOFU", want: "tofumofu"},
		{name: "accented letters dropped", input: "Café Olé", want: "caf-ol"},

		// --- Edge cases ---
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!!!", want: ""},
		{name: "only whitespace", input: "   ", want: ""},
		{name: "digits", input: "2026", want: "2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		parts []string
		want  string
	}{
		{[]string{"EMEA", "META"}, "emea-meta"},
		{[]string{"Latin America", "Google Ads"}, "latin%20america-google%20ads"},
		{[]string{"US-EAST", "META"}, "us%2Deast-meta"},
		{[]string{"日本", "META"}, "日本-meta"},
		{[]string{"UK", "", "email"}, "uk--email"},
		{[]string{"50%", "X"}, "50%25-x"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := Key(tt.parts...); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.parts, got, tt.want)
		}
	}
}

func TestKeyDistinctParts(t *testing.T) {
	cases := [][]string{
		{"US-EAST", "META"},
		{"US", "EAST-META"},
		{"US", "EAST", "META"},
		{"日本", "META"},
		{"中国", "META"},
		{"", "META"},
		{"US%2DEAST", "META"},
		{"US EAST", "META"},
		{"US_EAST", "META"},
	}
	seen := make(map[string][]string)
	for _, parts := range cases {
		k := Key(parts...)
		if prev, ok := seen[k]; ok {
			t.Errorf("Key(%q) and Key(%q) both = %q", prev, parts, k)
		}
		seen[k] = parts
	}
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("EMEA", "Google Ads")
	b := Key(" emea ", "google ads")
	if a != b {
		t.Errorf("Key should be case and whitespace insensitive: %q vs %q", a, b)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Brand Guide (v2).PDF", "brand-guide-v2.pdf"},
		{"logo.png", "logo.png"},
		{`C:\Users\me\Desktop\Hero Banner.jpg`, "hero-banner.jpg"},
		{"../../etc/passwd", "passwd"},
		{"###.jpg", "file.jpg"},
		{"noext", "noext"},
		{"trailing.", "trailing"},
		{"", "file"},
	}
	for _, tt := range tests {
		if got := FileName(tt.input); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
