package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"slices"
	"strings"
	"testing"

	"brandstudio/internal/ai"
	"brandstudio/internal/models"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"Facebook ad for the spring open day", "facebook"},
		{"three Instagram captions", "instagram"},
		{"728x90 banner for the nursing course", "banner"},
		{"Intro paragraph for the 2027 prospectus", "prospectus"},
		{"open day ad", "social"},
		{"", "social"},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.prompt).Name; got != tt.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tt.prompt, got, tt.want)
		}
	}
}

func TestValidateVariation(t *testing.T) {
	ok := models.AdCopyVariation{
		Headline:    "Study after work",
		PrimaryText: strings.Repeat("word ", 20),
		CTA:         "Book a seat",
	}
	if v := ValidateVariation(ok, FormatFacebook); !v.Valid || len(v.Errors) != 0 {
		t.Errorf("valid variation flagged: %+v", v)
	}

	bad := models.AdCopyVariation{
		Headline:    "Open day this Saturday! Come and meet every tutor",
		PrimaryText: "Too short #openday",
		CTA:         "Click here right now to book your seat",
	}
	v := ValidateVariation(bad, FormatFacebook)
	if v.Valid {
		t.Fatal("invalid variation passed")
	}
	for _, want := range []string{
		"Headline too long (49 characters, max 40)",
		"Body too short (3 words, min 15)",
		"CTA too long (8 words, max 5)",
		"Contains forbidden exclamation marks",
		"Contains forbidden hashtags",
	} {
		if !slices.Contains(v.Errors, want) {
			t.Errorf("errors %v missing %q", v.Errors, want)
		}
	}
}

func TestGenerateAdCopyKeepsInvalidVariations(t *testing.T) {
	reply := `{"variations":[
		{"persona":"Parent","angle":"Safety","headline":"Open day!","primaryText":"` + strings.Repeat("calm ", 20) + `","cta":"Visit us"},
		{"persona":"Switcher","angle":"Time","headline":"Study after work","primaryText":"` + strings.Repeat("calm ", 20) + `","cta":"Book a seat"}
	]}`
	text := &mockText{reply: reply}
	rec := &recorder{}
	svc := NewService(Deps{Text: text, Metrics: rec})

	got, err := svc.GenerateAdCopy(context.Background(), AdCopyRequest{
		Brand:        testBrand(),
		Instructions: configured(),
		Prompt:       "Facebook ad for the open day",
	})
	if err != nil {
		t.Fatalf("GenerateAdCopy: %v", err)
	}
	if got.Format != "facebook" {
		t.Errorf("Format = %q", got.Format)
	}
	if len(got.Variations) != 2 {
		t.Fatalf("variations = %d, want 2 (invalid ones are kept)", len(got.Variations))
	}
	first := got.Variations[0].Validation
	if first == nil || first.Valid || !slices.Contains(first.Errors, "Contains forbidden exclamation marks") {
		t.Errorf("first validation = %+v", first)
	}
	if second := got.Variations[1].Validation; second == nil || !second.Valid {
		t.Errorf("second validation = %+v", second)
	}
	if rec.validation != 1 {
		t.Errorf("validation metric = %d, want 1", rec.validation)
	}
	if text.lastReq.Tier != ai.TierFast {
		t.Errorf("tier = %s, want fast", text.lastReq.Tier)
	}
	if !strings.Contains(text.user(), "Format: facebook") || !strings.Contains(text.user(), "at most 40 characters") {
		t.Errorf("format rules missing from user prompt:\n%s", text.user())
	}
}

func TestGenerateAdCopyErrors(t *testing.T) {
	for reply, want := range map[string]error{
		`{"variations":[]}`: ErrNoVariations,
		"not json":          ErrInvalidJSON,
	} {
		svc := NewService(Deps{Text: &mockText{reply: reply}})
		_, err := svc.GenerateAdCopy(context.Background(), AdCopyRequest{Brand: testBrand(), Prompt: "banner"})
		if !errors.Is(err, want) {
			t.Errorf("reply %q: err = %v, want %v", reply, err, want)
		}
	}
}

// mockMedia implements ImageGenerator and SpeechSynthesizer.
type mockMedia struct {
	prompt     string
	n          int
	speechReq  ai.SpeechRequest
	speechData []byte
}

func (m *mockMedia) GenerateImages(_ context.Context, prompt string, n int) ([]string, error) {
	m.prompt, m.n = prompt, n
	out := make([]string, n)
	for i := range out {
		out[i] = base64.StdEncoding.EncodeToString([]byte{byte(i)})
	}
	return out, nil
}

func (m *mockMedia) Synthesize(_ context.Context, req ai.SpeechRequest) ([]byte, error) {
	m.speechReq = req
	return m.speechData, nil
}

func TestGenerateImages(t *testing.T) {
	media := &mockMedia{}
	svc := NewService(Deps{Text: &mockText{}, Images: media})

	got, err := svc.GenerateImages(context.Background(), testBrand(), "students in a library", 9)
	if err != nil {
		t.Fatalf("GenerateImages: %v", err)
	}
	if len(got) != 4 || media.n != 4 {
		t.Errorf("count not clamped to 4: %d", media.n)
	}
	for _, want := range []string{"students in a library", "Natural light, real classrooms", "#0B3D91"} {
		if !strings.Contains(media.prompt, want) {
			t.Errorf("image prompt missing %q", want)
		}
	}

	if _, err := svc.GenerateImages(context.Background(), testBrand(), "x", 0); err != nil || media.n != 1 {
		t.Errorf("count 0 should become 1, got %d (%v)", media.n, err)
	}
	if _, err := svc.GenerateImages(context.Background(), testBrand(), " ", 1); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty prompt: err = %v", err)
	}

	bare := NewService(Deps{Text: &mockText{}})
	if _, err := bare.GenerateImages(context.Background(), testBrand(), "x", 1); !errors.Is(err, ai.ErrUnsupported) {
		t.Errorf("no image generator: err = %v", err)
	}
}

func TestGenerateSpeech(t *testing.T) {
	media := &mockMedia{speechData: []byte("ID3")}
	svc := NewService(Deps{Text: &mockText{}, Speech: media})

	got, err := svc.GenerateSpeech(context.Background(), SpeechRequest{Text: "Welcome to Northwind open day", Speed: 9, Format: "WAV"})
	if err != nil {
		t.Fatalf("GenerateSpeech: %v", err)
	}
	if string(got.Audio) != "ID3" || got.ContentType != "audio/wav" {
		t.Errorf("result = %+v", got)
	}
	if media.speechReq.Voice != "alloy" || media.speechReq.Speed != 1 || media.speechReq.Format != "wav" {
		t.Errorf("speech request = %+v", media.speechReq)
	}
	if !strings.HasPrefix(got.Captions, "1\n00:00:00,000 --> ") || !strings.Contains(got.Captions, "Welcome to Northwind open day") {
		t.Errorf("captions = %q", got.Captions)
	}

	got, _ = svc.GenerateSpeech(context.Background(), SpeechRequest{Text: "hi", Format: "ogg"})
	if got.ContentType != "audio/mpeg" || media.speechReq.Format != "mp3" {
		t.Errorf("unknown format should fall back to mp3: %+v", media.speechReq)
	}
}
