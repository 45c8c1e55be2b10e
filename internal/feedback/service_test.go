package feedback

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"brandstudio/internal/instructions"
	"brandstudio/internal/models"
	"brandstudio/internal/patterns"
	"brandstudio/internal/storage"
	"brandstudio/internal/store"
)

type memApproved struct {
	mu    sync.Mutex
	items []models.ApprovedContent
	clock time.Time
}

func (m *memApproved) Create(_ context.Context, a *models.ApprovedContent) (*models.ApprovedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clock.IsZero() {
		m.clock = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	}
	m.clock = m.clock.Add(time.Hour)
	out := *a
	out.ID = uuid.New()
	out.ApprovedAt = m.clock
	m.items = append(m.items, out)
	return &out, nil
}

func (m *memApproved) FindByID(_ context.Context, id uuid.UUID) (*models.ApprovedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memApproved) ListByBrand(_ context.Context, brandID string, limit int) ([]models.ApprovedContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ApprovedContent
	for i := len(m.items) - 1; i >= 0 && len(out) < limit; i-- {
		if m.items[i].BrandID == brandID {
			out = append(out, m.items[i])
		}
	}
	return out, nil
}

type fakeExamples struct {
	doc    *models.BrandInstructions
	added  []models.CampaignExample
	editor string
}

func (f *fakeExamples) Get(_ context.Context, brandID string) (*models.BrandInstructions, error) {
	if f.doc == nil {
		f.doc = instructions.Default(brandID)
	}
	return f.doc, nil
}

func (f *fakeExamples) AddExample(_ context.Context, brandID string, ex models.CampaignExample, editor string) (*instructions.SaveResult, error) {
	doc, _ := f.Get(context.Background(), brandID)
	doc.AdCopy.Examples = append(doc.AdCopy.Examples, ex)
	f.added = append(f.added, ex)
	f.editor = editor
	return &instructions.SaveResult{Instructions: doc, TouchedGroups: []models.PatternGroupKey{ex.Key()}}, nil
}

type fakeRefresher struct {
	keys []models.PatternGroupKey
}

func (f *fakeRefresher) RefreshGroups(_ context.Context, _ string, _ *models.BrandInstructions, keys []models.PatternGroupKey) *patterns.RefreshSummary {
	f.keys = append(f.keys, keys...)
	return &patterns.RefreshSummary{Updated: len(keys)}
}

type fakeImages struct {
	key, contentType string
	data             []byte
}

func (f *fakeImages) Upload(_ context.Context, _, key, contentType string, body io.Reader, _ int64, _ storage.ProgressFunc) error {
	f.key, f.contentType = key, contentType
	var buf bytes.Buffer
	_, err := buf.ReadFrom(body)
	f.data = buf.Bytes()
	return err
}

func (f *fakeImages) FileURL(key string) string { return "https://cdn.example.com/" + key }
func (f *fakeImages) PublicBucket() string      { return "public" }

func variation() models.AdCopyVariation {
	return models.AdCopyVariation{
		Persona:     "Career switcher",
		Angle:       "Time",
		Headline:    "Study after work",
		PrimaryText: "Evening classes built around your shifts.",
		CTA:         "Book a seat",
		Keywords:    []string{"evening", "flexible"},
	}
}

func TestSaveApprovedContentRoundTrip(t *testing.T) {
	st := &memApproved{}
	svc := NewService(Deps{Store: st})
	ctx := context.Background()

	saved, err := svc.SaveApprovedContent(ctx, "northwind", "Northwind College", variation(), " open day ad ", models.ContentTypeAdCopy, "https://img/1.png")
	if err != nil {
		t.Fatalf("SaveApprovedContent: %v", err)
	}
	if saved.ID == uuid.Nil || saved.UserPrompt != "open day ad" {
		t.Errorf("saved = %+v", saved)
	}

	items, err := svc.GetApprovedContentForBrand(ctx, "northwind", 0)
	if err != nil || len(items) != 1 {
		t.Fatalf("GetApprovedContentForBrand = %d items, %v", len(items), err)
	}
	got := items[0]
	if got.Headline() != "Study after work" || got.Body() != "Evening classes built around your shifts." || got.CTA() != "Book a seat" {
		t.Errorf("round trip lost copy: %+v", got.Variation)
	}
	if !slices.Equal(got.Variation.Keywords, []string{"evening", "flexible"}) || got.ImageURL != "https://img/1.png" {
		t.Errorf("round trip lost keywords or image: %+v", got)
	}
}

func TestSaveApprovedGeneratedContentValidation(t *testing.T) {
	svc := NewService(Deps{Store: &memApproved{}})
	v := variation()
	for name, in := range map[string]ApprovalInput{
		"no brand":        {ContentType: models.ContentTypeAdCopy, Variation: &v},
		"bad type":        {BrandID: "northwind", ContentType: "video", Variation: &v},
		"nothing to save": {BrandID: "northwind", ContentType: models.ContentTypeBlog},
	} {
		if _, err := svc.SaveApprovedGeneratedContent(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestSaveApprovedGeneratedContentTagsFromContent(t *testing.T) {
	st := &memApproved{}
	svc := NewService(Deps{Store: st})
	saved, err := svc.SaveApprovedGeneratedContent(context.Background(), ApprovalInput{
		BrandID:     "northwind",
		ContentType: models.ContentTypeBlog,
		Content:     &models.GeneratedContent{ContentType: models.ContentTypeBlog, Title: "Why evenings work", Content: "Body", Market: "EMEA", Platform: "BLOG"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.Market != "EMEA" || saved.Platform != "BLOG" || saved.Headline() != "Why evenings work" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestSaveApprovedImageDataURL(t *testing.T) {
	images := &fakeImages{}
	svc := NewService(Deps{Store: &memApproved{}, Images: images})
	payload := []byte{0x89, 'P', 'N', 'G'}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	saved, err := svc.SaveApprovedContent(context.Background(), "northwind", "", variation(), "", models.ContentTypeAdCopy, dataURL)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !bytes.Equal(images.data, payload) || images.contentType != "image/png" {
		t.Errorf("uploaded %q as %s", images.data, images.contentType)
	}
	if !strings.HasPrefix(images.key, "approved/northwind/") || !strings.HasSuffix(images.key, ".png") {
		t.Errorf("key = %s", images.key)
	}
	if saved.ImageURL != "https://cdn.example.com/"+images.key {
		t.Errorf("ImageURL = %s", saved.ImageURL)
	}

	if _, err := svc.SaveApprovedContent(context.Background(), "northwind", "", variation(), "", models.ContentTypeAdCopy, "data:image/png;base64,@@@"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad base64: err = %v", err)
	}

	bare := NewService(Deps{Store: &memApproved{}})
	saved, err = bare.SaveApprovedContent(context.Background(), "northwind", "", variation(), "", models.ContentTypeAdCopy, dataURL)
	if err != nil || saved.ImageURL != "" {
		t.Errorf("without storage the image should be dropped: %q, %v", saved.ImageURL, err)
	}
}

func TestGetApprovedContentNewestFirst(t *testing.T) {
	st := &memApproved{}
	svc := NewService(Deps{Store: st})
	ctx := context.Background()
	for _, h := range []string{"first", "second", "third"} {
		v := variation()
		v.Headline = h
		if _, err := svc.SaveApprovedContent(ctx, "northwind", "", v, "", models.ContentTypeAdCopy, ""); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = svc.SaveApprovedContent(ctx, "other", "", variation(), "", models.ContentTypeAdCopy, "")

	items, _ := svc.GetApprovedContentForBrand(ctx, "northwind", 2)
	if len(items) != 2 || items[0].Headline() != "third" || items[1].Headline() != "second" {
		t.Errorf("items = %+v", items)
	}
}

func TestFormatApprovedContentAsInspiration(t *testing.T) {
	if got := FormatApprovedContentAsInspiration(nil); got != NoApprovedContent {
		t.Errorf("empty = %q", got)
	}

	v := variation()
	items := []models.ApprovedContent{
		{ContentType: models.ContentTypeAdCopy, UserPrompt: "open day", Variation: &v, ApprovedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ContentType: models.ContentTypeBlog, Content: &models.GeneratedContent{Title: "Evenings", Content: "Long form"}, ApprovedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	got := FormatApprovedContentAsInspiration(items)
	for _, want := range []string{
		"EXAMPLE 1 — approved on 2026-03-02",
		"Headline: Study after work",
		"CTA: Book a seat",
		"Keywords: evening, flexible",
		"EXAMPLE 2 — approved on 2026-03-01",
		"Type: blog post",
		"Headline: Evenings",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("inspiration missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "EXAMPLE 1") > strings.Index(got, "EXAMPLE 2") {
		t.Error("examples out of order")
	}
}

func TestApprovedInspirationEmpty(t *testing.T) {
	svc := NewService(Deps{Store: &memApproved{}})
	got, err := svc.ApprovedInspiration(context.Background(), "northwind", 3)
	if err != nil || got != "" {
		t.Errorf("ApprovedInspiration = %q, %v; want empty", got, err)
	}
}

func TestPromoteToExample(t *testing.T) {
	st := &memApproved{}
	ex := &fakeExamples{}
	ref := &fakeRefresher{}
	svc := NewService(Deps{Store: st, Examples: ex, Patterns: ref})
	ctx := context.Background()

	saved, err := svc.SaveApprovedGeneratedContent(ctx, ApprovalInput{
		BrandID:     "northwind",
		ContentType: models.ContentTypeAdCopy,
		UserPrompt:  "open day",
		Variation:   ptr(variation()),
		Market:      "emea",
		Platform:    "Facebook",
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.PromoteToExample(ctx, saved.ID, "maria", models.FunnelStage("MOFU"), "Concrete time savings")
	if err != nil {
		t.Fatalf("PromoteToExample: %v", err)
	}
	if res.Example.ID != saved.ID.String() || res.Example.Headline != "Study after work" || res.Example.WhatWorks != "Concrete time savings" {
		t.Errorf("example = %+v", res.Example)
	}
	if ex.editor != "maria" || len(ex.added) != 1 {
		t.Errorf("AddExample not called as expected: %+v", ex)
	}
	if len(ref.keys) != 1 || res.Patterns == nil || res.Patterns.Updated != 1 {
		t.Errorf("refresh = %+v, summary %+v", ref.keys, res.Patterns)
	}

	if _, err := svc.PromoteToExample(ctx, saved.ID, "maria", "", ""); !errors.Is(err, ErrAlreadyPromoted) {
		t.Errorf("second promotion: err = %v", err)
	}
}

func TestPromoteToExampleErrors(t *testing.T) {
	st := &memApproved{}
	svc := NewService(Deps{Store: st, Examples: &fakeExamples{}})
	ctx := context.Background()

	untagged, _ := svc.SaveApprovedContent(ctx, "northwind", "", variation(), "", models.ContentTypeAdCopy, "")
	if _, err := svc.PromoteToExample(ctx, untagged.ID, "", "", ""); !errors.Is(err, ErrUntagged) {
		t.Errorf("untagged: err = %v", err)
	}
	if _, err := svc.PromoteToExample(ctx, uuid.New(), "", "", ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing: err = %v", err)
	}
}

func ptr[T any](v T) *T { return &v }
