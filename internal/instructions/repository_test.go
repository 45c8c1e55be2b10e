package instructions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"brandstudio/internal/models"
	"brandstudio/internal/store"
)

// memDocs is an in-memory DocumentStore.
type memDocs struct {
	docs    map[string]models.BrandInstructions
	getErr  error
	upserts int
}

func newMemDocs() *memDocs {
	return &memDocs{docs: make(map[string]models.BrandInstructions)}
}

func (m *memDocs) Get(_ context.Context, brandID string) (*models.BrandInstructions, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[brandID]
	if !ok {
		return nil, fmt.Errorf("get instructions %s: %w", brandID, store.ErrNotFound)
	}
	return &doc, nil
}

func (m *memDocs) Upsert(_ context.Context, doc *models.BrandInstructions) error {
	m.upserts++
	m.docs[doc.BrandID] = *doc
	return nil
}

// memRevisions is an in-memory RevisionStore.
type memRevisions struct {
	revs      []models.InstructionRevision
	createErr error
}

func (m *memRevisions) Create(_ context.Context, rev *models.InstructionRevision) (*models.InstructionRevision, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	r := *rev
	r.ID = uuid.New()
	m.revs = append(m.revs, r)
	return &r, nil
}

func (m *memRevisions) ListByBrand(_ context.Context, brandID string, limit int) ([]models.InstructionRevision, error) {
	var out []models.InstructionRevision
	for i := len(m.revs) - 1; i >= 0 && len(out) < limit; i-- {
		if m.revs[i].BrandID == brandID {
			out = append(out, m.revs[i])
		}
	}
	return out, nil
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestRepo() (*Repository, *memDocs, *memRevisions) {
	docs := newMemDocs()
	revs := &memRevisions{}
	r := NewRepository(docs, revs)
	r.now = func() time.Time { return fixedNow }
	return r, docs, revs
}

func validDoc() *models.BrandInstructions {
	return &models.BrandInstructions{
		BrandIntroduction: "Northwind Academy runs evening data courses.",
		ToneOfVoice:       "Warm, direct, practical",
		CoreValues:        []string{"Access", "Craft"},
		KeyMessaging:      []string{"Learn from practitioners"},
		Personas: []models.Persona{{
			Name:        "Career switcher",
			Description: "Mid-career professional moving into analytics",
			PainPoints:  []string{"No time for full-time study"},
		}},
		AdCopy: models.TypeSpecificInstructions{SystemPrompt: "You write Northwind ads."},
	}
}

func TestGetUnconfiguredBrandReturnsCompleteTemplate(t *testing.T) {
	repo, _, _ := newTestRepo()

	doc, err := repo.Get(context.Background(), "northwind-academy")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.BrandID != "northwind-academy" {
		t.Errorf("BrandID = %q", doc.BrandID)
	}

	for _, s := range []string{
		doc.BrandIntroduction, doc.ToneOfVoice,
		doc.CTAGuidance.TOFU, doc.CTAGuidance.MOFU, doc.CTAGuidance.BOFU,
	} {
		if !strings.HasPrefix(s, "[PLACEHOLDER:") {
			t.Errorf("expected placeholder, got %q", s)
		}
	}
	if len(doc.Personas) == 0 || len(doc.Personas[0].PainPoints) == 0 {
		t.Fatal("personas and pain points must be non-empty")
	}
	if len(doc.CoreValues) == 0 || len(doc.KeyMessaging) == 0 {
		t.Error("core values and key messaging must be non-empty")
	}
	if len(doc.ReferenceMaterials.InterviewTranscripts) == 0 || len(doc.ReferenceMaterials.Testimonials) == 0 {
		t.Error("reference materials must be non-empty")
	}

	for _, ct := range models.ContentTypes {
		block := doc.Block(ct, "")
		if block == nil {
			t.Fatalf("nil block for %s", ct)
		}
		if len(block.Dos) == 0 || len(block.Donts) == 0 || block.Examples == nil {
			t.Errorf("%s block incomplete: %+v", ct, block)
		}
		if IsConfigured(block) {
			t.Errorf("%s block should not count as configured", ct)
		}
	}
	for _, st := range []models.EmailSubtype{models.EmailNurturingDrip, models.EmailEventInvitation, models.EmailNewsletter} {
		if b := doc.Block(models.ContentTypeEmail, st); b.SystemPrompt == "" || b.Examples == nil {
			t.Errorf("email subtype %s block incomplete", st)
		}
	}
}

func TestGetMergesPartialDocument(t *testing.T) {
	repo, docs, _ := newTestRepo()
	docs.docs["b1"] = models.BrandInstructions{
		BrandID:     "b1",
		ToneOfVoice: "Calm",
		Personas:    []models.Persona{{Name: "Nurse"}},
		Version:     4,
	}

	doc, err := repo.Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.ToneOfVoice != "Calm" {
		t.Errorf("stored value lost: %q", doc.ToneOfVoice)
	}
	if !IsPlaceholder(doc.BrandIntroduction) {
		t.Errorf("missing field not defaulted: %q", doc.BrandIntroduction)
	}
	if doc.Personas[0].Name != "Nurse" || len(doc.Personas[0].PainPoints) == 0 {
		t.Errorf("persona not merged: %+v", doc.Personas[0])
	}
	if doc.Version != 4 {
		t.Errorf("Version = %d, want 4", doc.Version)
	}
}

func TestGetPropagatesStoreErrors(t *testing.T) {
	repo, docs, _ := newTestRepo()
	docs.getErr = errors.New("connection refused")

	if _, err := repo.Get(context.Background(), "b1"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSaveValidatesRequiredFields(t *testing.T) {
	repo, docs, _ := newTestRepo()

	doc := validDoc()
	doc.BrandIntroduction = " "
	doc.KeyMessaging = []string{""}
	doc.Personas = append(doc.Personas, models.Persona{Name: "Parent"})

	_, err := repo.Save(context.Background(), "b1", doc, "ana", "")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []string{"brandIntroduction", "keyMessaging", "personas[1].description"}
	if strings.Join(verr.Fields, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", verr.Fields, want)
	}
	if docs.upserts != 0 {
		t.Error("invalid document must not be written")
	}
}

func TestSaveBumpsVersionAndWritesRevision(t *testing.T) {
	repo, docs, revs := newTestRepo()
	ctx := context.Background()

	res, err := repo.Save(ctx, "b1", validDoc(), "ana", "first pass")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Instructions.Version != 1 {
		t.Errorf("first save version = %d, want 1", res.Instructions.Version)
	}
	if res.Instructions.LastUpdatedBy != "ana" || !res.Instructions.LastUpdated.Equal(fixedNow) {
		t.Errorf("stamp = %q %v", res.Instructions.LastUpdatedBy, res.Instructions.LastUpdated)
	}

	res, err = repo.Save(ctx, "b1", validDoc(), "", "")
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if res.Instructions.Version != 2 {
		t.Errorf("second save version = %d, want 2", res.Instructions.Version)
	}
	if docs.docs["b1"].LastUpdatedBy != "anonymous" {
		t.Errorf("editor default = %q", docs.docs["b1"].LastUpdatedBy)
	}

	if len(revs.revs) != 2 {
		t.Fatalf("revisions = %d, want 2", len(revs.revs))
	}
	if revs.revs[0].Note != "first pass" || revs.revs[0].Version != 1 {
		t.Errorf("first revision = %+v", revs.revs[0])
	}

	history, err := repo.Revisions(ctx, "b1", 0)
	if err != nil {
		t.Fatalf("Revisions: %v", err)
	}
	if len(history) != 2 || history[0].Version != 2 {
		t.Errorf("history not newest first: %+v", history)
	}
}

func TestSaveSucceedsWhenRevisionFails(t *testing.T) {
	repo, docs, revs := newTestRepo()
	revs.createErr = errors.New("disk full")

	if _, err := repo.Save(context.Background(), "b1", validDoc(), "ana", ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if docs.upserts != 1 {
		t.Error("document should still be saved")
	}
}

func TestResetToDefault(t *testing.T) {
	repo, docs, revs := newTestRepo()
	ctx := context.Background()

	saved := validDoc()
	saved.AdCopy.Examples = []models.CampaignExample{
		{ID: "1", ContentType: models.ContentTypeAdCopy, Market: "EMEA", Platform: "META", Headline: "h"},
	}
	if _, err := repo.Save(ctx, "b1", saved, "ana", ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	res, err := repo.ResetToDefault(ctx, "b1", "ben")
	if err != nil {
		t.Fatalf("ResetToDefault: %v", err)
	}
	doc := res.Instructions
	want := models.PatternGroupKey{Market: "EMEA", Platform: "META", ContentType: models.ContentTypeAdCopy}
	if len(res.TouchedGroups) != 1 || res.TouchedGroups[0] != want {
		t.Errorf("reset should report the emptied group, got %+v", res.TouchedGroups)
	}
	if doc.Version != 2 {
		t.Errorf("version = %d, want 2", doc.Version)
	}
	if !IsPlaceholder(docs.docs["b1"].BrandIntroduction) {
		t.Error("stored document should be the template")
	}
	if IsConfigured(&doc.AdCopy) {
		t.Error("ad copy block should be unconfigured after reset")
	}
	if last := revs.revs[len(revs.revs)-1]; last.Note != "reset to defaults" || last.EditedBy != "ben" {
		t.Errorf("reset revision = %+v", last)
	}
}

func TestAddExample(t *testing.T) {
	repo, docs, _ := newTestRepo()
	ctx := context.Background()

	res, err := repo.AddExample(ctx, "b1", models.CampaignExample{
		ContentType:  models.ContentTypeEmail,
		EmailSubtype: models.EmailNewsletter,
		Market:       " emea ",
		Platform:     "Email",
		Headline:     "Spring term is open",
	}, "ana")
	if err != nil {
		t.Fatalf("AddExample: %v", err)
	}

	stored := docs.docs["b1"]
	got := stored.EmailSubtypes.Newsletter.Examples
	if len(got) != 1 || got[0].ID == "" || got[0].Market != "emea" {
		t.Fatalf("newsletter examples = %+v", got)
	}
	if len(stored.Email.Examples) != 0 {
		t.Error("example landed in the generic email block")
	}
	want := models.PatternGroupKey{Market: "EMEA", Platform: "EMAIL", ContentType: models.ContentTypeEmail}
	if len(res.TouchedGroups) != 1 || res.TouchedGroups[0] != want {
		t.Errorf("TouchedGroups = %+v", res.TouchedGroups)
	}
}

func TestAddExampleRejectsBadInput(t *testing.T) {
	repo, _, _ := newTestRepo()
	ctx := context.Background()

	cases := []models.CampaignExample{
		{ContentType: "tweet", Headline: "x"},
		{ContentType: models.ContentTypeBlog, EmailSubtype: models.EmailNewsletter, Headline: "x"},
		{ContentType: models.ContentTypeBlog},
	}
	for _, ex := range cases {
		var verr *ValidationError
		if _, err := repo.AddExample(ctx, "b1", ex, "ana"); !errors.As(err, &verr) {
			t.Errorf("AddExample(%+v): expected validation error, got %v", ex, err)
		}
	}
}

func TestTouchedGroups(t *testing.T) {
	ex := func(id, market string) models.CampaignExample {
		return models.CampaignExample{ID: id, ContentType: models.ContentTypeAdCopy, Market: market, Platform: "META"}
	}
	prev := &models.BrandInstructions{AdCopy: models.TypeSpecificInstructions{
		Examples: []models.CampaignExample{ex("1", "EMEA"), ex("2", "APAC")},
	}}
	next := &models.BrandInstructions{AdCopy: models.TypeSpecificInstructions{
		Examples: []models.CampaignExample{ex("1", "EMEA"), ex("2", "APAC"), ex("3", "APAC"), {ID: "4"}},
	}}

	got := TouchedGroups(prev, next)
	if len(got) != 1 || got[0].Market != "APAC" {
		t.Errorf("TouchedGroups = %+v, want only APAC", got)
	}
	if n := len(TouchedGroups(nil, next)); n != 2 {
		t.Errorf("all groups touched on first save: got %d", n)
	}
	if n := len(TouchedGroups(next, next)); n != 0 {
		t.Errorf("unchanged document touched %d groups", n)
	}

	emptied := &models.BrandInstructions{AdCopy: models.TypeSpecificInstructions{
		Examples: []models.CampaignExample{ex("1", "EMEA"), ex("5", "LATAM")},
	}}
	got = TouchedGroups(next, emptied)
	if len(got) != 2 || got[0].Market != "APAC" || got[1].Market != "LATAM" {
		t.Errorf("TouchedGroups = %+v, want vanished APAC and new LATAM", got)
	}
}
