package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestContentTypeValid(t *testing.T) {
	for _, ct := range ContentTypes {
		if !ct.Valid() {
			t.Errorf("%q should be valid", ct)
		}
	}
	if ContentType("tweet").Valid() {
		t.Error("unknown content type reported as valid")
	}
}

func TestParseFunnelStage(t *testing.T) {
	tests := []struct {
		in   string
		want FunnelStage
	}{
		{"TOFU", StageTOFU},
		{" mofu ", StageMOFU},
		{"bofu", StageBOFU},
		{"middle", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ParseFunnelStage(tt.in); got != tt.want {
			t.Errorf("ParseFunnelStage(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlockSelectsEmailSubtype(t *testing.T) {
	var bi BrandInstructions
	bi.EmailSubtypes.NurturingDrip.SystemPrompt = "drip"
	bi.Email.SystemPrompt = "generic"

	if got := bi.Block(ContentTypeEmail, EmailNurturingDrip).SystemPrompt; got != "drip" {
		t.Errorf("subtype block: got %q", got)
	}
	if got := bi.Block(ContentTypeEmail, "").SystemPrompt; got != "generic" {
		t.Errorf("generic email block: got %q", got)
	}
	if bi.Block("tweet", "") != nil {
		t.Error("unknown type should return nil block")
	}
}

func TestAllExamplesInheritsBlockType(t *testing.T) {
	var bi BrandInstructions
	bi.AdCopy.Examples = []CampaignExample{{Headline: "a"}}
	bi.EmailSubtypes.Newsletter.Examples = []CampaignExample{{Headline: "n"}}
	bi.Blog.Examples = []CampaignExample{{Headline: "b", ContentType: ContentTypeBlog}}

	all := bi.AllExamples()
	if len(all) != 3 {
		t.Fatalf("got %d examples, want 3", len(all))
	}
	if all[0].ContentType != ContentTypeAdCopy {
		t.Errorf("ad example type: got %q", all[0].ContentType)
	}
	last := all[2]
	if last.ContentType != ContentTypeEmail || last.EmailSubtype != EmailNewsletter {
		t.Errorf("newsletter example: got %q/%q", last.ContentType, last.EmailSubtype)
	}
}

func TestCampaignExampleTaggedAndKey(t *testing.T) {
	ex := CampaignExample{Market: " emea", Platform: "meta ", ContentType: ContentTypeAdCopy}
	if !ex.Tagged() {
		t.Fatal("example with market and platform should be tagged")
	}
	key := ex.Key()
	if key.Market != "EMEA" || key.Platform != "META" {
		t.Errorf("key not normalised: %+v", key)
	}
	if (CampaignExample{Market: "EMEA"}).Tagged() {
		t.Error("example without platform should not be tagged")
	}
}

func TestPatternsNormalizeProducesEmptyArrays(t *testing.T) {
	var p Patterns
	p.Normalize()
	if !p.Empty() {
		t.Error("normalised zero patterns should be empty")
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "null") {
		t.Errorf("normalised patterns should not serialise nulls: %s", b)
	}
}

func TestApprovedContentAccessors(t *testing.T) {
	v := &ApprovedContent{Variation: &AdCopyVariation{Headline: "H", PrimaryText: "B", CTA: "Go"}}
	if v.Headline() != "H" || v.Body() != "B" || v.CTA() != "Go" {
		t.Errorf("variation accessors wrong: %q %q %q", v.Headline(), v.Body(), v.CTA())
	}

	c := &ApprovedContent{Content: &GeneratedContent{SubjectLine: "Subj", Content: "Text"}}
	if c.Headline() != "Subj" || c.Body() != "Text" || c.CTA() != "" {
		t.Errorf("content accessors wrong: %q %q %q", c.Headline(), c.Body(), c.CTA())
	}
}

func TestAssetHumanSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		a := &BrandAsset{SizeBytes: tt.size}
		if got := a.HumanSize(); got != tt.want {
			t.Errorf("HumanSize(%d): got %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestGroupExamples(t *testing.T) {
	examples := []CampaignExample{
		{ID: "1", ContentType: ContentTypeAdCopy, Market: "emea", Platform: "META"},
		{ID: "2", ContentType: ContentTypeAdCopy, Market: "APAC", Platform: "meta"},
		{ID: "3", ContentType: ContentTypeAdCopy, Market: " EMEA", Platform: "meta "},
		{ID: "4", ContentType: ContentTypeBlog, Market: "EMEA"},
		{ID: "5", ContentType: ContentTypeBlog, Market: "EMEA", Platform: "WEB"},
	}

	groups, keys := GroupExamples(examples)
	if len(keys) != 3 {
		t.Fatalf("got %d groups, want 3: %v", len(keys), keys)
	}
	want := []PatternGroupKey{
		{"APAC", "META", ContentTypeAdCopy},
		{"EMEA", "META", ContentTypeAdCopy},
		{"EMEA", "WEB", ContentTypeBlog},
	}
	for i, k := range want {
		if keys[i] != k {
			t.Errorf("keys[%d] = %+v, want %+v", i, keys[i], k)
		}
	}
	emea := groups[PatternGroupKey{"EMEA", "META", ContentTypeAdCopy}]
	if len(emea) != 2 || emea[0].ID != "1" || emea[1].ID != "3" {
		t.Errorf("EMEA/META group = %+v", emea)
	}
}
