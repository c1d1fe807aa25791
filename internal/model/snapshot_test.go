package model

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func sampleDocument() *Document {
	doc := NewDocument()
	doc.CVData.PersonalData = PersonalData{
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@example.com",
		Phone:     "+34 600 000 000",
		City:      "Madrid",
		Country:   "España",
		LinkedIn:  "https://linkedin.com/in/anagarcia",
	}
	doc.CVData.Profile.Summary = "Backend engineer.\nDistributed systems."
	doc.CVData.Education = []Education{{
		ID: NewItemID(), Institution: "UCM", Degree: "BSc", Field: "CS",
		StartDate: "2016-09", EndDate: "2020-06",
	}}
	doc.CVData.Experience = []Experience{{
		ID: NewItemID(), Company: "Acme", Position: "Engineer",
		StartDate: "2020-07", Current: true,
		Description:  "Built things.\nKept them running.",
		Achievements: []string{"Cut latency 40%"},
	}}
	doc.CVData.Skills = []Skill{
		{ID: NewItemID(), Name: "Go", Level: 5, Category: SkillTechnical},
		{ID: NewItemID(), Name: "Communication", Level: 4, Category: SkillSoft},
	}
	doc.CVData.Languages = []Language{{ID: NewItemID(), Name: "English", Level: "advanced"}}
	doc.CurrentTemplate = "sidebar"
	return doc
}

func TestSnapshotRoundTrip(t *testing.T) {
	doc := sampleDocument()
	doc.SectionConfig.Reorder(SectionSkills, 1)

	data, err := ExportSnapshot(doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	got, err := ImportSnapshot(data)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if !reflect.DeepEqual(got.CVData, doc.CVData) {
		t.Fatalf("cvData mismatch:\n got %+v\nwant %+v", got.CVData, doc.CVData)
	}
	if !reflect.DeepEqual(got.SectionConfig, doc.SectionConfig) {
		t.Fatalf("sectionConfig mismatch:\n got %+v\nwant %+v", got.SectionConfig, doc.SectionConfig)
	}
	if got.CurrentTemplate != doc.CurrentTemplate {
		t.Fatalf("template %q, want %q", got.CurrentTemplate, doc.CurrentTemplate)
	}
}

func TestImportSnapshotRequiresCVData(t *testing.T) {
	_, err := ImportSnapshot([]byte(`{"currentTemplate":"classic"}`))
	if err == nil {
		t.Fatal("expected error for snapshot without cvData")
	}
	if !strings.Contains(err.Error(), "cvData") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestImportSnapshotRejectsBadJSON(t *testing.T) {
	if _, err := ImportSnapshot([]byte(`{nope`)); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportSnapshotRejectsBadSkillLevel(t *testing.T) {
	raw := `{"cvData":{"skills":[{"id":"1","name":"Go","level":9,"category":"technical"}]}}`
	if _, err := ImportSnapshot([]byte(raw)); err == nil {
		t.Fatal("expected schema error for level outside 1..5")
	}
}

func TestImportSnapshotDefaultsMissingFields(t *testing.T) {
	doc, err := ImportSnapshot([]byte(`{"cvData":{"personalData":{"firstName":"Ana"}}}`))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if doc.CurrentTemplate != "classic" {
		t.Fatalf("template %q, want default classic", doc.CurrentTemplate)
	}
	if len(doc.SectionConfig) != len(sectionKeys) {
		t.Fatalf("expected full default section config, got %d entries", len(doc.SectionConfig))
	}
	if !doc.SectionConfig[SectionPersonalData].Visible {
		t.Fatal("personalData must be visible")
	}
}

func TestNewItemIDMonotonic(t *testing.T) {
	prev, _ := strconv.ParseInt(NewItemID(), 10, 64)
	for i := 0; i < 100; i++ {
		next, err := strconv.ParseInt(NewItemID(), 10, 64)
		if err != nil {
			t.Fatalf("non-numeric id: %v", err)
		}
		if next <= prev {
			t.Fatalf("id %d not greater than %d", next, prev)
		}
		prev = next
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()
	clone.CVData.Experience[0].Achievements[0] = "mutated"
	clone.SectionConfig.SetVisible(SectionSkills, false)

	if doc.CVData.Experience[0].Achievements[0] == "mutated" {
		t.Fatal("achievements shared between clone and original")
	}
	if !doc.SectionConfig[SectionSkills].Visible {
		t.Fatal("section config shared between clone and original")
	}
}
