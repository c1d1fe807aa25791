package pagedoc

import (
	"bytes"
	"reflect"
	"testing"

	"cv-builder/internal/model"
)

func testDocument() *model.Document {
	doc := model.NewDocument()
	doc.CVData.PersonalData = model.PersonalData{
		FirstName: "Ana", LastName: "García",
		Email: "ana@example.com", City: "Madrid", Country: "España",
	}
	doc.CVData.Profile.Summary = "Backend engineer."
	doc.CVData.Experience = []model.Experience{{
		ID: "1", Company: "Acme", Position: "Engineer",
		StartDate: "2020-07", Current: true,
		Description:  "Built platform services.",
		Achievements: []string{"Cut latency 40%"},
	}}
	doc.CVData.Skills = []model.Skill{{ID: "2", Name: "Go", Level: 4, Category: model.SkillTechnical}}
	doc.CVData.Languages = []model.Language{{ID: "3", Name: "English", Level: "advanced"}}
	return doc
}

func TestBuildCVIsAFactory(t *testing.T) {
	doc := testDocument()
	a, err := BuildCV(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := BuildCV(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if a == b {
		t.Fatal("BuildCV returned the same instance twice")
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs must build structurally identical documents")
	}
}

func TestBuildCVOmitsEmptySections(t *testing.T) {
	doc := model.NewDocument()
	doc.CVData.Education = []model.Education{{
		ID: "1", Degree: "BSc", Institution: "X",
		StartDate: "2020-01", EndDate: "2022-01",
	}}
	built, err := BuildCV(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	headings := 0
	for _, el := range built.Elements {
		if el.Type == ElHeading {
			headings++
		}
	}
	if headings != 1 {
		t.Fatalf("%d headings, want 1 (education only)", headings)
	}
}

func TestBuildCVUnknownTemplate(t *testing.T) {
	doc := testDocument()
	doc.CurrentTemplate = "brutalist"
	if _, err := BuildCV(doc); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderProducesPDF(t *testing.T) {
	for _, family := range []string{"classic", "sidebar", "onyx"} {
		doc := testDocument()
		doc.CurrentTemplate = family
		built, err := BuildCV(doc)
		if err != nil {
			t.Fatalf("%s: build: %v", family, err)
		}
		data, err := Render(built)
		if err != nil {
			t.Fatalf("%s: render: %v", family, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Fatalf("%s: output is not a PDF", family)
		}
	}
}

func TestRenderNilDocument(t *testing.T) {
	if _, err := Render(nil); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestRenderUnknownElement(t *testing.T) {
	d := &Document{Elements: []Element{{Type: "sparkline"}}}
	if _, err := Render(d); err == nil {
		t.Fatal("expected error for unknown element type")
	}
}

func TestLongContentPaginates(t *testing.T) {
	doc := testDocument()
	for i := 0; i < 40; i++ {
		doc.CVData.Experience = append(doc.CVData.Experience, model.Experience{
			ID: model.NewItemID(), Company: "Acme", Position: "Engineer",
			StartDate: "2010-01", EndDate: "2012-01",
			Description: "A reasonably long description of responsibilities and outcomes across the role.",
		})
	}
	built, err := BuildCV(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	data, err := Render(built)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	// gofpdf writes a /Count entry with the page total; a document this
	// long must span more than one page.
	if bytes.Contains(data, []byte("/Count 1")) {
		t.Fatal("long document did not paginate")
	}
}
