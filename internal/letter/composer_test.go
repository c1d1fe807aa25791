package letter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cv-builder/internal/model"
	"cv-builder/internal/render/pagedoc"
)

func TestStripClosing(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"spanish closing and name",
			"Estimado equipo,\n\nMe dirijo a ustedes.\n\nAtentamente,\nAna Vidal",
			"Estimado equipo,\n\nMe dirijo a ustedes.",
		},
		{
			"english closing only",
			"Dear team,\n\nI am writing to you.\n\nBest regards,",
			"Dear team,\n\nI am writing to you.",
		},
		{
			"name only",
			"Cuerpo de la carta.\nAna Vidal",
			"Cuerpo de la carta.",
		},
		{
			"no closing untouched",
			"Cuerpo de la carta sin despedida.",
			"Cuerpo de la carta sin despedida.",
		},
		{
			"closing phrase mid-body survives",
			"Sincerely is how I sign.\n\nMore body text.",
			"Sincerely is how I sign.\n\nMore body text.",
		},
		{
			"closing with period and blank lines",
			"Body.\n\nYours sincerely.\n\n  \n",
			"Body.",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := StripClosing(c.body, "Ana Vidal")
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestStripClosingIdempotent(t *testing.T) {
	bodies := []string{
		"Body text.\n\nAtentamente,\nAna Vidal",
		"Body text.\n\nSincerely,",
		"Body text.",
		"",
	}
	for _, body := range bodies {
		once := StripClosing(body, "Ana Vidal")
		twice := StripClosing(once, "Ana Vidal")
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", body, once, twice)
		}
	}
}

func TestStripClosingEmptyName(t *testing.T) {
	body := "Body.\nAna Vidal"
	if got := StripClosing(body, ""); got != body {
		t.Errorf("stripped a name line without knowing the name: %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	pd := model.PersonalData{FirstName: "Ana", LastName: "Vidal", JobTitle: "Backend Engineer"}
	in := Input{Company: "Acme", Position: "Senior Go Developer"}

	es := BuildPrompt(pd, in, "es")
	for _, want := range []string{"Ana Vidal", "Acme", "Senior Go Developer", "español"} {
		if !strings.Contains(es, want) {
			t.Errorf("spanish prompt missing %q", want)
		}
	}
	en := BuildPrompt(pd, in, "en")
	if !strings.Contains(en, "English") {
		t.Error("english prompt missing language directive")
	}
	if strings.Contains(en, "Recipient") {
		t.Error("empty recipient field leaked into prompt")
	}
}

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

func TestDraftStripsGeneratedClosing(t *testing.T) {
	gen := &fakeGenerator{text: "Estimado equipo,\n\nCuerpo.\n\nAtentamente,\nAna Vidal"}
	c := NewComposer(gen)
	pd := model.PersonalData{FirstName: "Ana", LastName: "Vidal"}

	got, err := c.Draft(context.Background(), pd, Input{Company: "Acme"}, "es")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if strings.Contains(got, "Atentamente") || strings.HasSuffix(got, "Ana Vidal") {
		t.Errorf("draft kept generated closing: %q", got)
	}
}

func TestDraftErrorPropagates(t *testing.T) {
	boom := errors.New("quota exhausted")
	c := NewComposer(&fakeGenerator{err: boom})
	if _, err := c.Draft(context.Background(), model.PersonalData{}, Input{}, "es"); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped generator error", err)
	}
}

func TestBuildLetterBodyVerbatim(t *testing.T) {
	doc := model.NewDocument()
	doc.CVData.PersonalData.FirstName = "Ana"
	doc.CVData.PersonalData.LastName = "Vidal"
	body := "Línea uno.\n\n  Línea con sangría.\nFinal."

	built, err := Build(doc, body, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var bodyElements int
	for _, el := range built.Elements {
		if el.Type == pagedoc.ElText && el.Text == body {
			bodyElements++
		}
	}
	if bodyElements != 1 {
		t.Fatalf("body must appear exactly once, byte-for-byte; found %d", bodyElements)
	}

	last := built.Elements[len(built.Elements)-1]
	if !last.Bold || last.Text != "Ana Vidal" {
		t.Fatalf("signature element wrong: %+v", last)
	}
	if !strings.Contains(elementsText(built), "Atentamente,") {
		t.Fatal("spanish letter missing its own closing")
	}
	if !strings.Contains(elementsText(built), "5 de marzo de 2026") {
		t.Fatal("date line missing or not localized")
	}
}

func TestBuildLetterEnglishDateAndClosing(t *testing.T) {
	doc := model.NewDocument()
	doc.Language = "en"
	doc.CVData.PersonalData.FirstName = "Ana"

	built, err := Build(doc, "Body.", time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	text := elementsText(built)
	if !strings.Contains(text, "March 5, 2026") {
		t.Fatal("english date missing")
	}
	if !strings.Contains(text, "Sincerely,") {
		t.Fatal("english closing missing")
	}
}

func TestBuildLetterUnknownTemplate(t *testing.T) {
	doc := model.NewDocument()
	doc.CurrentTemplate = "parchment"
	if _, err := Build(doc, "x", time.Now()); err == nil {
		t.Fatal("unknown template accepted")
	}
}

func TestBuildLetterRendersSinglePage(t *testing.T) {
	doc := model.NewDocument()
	doc.CVData.PersonalData.FirstName = "Ana"
	built, err := Build(doc, "Short body.", time.Now())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	blob, err := pagedoc.Render(built)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(blob), "/Count 1") {
		t.Fatal("short letter spilled past one page")
	}
}

func elementsText(d *pagedoc.Document) string {
	var b strings.Builder
	for _, el := range d.Elements {
		b.WriteString(el.Text)
		b.WriteString("|")
		b.WriteString(el.Right)
		b.WriteString("\n")
	}
	return b.String()
}
