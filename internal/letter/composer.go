// Package letter drafts and assembles cover letters. Drafting goes through
// an external text generator; the resulting body stays user-editable and is
// laid out by the paginated renderer as a single fixed page.
package letter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cv-builder/internal/model"
)

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Input is what the user provides about the position being applied for.
type Input struct {
	Company    string `json:"company"`
	Position   string `json:"position"`
	Recipient  string `json:"recipient,omitempty"`
	Highlights string `json:"highlights,omitempty"`
}

// Composer drafts letter bodies through a generator.
type Composer struct {
	gen Generator
}

func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen}
}

// Draft asks the generator for a letter body and cleans its tail. The
// returned text is a starting point; the user edits it freely afterwards.
func (c *Composer) Draft(ctx context.Context, pd model.PersonalData, in Input, lang string) (string, error) {
	text, err := c.gen.Generate(ctx, BuildPrompt(pd, in, lang))
	if err != nil {
		return "", fmt.Errorf("letter: generating draft: %w", err)
	}
	return StripClosing(text, pd.FullName()), nil
}

// BuildPrompt assembles the generation prompt from the signer's profile and
// the user's input, in the requested language.
func BuildPrompt(pd model.PersonalData, in Input, lang string) string {
	var b strings.Builder
	if lang == "en" {
		b.WriteString("Write a professional cover letter in English.\n")
	} else {
		b.WriteString("Escribe una carta de presentación profesional en español.\n")
	}
	writeField := func(label, value string) {
		if value != "" {
			b.WriteString(label)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\n")
		}
	}
	writeField("Candidate", pd.FullName())
	writeField("Current title", pd.JobTitle)
	writeField("Company", in.Company)
	writeField("Position", in.Position)
	writeField("Recipient", in.Recipient)
	writeField("Highlights", in.Highlights)
	b.WriteString("Return only the letter body: no date, no address block, " +
		"no closing salutation and no signature.\n")
	return b.String()
}

// closingPhrases are the known closing salutations, both languages. Matching
// ignores case and trailing punctuation.
var closingPhrases = []string{
	"atentamente",
	"cordialmente",
	"saludos cordiales",
	"un cordial saludo",
	"sincerely",
	"yours sincerely",
	"sincerely yours",
	"best regards",
	"kind regards",
	"regards",
	"respectfully",
}

// StripClosing removes a trailing closing-salutation line and a trailing
// echo of the signer's full name, when present at the very end of body. The
// letter template renders its own closing and signature, so leaving these in
// would duplicate them. Applying the transform twice yields the same result
// as applying it once.
func StripClosing(body, fullName string) string {
	lines := strings.Split(body, "\n")
	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line == "" || isClosing(line) || isName(line, fullName) {
			end--
			continue
		}
		break
	}
	return strings.TrimRight(strings.Join(lines[:end], "\n"), " \t\r\n")
}

func isClosing(line string) bool {
	norm := strings.ToLower(strings.TrimRight(line, ".,:;"))
	for _, phrase := range closingPhrases {
		if norm == phrase {
			return true
		}
	}
	return false
}

func isName(line, fullName string) bool {
	if fullName == "" {
		return false
	}
	norm := strings.TrimRight(line, ".,")
	return strings.EqualFold(norm, fullName)
}

var spanishMonths = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders t as the letter's date line in the given language.
func FormatDate(t time.Time, lang string) string {
	if lang == "en" {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
