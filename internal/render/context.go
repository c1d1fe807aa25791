// Package render holds the screen-target template renderers. A renderer is a
// pure function from (document, section config) to HTML: no clock, no
// randomness, no side effects, so rendering the same document twice yields
// byte-identical output and measurement results stay meaningful.
package render

import (
	"strings"

	"cv-builder/internal/model"
)

// Context is the data handed to every template family. Sections carries only
// the visible sections that actually have content, already in render order,
// so templates never emit empty headings or residual spacing.
type Context struct {
	Data     model.CVData
	Sections []Section
	Labels   Labels
	Lang     string
}

// Section is one renderable content block.
type Section struct {
	Key   string
	Title string
}

// BuildContext derives the render context from a document. It implements the
// empty-section omission invariant in one place, shared by every screen
// template and by the paginated-document builders.
func BuildContext(doc *model.Document) Context {
	labels := LabelsFor(doc.Language)
	ctx := Context{Data: doc.CVData, Labels: labels, Lang: doc.Language}

	for _, key := range doc.SectionConfig.SortedVisibleSections() {
		if key == model.SectionPersonalData {
			continue // rendered as the fixed header block
		}
		if !HasContent(doc.CVData, key) {
			continue
		}
		ctx.Sections = append(ctx.Sections, Section{Key: key, Title: labels.Heading(key)})
	}
	return ctx
}

// HasContent reports whether the section has anything to render. A blank
// summary or an empty list means the section is skipped entirely.
func HasContent(data model.CVData, key string) bool {
	switch key {
	case model.SectionPersonalData:
		return true
	case model.SectionProfile:
		return strings.TrimSpace(data.Profile.Summary) != ""
	case model.SectionEducation:
		return len(data.Education) > 0
	case model.SectionExperience:
		return len(data.Experience) > 0
	case model.SectionSkills:
		return len(data.Skills) > 0
	case model.SectionLanguages:
		return len(data.Languages) > 0
	case model.SectionHobbies:
		return len(data.Hobbies) > 0
	case model.SectionCertificates:
		return len(data.Certificates) > 0
	case model.SectionCourses:
		return len(data.Courses) > 0
	case model.SectionProjects:
		return len(data.Projects) > 0
	case model.SectionVolunteer:
		return len(data.Volunteer) > 0
	}
	return false
}

// SkillPercent converts the 1..5 ordinal into a 0..100 proportion.
func SkillPercent(level int) int {
	if level < 0 {
		level = 0
	}
	if level > model.SkillLevelMax {
		level = model.SkillLevelMax
	}
	return level * 100 / model.SkillLevelMax
}

// DateRange formats a start/end pair. A set current flag suppresses the end
// date in favor of the localized "present" label.
func DateRange(start, end string, current bool, labels Labels) string {
	switch {
	case start == "" && end == "" && !current:
		return ""
	case current:
		if start == "" {
			return labels.Present
		}
		return start + " – " + labels.Present
	case end == "":
		return start
	case start == "":
		return end
	}
	return start + " – " + end
}

// Paragraphs splits free text on newlines, preserving user line structure.
// Blank lines produce paragraph breaks; nothing is truncated or re-wrapped.
func Paragraphs(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
