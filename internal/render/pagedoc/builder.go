package pagedoc

import (
	"fmt"
	"strings"

	"cv-builder/internal/model"
	"cv-builder/internal/render"
)

// familyStyles maps each screen template family to its paginated appearance.
// Both targets consume the same document shape and section configuration;
// only the medium's primitives differ.
var familyStyles = map[string]Style{
	"classic": {FontFamily: "Times", Accent: Color{R: 34, G: 34, B: 34}},
	"sidebar": {FontFamily: "Helvetica", Accent: Color{R: 32, G: 53, B: 74}},
	"onyx":    {FontFamily: "Helvetica", Accent: Color{R: 201, G: 138, B: 43}},
}

// StyleFor returns the paginated appearance for a screen template family.
func StyleFor(template string) (Style, error) {
	style, ok := familyStyles[template]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", render.ErrUnknownTemplate, template)
	}
	return style, nil
}

// BuildCV constructs a fresh paginated document for the document's current
// template. It applies the same section ordering and empty-section omission
// as the screen renderer.
func BuildCV(doc *model.Document) (*Document, error) {
	style, err := StyleFor(doc.CurrentTemplate)
	if err != nil {
		return nil, err
	}
	ctx := render.BuildContext(doc)
	pd := doc.CVData.PersonalData

	out := &Document{
		Title:  pd.FullName() + " - CV",
		Author: pd.FullName(),
		Style:  style,
	}

	out.Elements = append(out.Elements, Element{Type: ElTitle, Text: pd.FullName()})
	if pd.JobTitle != "" {
		out.Elements = append(out.Elements, Element{Type: ElSubtitle, Text: pd.JobTitle})
	}
	if line := contactLine(pd); line != "" {
		out.Elements = append(out.Elements, Element{Type: ElSubtitle, Text: line})
	}
	if line := linksLine(pd); line != "" {
		out.Elements = append(out.Elements, Element{Type: ElSubtitle, Text: line})
	}
	out.Elements = append(out.Elements, Element{Type: ElRule})

	for _, sec := range ctx.Sections {
		out.Elements = append(out.Elements, Element{Type: ElHeading, Text: sec.Title})
		appendSection(out, sec.Key, doc.CVData, ctx.Labels)
	}
	return out, nil
}

func appendSection(out *Document, key string, data model.CVData, labels render.Labels) {
	add := func(el Element) { out.Elements = append(out.Elements, el) }

	switch key {
	case model.SectionProfile:
		add(Element{Type: ElText, Text: data.Profile.Summary})

	case model.SectionExperience:
		for _, e := range data.Experience {
			add(Element{Type: ElSplit, Bold: true,
				Text:  e.Position + " - " + e.Company,
				Right: render.DateRange(e.StartDate, e.EndDate, e.Current, labels),
				Sub:   e.Location,
			})
			if e.Description != "" {
				add(Element{Type: ElText, Text: e.Description})
			}
			for _, a := range e.Achievements {
				add(Element{Type: ElBullet, Text: a})
			}
			add(Element{Type: ElSpacer, Height: 2})
		}

	case model.SectionEducation:
		for _, e := range data.Education {
			what := e.Degree
			if e.Field != "" {
				what += ", " + e.Field
			}
			sub := e.Institution
			if e.Location != "" {
				sub += " - " + e.Location
			}
			add(Element{Type: ElSplit, Bold: true, Text: what,
				Right: render.DateRange(e.StartDate, e.EndDate, e.Current, labels),
				Sub:   sub,
			})
			if e.Description != "" {
				add(Element{Type: ElText, Text: e.Description})
			}
			add(Element{Type: ElSpacer, Height: 2})
		}

	case model.SectionSkills:
		for _, s := range data.Skills {
			add(Element{Type: ElBar, Text: s.Name,
				Fill: float64(s.Level) / float64(model.SkillLevelMax)})
		}

	case model.SectionLanguages:
		for _, l := range data.Languages {
			add(Element{Type: ElSplit, Text: l.Name, Right: labels.LanguageLevel(l.Level)})
		}

	case model.SectionHobbies:
		for _, h := range data.Hobbies {
			if h.Description != "" {
				add(Element{Type: ElSplit, Bold: true, Text: h.Name})
				add(Element{Type: ElText, Text: h.Description})
			} else {
				add(Element{Type: ElBullet, Text: h.Name})
			}
		}

	case model.SectionCertificates:
		for _, c := range data.Certificates {
			sub := c.Issuer
			if c.URL != "" {
				if sub != "" {
					sub += " - "
				}
				sub += render.URLLabel(c.URL)
			}
			add(Element{Type: ElSplit, Bold: true, Text: c.Name, Right: c.Date, Sub: sub})
		}

	case model.SectionCourses:
		for _, c := range data.Courses {
			sub := c.Institution
			if c.Duration != "" {
				sub += " - " + c.Duration
			}
			add(Element{Type: ElSplit, Bold: true, Text: c.Name, Right: c.Date, Sub: sub})
			if c.Description != "" {
				add(Element{Type: ElText, Text: c.Description})
			}
		}

	case model.SectionProjects:
		for _, p := range data.Projects {
			add(Element{Type: ElSplit, Bold: true, Text: p.Name,
				Right: render.DateRange(p.StartDate, p.EndDate, false, labels)})
			if p.Description != "" {
				add(Element{Type: ElText, Text: p.Description})
			}
			if len(p.Technologies) > 0 {
				add(Element{Type: ElText, Muted: true, Text: strings.Join(p.Technologies, " · ")})
			}
			if p.URL != "" {
				add(Element{Type: ElText, Text: render.URLLabel(p.URL), Link: p.URL})
			}
			add(Element{Type: ElSpacer, Height: 2})
		}

	case model.SectionVolunteer:
		for _, v := range data.Volunteer {
			add(Element{Type: ElSplit, Bold: true,
				Text:  v.Role + " - " + v.Organization,
				Right: render.DateRange(v.StartDate, v.EndDate, v.Current, labels)})
			if v.Description != "" {
				add(Element{Type: ElText, Text: v.Description})
			}
			add(Element{Type: ElSpacer, Height: 2})
		}
	}
}

func contactLine(pd model.PersonalData) string {
	var parts []string
	for _, s := range []string{pd.Email, pd.Phone} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if pd.City != "" && pd.Country != "" {
		parts = append(parts, pd.City+", "+pd.Country)
	} else if pd.City != "" {
		parts = append(parts, pd.City)
	} else if pd.Country != "" {
		parts = append(parts, pd.Country)
	}
	return strings.Join(parts, " · ")
}

func linksLine(pd model.PersonalData) string {
	var parts []string
	for _, s := range []string{pd.Website, pd.LinkedIn, pd.GitHub} {
		if s != "" {
			parts = append(parts, render.URLLabel(s))
		}
	}
	return strings.Join(parts, " · ")
}
