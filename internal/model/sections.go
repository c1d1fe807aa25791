package model

import "sort"

// Section keys. personalData is always rendered first and cannot be hidden.
const (
	SectionPersonalData = "personalData"
	SectionProfile      = "profile"
	SectionEducation    = "education"
	SectionExperience   = "experience"
	SectionSkills       = "skills"
	SectionLanguages    = "languages"
	SectionHobbies      = "hobbies"
	SectionCertificates = "certificates"
	SectionCourses      = "courses"
	SectionProjects     = "projects"
	SectionVolunteer    = "volunteer"
)

// sectionKeys is the canonical insertion order; it breaks ties between equal
// order values so that sorting is stable, never arbitrary.
var sectionKeys = []string{
	SectionPersonalData,
	SectionProfile,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionLanguages,
	SectionHobbies,
	SectionCertificates,
	SectionCourses,
	SectionProjects,
	SectionVolunteer,
}

// SectionEntry is the per-section visibility and ordering configuration.
type SectionEntry struct {
	Visible bool `json:"visible"`
	Order   int  `json:"order"`
}

// SectionConfig maps section key to its entry. Order values need not be
// contiguous; only relative magnitude matters.
type SectionConfig map[string]SectionEntry

// DefaultSectionConfig makes the core sections visible and the optional ones
// (hobbies, certificates, courses, projects, volunteer) hidden.
func DefaultSectionConfig() SectionConfig {
	cfg := make(SectionConfig, len(sectionKeys))
	core := map[string]bool{
		SectionPersonalData: true,
		SectionProfile:      true,
		SectionExperience:   true,
		SectionEducation:    true,
		SectionSkills:       true,
		SectionLanguages:    true,
	}
	for i, key := range sectionKeys {
		cfg[key] = SectionEntry{Visible: core[key], Order: i}
	}
	return cfg
}

// Clone returns a copy of the configuration.
func (c SectionConfig) Clone() SectionConfig {
	out := make(SectionConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// SortedSections returns every configured section key sorted ascending by
// order. Ties are broken by canonical key insertion order, so the result is
// deterministic for any input.
func (c SectionConfig) SortedSections() []string {
	keys := make([]string, 0, len(c))
	for _, k := range sectionKeys {
		if _, ok := c[k]; ok {
			keys = append(keys, k)
		}
	}
	// Unknown keys (e.g. from a newer snapshot) go last, in name order.
	var extra []string
	for k := range c {
		if !isKnownSection(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	sort.SliceStable(keys, func(i, j int) bool {
		return c[keys[i]].Order < c[keys[j]].Order
	})
	return keys
}

// SortedVisibleSections filters SortedSections to visible entries.
func (c SectionConfig) SortedVisibleSections() []string {
	all := c.SortedSections()
	out := all[:0]
	for _, k := range all {
		if c[k].Visible {
			out = append(out, k)
		}
	}
	return out
}

// SetVisible toggles a section. personalData is always visible; attempts to
// hide it are ignored.
func (c SectionConfig) SetVisible(key string, visible bool) {
	if key == SectionPersonalData && !visible {
		return
	}
	entry, ok := c[key]
	if !ok {
		return
	}
	entry.Visible = visible
	c[key] = entry
}

// Reorder moves key to position pos within the sorted sequence and renumbers
// every entry to a dense 0..N-1 range.
func (c SectionConfig) Reorder(key string, pos int) {
	if _, ok := c[key]; !ok {
		return
	}
	order := c.SortedSections()
	cur := -1
	for i, k := range order {
		if k == key {
			cur = i
			break
		}
	}
	order = append(order[:cur], order[cur+1:]...)
	if pos < 0 {
		pos = 0
	}
	if pos > len(order) {
		pos = len(order)
	}
	order = append(order[:pos], append([]string{key}, order[pos:]...)...)
	for i, k := range order {
		entry := c[k]
		entry.Order = i
		c[k] = entry
	}
}

// Normalize fills entries missing from an imported configuration with
// defaults and re-asserts the personalData visibility invariant.
func (c SectionConfig) Normalize() {
	maxOrder := -1
	for _, e := range c {
		if e.Order > maxOrder {
			maxOrder = e.Order
		}
	}
	for _, key := range sectionKeys {
		if _, ok := c[key]; !ok {
			maxOrder++
			c[key] = SectionEntry{Visible: false, Order: maxOrder}
		}
	}
	entry := c[SectionPersonalData]
	entry.Visible = true
	c[SectionPersonalData] = entry
}

func isKnownSection(key string) bool {
	for _, k := range sectionKeys {
		if k == key {
			return true
		}
	}
	return false
}
