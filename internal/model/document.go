package model

// Go models for the CV document. These mirror cv.schema.json, which is used to
// validate imported snapshots before they replace the live document.

// PersonalData holds identity and contact fields. It is mutated only by the
// update operations in the state store and read by every template.
type PersonalData struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	// Photo is an embedded data URI (or empty when no photo was provided).
	Photo    string `json:"photo,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// FullName joins the name parts, tolerating either being empty.
func (p PersonalData) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Empty reports whether no personal data has been entered yet.
func (p PersonalData) Empty() bool {
	return p.FirstName == "" && p.LastName == "" && p.Email == "" && p.Phone == ""
}

// Profile is the free-text professional summary.
type Profile struct {
	Summary string `json:"summary"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Location     string   `json:"location,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// SkillCategory enumerates the fixed skill groupings.
type SkillCategory string

const (
	SkillTechnical SkillCategory = "technical"
	SkillSoft      SkillCategory = "soft"
	SkillLanguage  SkillCategory = "language"
)

// Skill level is an ordinal 1..5. Templates present it as a proportion
// (pips, bar or percentage); the ordinal is the only source of truth.
type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Level    int           `json:"level"`
	Category SkillCategory `json:"category"`
}

// SkillLevelMax is the top of the skill ordinal scale.
const SkillLevelMax = 5

// LanguageLevels are the four fixed proficiency labels, in ascending order.
var LanguageLevels = []string{"basic", "intermediate", "advanced", "native"}

type Language struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

type Hobby struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Certificate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
	URL    string `json:"url,omitempty"`
}

type Course struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Institution string `json:"institution,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Date        string `json:"date,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

type Volunteer struct {
	ID           string `json:"id"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Current      bool   `json:"current,omitempty"`
	Description  string `json:"description,omitempty"`
}

// CVData is the normalized résumé content.
type CVData struct {
	PersonalData PersonalData  `json:"personalData"`
	Profile      Profile       `json:"profile"`
	Education    []Education   `json:"education"`
	Experience   []Experience  `json:"experience"`
	Skills       []Skill       `json:"skills"`
	Languages    []Language    `json:"languages"`
	Hobbies      []Hobby       `json:"hobbies,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty"`
	Courses      []Course      `json:"courses,omitempty"`
	Projects     []Project     `json:"projects,omitempty"`
	Volunteer    []Volunteer   `json:"volunteer,omitempty"`
}

// Document is the full editable entity: résumé content plus the section
// visibility/order configuration and the chosen template.
type Document struct {
	CVData          CVData        `json:"cvData"`
	SectionConfig   SectionConfig `json:"sectionConfig"`
	CurrentTemplate string        `json:"currentTemplate"`
	Language        string        `json:"language"`
}

// NewDocument returns the default document created on first load: core
// sections visible, optional sections hidden, classic template, Spanish.
func NewDocument() *Document {
	return &Document{
		SectionConfig:   DefaultSectionConfig(),
		CurrentTemplate: "classic",
		Language:        "es",
	}
}

// Clone returns a deep copy. Readers always receive clones so that the store
// stays the single writer.
func (d *Document) Clone() *Document {
	out := *d
	out.SectionConfig = d.SectionConfig.Clone()
	out.CVData.Education = append([]Education(nil), d.CVData.Education...)
	out.CVData.Experience = cloneExperience(d.CVData.Experience)
	out.CVData.Skills = append([]Skill(nil), d.CVData.Skills...)
	out.CVData.Languages = append([]Language(nil), d.CVData.Languages...)
	out.CVData.Hobbies = append([]Hobby(nil), d.CVData.Hobbies...)
	out.CVData.Certificates = append([]Certificate(nil), d.CVData.Certificates...)
	out.CVData.Courses = append([]Course(nil), d.CVData.Courses...)
	out.CVData.Projects = cloneProjects(d.CVData.Projects)
	out.CVData.Volunteer = append([]Volunteer(nil), d.CVData.Volunteer...)
	return &out
}

func cloneExperience(in []Experience) []Experience {
	out := append([]Experience(nil), in...)
	for i := range out {
		out[i].Achievements = append([]string(nil), out[i].Achievements...)
	}
	return out
}

func cloneProjects(in []Project) []Project {
	out := append([]Project(nil), in...)
	for i := range out {
		out[i].Technologies = append([]string(nil), out[i].Technologies...)
	}
	return out
}
