package render

import "cv-builder/internal/model"

// Labels are the localized section headings and fixed strings. The set of
// languages is closed (es/en); Spanish is the default.
type Labels struct {
	Headings map[string]string
	Present  string
	Levels   map[string]string
}

// Heading returns the localized heading for a section key.
func (l Labels) Heading(key string) string {
	return l.Headings[key]
}

// LanguageLevel localizes one of the four fixed proficiency labels.
func (l Labels) LanguageLevel(level string) string {
	if v, ok := l.Levels[level]; ok {
		return v
	}
	return level
}

var labelsES = Labels{
	Headings: map[string]string{
		model.SectionProfile:      "Perfil Profesional",
		model.SectionExperience:   "Experiencia Laboral",
		model.SectionEducation:    "Formación Académica",
		model.SectionSkills:       "Habilidades",
		model.SectionLanguages:    "Idiomas",
		model.SectionHobbies:      "Intereses",
		model.SectionCertificates: "Certificados",
		model.SectionCourses:      "Cursos",
		model.SectionProjects:     "Proyectos",
		model.SectionVolunteer:    "Voluntariado",
	},
	Present: "Presente",
	Levels: map[string]string{
		"basic":        "Básico",
		"intermediate": "Intermedio",
		"advanced":     "Avanzado",
		"native":       "Nativo",
	},
}

var labelsEN = Labels{
	Headings: map[string]string{
		model.SectionProfile:      "Professional Profile",
		model.SectionExperience:   "Work Experience",
		model.SectionEducation:    "Education",
		model.SectionSkills:       "Skills",
		model.SectionLanguages:    "Languages",
		model.SectionHobbies:      "Interests",
		model.SectionCertificates: "Certificates",
		model.SectionCourses:      "Courses",
		model.SectionProjects:     "Projects",
		model.SectionVolunteer:    "Volunteering",
	},
	Present: "Present",
	Levels: map[string]string{
		"basic":        "Basic",
		"intermediate": "Intermediate",
		"advanced":     "Advanced",
		"native":       "Native",
	},
}

// LabelsFor returns the label set for lang, defaulting to Spanish.
func LabelsFor(lang string) Labels {
	if lang == "en" {
		return labelsEN
	}
	return labelsES
}
