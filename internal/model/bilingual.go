package model

// BilingualPair is the optional {es, en} shadow copy backing the language
// toggle. It is never authoritative: the primary-language document is the
// source of truth and the pair is regenerated lazily when absent.
type BilingualPair struct {
	ES *Document `json:"es,omitempty"`
	EN *Document `json:"en,omitempty"`
}

// Get returns the copy for lang, or nil.
func (p *BilingualPair) Get(lang string) *Document {
	if p == nil {
		return nil
	}
	switch lang {
	case "en":
		return p.EN
	default:
		return p.ES
	}
}

// EnsurePair fills the missing side of the pair from the primary document.
// It does nothing when no personal data exists yet, or when both sides are
// already present. The clone carries the same content; only the Language
// field differs (section headings are localized at render time).
func EnsurePair(p *BilingualPair, primary *Document) *BilingualPair {
	if primary == nil || primary.CVData.PersonalData.Empty() {
		return p
	}
	if p == nil {
		p = &BilingualPair{}
	}
	if p.ES == nil {
		p.ES = cloneWithLanguage(primary, "es")
	}
	if p.EN == nil {
		p.EN = cloneWithLanguage(primary, "en")
	}
	return p
}

// Invalidate drops the non-primary copy so it is rebuilt on next use after
// the primary document changed.
func (p *BilingualPair) Invalidate(primaryLang string) {
	if p == nil {
		return
	}
	if primaryLang == "en" {
		p.ES = nil
	} else {
		p.EN = nil
	}
}

func cloneWithLanguage(d *Document, lang string) *Document {
	out := d.Clone()
	out.Language = lang
	return out
}
