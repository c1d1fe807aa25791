// Package state holds the single-writer document store. Every mutation
// funnels through a typed operation applied under the store lock, so readers
// always observe a consistent snapshot. Persistence is a subscriber, not an
// inline side effect.
package state

import (
	"fmt"
	"sync"

	"cv-builder/internal/model"
)

// Op is a typed update operation against the document.
type Op interface {
	Apply(doc *model.Document) error
}

// Subscriber receives a snapshot clone after each applied operation.
// Notification happens outside the store lock so a slow subscriber cannot
// block writers, but deliveries stay in version order: a subscriber never
// sees version N after N+1.
type Subscriber func(doc *model.Document, version uint64)

type notification struct {
	doc     *model.Document
	version uint64
	subs    []Subscriber
}

// Store owns the document. All writes go through Dispatch.
type Store struct {
	mu        sync.Mutex
	doc       *model.Document
	pair      *model.BilingualPair
	version   uint64
	subs      []Subscriber
	queue     []notification
	notifying bool
}

// New creates a store around doc; a nil doc starts from defaults.
func New(doc *model.Document) *Store {
	if doc == nil {
		doc = model.NewDocument()
	}
	return &Store{doc: doc}
}

// Subscribe registers fn for future snapshots.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Snapshot returns a deep copy of the current document and its version.
func (s *Store) Snapshot() (*model.Document, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.version
}

// Dispatch applies op. On error nothing is mutated and no subscriber fires.
func (s *Store) Dispatch(op Op) error {
	s.mu.Lock()
	// Apply against a clone so a failing op cannot leave partial mutation.
	next := s.doc.Clone()
	if err := op.Apply(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = next
	s.version++
	s.pair.Invalidate(next.Language)
	s.queue = append(s.queue, notification{
		doc:     next.Clone(),
		version: s.version,
		subs:    append([]Subscriber(nil), s.subs...),
	})
	if !s.notifying {
		s.notifying = true
		go s.drain()
	}
	s.mu.Unlock()
	return nil
}

// drain delivers queued notifications one at a time, oldest first. Exactly
// one drain goroutine runs at a time, so subscribers observe versions in
// dispatch order.
func (s *Store) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		n := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		for _, fn := range n.subs {
			fn(n.doc, n.version)
		}
	}
}

// Pair returns the document for lang. The primary language is always served
// from the live document; only the translated side goes through the lazily
// built shadow copy.
func (s *Store) Pair(lang string) *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lang == s.doc.Language {
		return s.doc.Clone()
	}
	s.pair = model.EnsurePair(s.pair, s.doc)
	if d := s.pair.Get(lang); d != nil {
		return d.Clone()
	}
	return s.doc.Clone()
}

// --- Typed operations ---

// SetPersonalData replaces the personal data block.
type SetPersonalData struct{ Data model.PersonalData }

func (o SetPersonalData) Apply(doc *model.Document) error {
	doc.CVData.PersonalData = o.Data
	return nil
}

// SetSummary replaces the profile summary.
type SetSummary struct{ Summary string }

func (o SetSummary) Apply(doc *model.Document) error {
	doc.CVData.Profile.Summary = o.Summary
	return nil
}

// SetTemplate switches the current template.
type SetTemplate struct{ Template string }

func (o SetTemplate) Apply(doc *model.Document) error {
	if o.Template == "" {
		return fmt.Errorf("template name is empty")
	}
	doc.CurrentTemplate = o.Template
	return nil
}

// SetLanguage switches the primary language.
type SetLanguage struct{ Language string }

func (o SetLanguage) Apply(doc *model.Document) error {
	if o.Language != "es" && o.Language != "en" {
		return fmt.Errorf("unsupported language %q", o.Language)
	}
	doc.Language = o.Language
	return nil
}

// SetSectionVisible toggles a section's visibility.
type SetSectionVisible struct {
	Section string
	Visible bool
}

func (o SetSectionVisible) Apply(doc *model.Document) error {
	doc.SectionConfig.SetVisible(o.Section, o.Visible)
	return nil
}

// ReorderSection moves a section to a new position and renumbers densely.
type ReorderSection struct {
	Section  string
	Position int
}

func (o ReorderSection) Apply(doc *model.Document) error {
	doc.SectionConfig.Reorder(o.Section, o.Position)
	return nil
}

// ReplaceCVData performs the bulk overwrite used by the section edit forms:
// the whole CVData is swapped in one transition.
type ReplaceCVData struct{ Data model.CVData }

func (o ReplaceCVData) Apply(doc *model.Document) error {
	doc.CVData = o.Data
	return nil
}

// ReplaceDocument swaps in an imported document wholesale.
type ReplaceDocument struct{ Doc *model.Document }

func (o ReplaceDocument) Apply(doc *model.Document) error {
	if o.Doc == nil {
		return fmt.Errorf("nil document")
	}
	*doc = *o.Doc.Clone()
	return nil
}

// Reset returns the document to first-load defaults.
type Reset struct{}

func (o Reset) Apply(doc *model.Document) error {
	*doc = *model.NewDocument()
	return nil
}
