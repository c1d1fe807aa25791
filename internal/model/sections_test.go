package model

import (
	"reflect"
	"testing"
)

func TestSortedSectionsStable(t *testing.T) {
	cfg := DefaultSectionConfig()
	// Give several sections the same order; ties must resolve to canonical
	// insertion order, not map iteration order.
	for _, k := range []string{SectionProfile, SectionExperience, SectionEducation} {
		e := cfg[k]
		e.Order = 3
		cfg[k] = e
	}
	want := cfg.SortedSections()
	for i := 0; i < 50; i++ {
		if got := cfg.SortedSections(); !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: order changed: %v vs %v", i, got, want)
		}
	}
}

func TestSortedSectionsByOrder(t *testing.T) {
	cfg := SectionConfig{
		SectionProfile:    {Order: 5, Visible: true},
		SectionExperience: {Order: 1, Visible: true},
	}
	got := cfg.SortedSections()
	want := []string{SectionExperience, SectionProfile}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSortedVisibleSectionsFilters(t *testing.T) {
	cfg := DefaultSectionConfig()
	cfg.SetVisible(SectionSkills, false)
	for _, k := range cfg.SortedVisibleSections() {
		if k == SectionSkills {
			t.Fatal("hidden section returned")
		}
		if !cfg[k].Visible {
			t.Fatalf("invisible section %q returned", k)
		}
	}
}

func TestSortedSectionsNonContiguousOrders(t *testing.T) {
	cfg := SectionConfig{
		SectionSkills:     {Order: 100, Visible: true},
		SectionProfile:    {Order: -3, Visible: true},
		SectionExperience: {Order: 7, Visible: true},
	}
	got := cfg.SortedSections()
	want := []string{SectionProfile, SectionExperience, SectionSkills}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPersonalDataCannotBeHidden(t *testing.T) {
	cfg := DefaultSectionConfig()
	cfg.SetVisible(SectionPersonalData, false)
	if !cfg[SectionPersonalData].Visible {
		t.Fatal("personalData was hidden")
	}
}

func TestReorderRenumbersDense(t *testing.T) {
	cfg := DefaultSectionConfig()
	// Spread the orders out first.
	for k, e := range cfg {
		e.Order *= 10
		cfg[k] = e
	}
	cfg.Reorder(SectionSkills, 1)

	order := cfg.SortedSections()
	if order[1] != SectionSkills {
		t.Fatalf("skills not at position 1: %v", order)
	}
	seen := map[int]bool{}
	for _, e := range cfg {
		if e.Order < 0 || e.Order >= len(cfg) {
			t.Fatalf("order %d outside dense range", e.Order)
		}
		if seen[e.Order] {
			t.Fatalf("duplicate order %d after renumber", e.Order)
		}
		seen[e.Order] = true
	}
}

func TestReorderClampsPosition(t *testing.T) {
	cfg := DefaultSectionConfig()
	cfg.Reorder(SectionProfile, 999)
	order := cfg.SortedSections()
	if order[len(order)-1] != SectionProfile {
		t.Fatalf("profile not moved to end: %v", order)
	}
	cfg.Reorder(SectionProfile, -5)
	order = cfg.SortedSections()
	if order[0] != SectionProfile {
		t.Fatalf("profile not moved to front: %v", order)
	}
}

func TestNormalizeFillsMissingEntries(t *testing.T) {
	cfg := SectionConfig{
		SectionProfile: {Order: 0, Visible: true},
	}
	cfg.Normalize()
	if len(cfg) != len(sectionKeys) {
		t.Fatalf("expected %d entries, got %d", len(sectionKeys), len(cfg))
	}
	if !cfg[SectionPersonalData].Visible {
		t.Fatal("personalData must be visible after Normalize")
	}
	if cfg[SectionVolunteer].Visible {
		t.Fatal("filled-in sections should default to hidden")
	}
}
