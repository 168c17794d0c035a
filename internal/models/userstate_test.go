package models

import "testing"

func TestBrowsingCursorWraps(t *testing.T) {
	b := &Browsing{CandidateIDs: []int64{10, 20, 30}, Cursor: 0}

	if got := b.NextCursor(); got != 1 {
		t.Fatalf("expected next cursor 1, got %d", got)
	}

	b.Cursor = 2
	if got := b.NextCursor(); got != 0 {
		t.Fatalf("expected next cursor to wrap to 0, got %d", got)
	}

	b.Cursor = 0
	if got := b.PrevCursor(); got != 2 {
		t.Fatalf("expected prev cursor to wrap to 2, got %d", got)
	}
}

func TestBrowsingSingleCandidate(t *testing.T) {
	b := &Browsing{CandidateIDs: []int64{10}, Cursor: 0}

	if got := b.NextCursor(); got != 0 {
		t.Fatalf("expected next cursor 0, got %d", got)
	}
	if got := b.PrevCursor(); got != 0 {
		t.Fatalf("expected prev cursor 0, got %d", got)
	}
	if got := b.Current(); got != 10 {
		t.Fatalf("expected current candidate 10, got %d", got)
	}
}

func TestResetWizardKeepsDraft(t *testing.T) {
	s := &UserState{
		Wizard:        WizardSelectCity,
		Step:          StepSelectCity,
		Draft:         SearchParams{AgeFrom: 18, AgeTo: 30, Sex: 1, CityID: 1},
		PendingCities: []City{{ID: 1, Title: "Москва"}},
	}

	s.ResetWizard()

	if s.Wizard != WizardNone || s.Step != StepAgeFrom {
		t.Fatalf("expected wizard to be cleared, got wizard=%d step=%d", s.Wizard, s.Step)
	}
	if s.PendingCities != nil {
		t.Fatalf("expected pending cities to be cleared")
	}
	if s.Draft.AgeFrom != 18 {
		t.Fatalf("expected draft to survive, got %+v", s.Draft)
	}
}
