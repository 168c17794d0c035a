package models

// Wizard identifies the active multi-step dialog, if any
type Wizard int

const (
	// WizardNone means no wizard is active
	WizardNone Wizard = iota
	// WizardSearchParams is active while search criteria are being collected
	WizardSearchParams
	// WizardSelectCity is active while a city choice awaits disambiguation
	WizardSelectCity
)

// WizardStep is the position within the search-params wizard
type WizardStep int

const (
	// StepAgeFrom awaits the minimum age
	StepAgeFrom WizardStep = iota
	// StepAgeTo awaits the maximum age
	StepAgeTo
	// StepSex awaits the sex value
	StepSex
	// StepCity awaits a free-text city name
	StepCity
	// StepSelectCity awaits a structured choice among offered cities
	StepSelectCity
)

// SearchParams is the search criteria collected by the wizard
type SearchParams struct {
	AgeFrom int
	AgeTo   int
	Sex     int
	CityID  int64
}

// Browsing is the active cursor over a deduplicated search result.
// CandidateIDs keeps the relevance order returned by the directory.
type Browsing struct {
	CandidateIDs []int64
	Cursor       int
	Params       SearchParams
}

// Current returns the id under the cursor
func (b *Browsing) Current() int64 {
	return b.CandidateIDs[b.Cursor]
}

// NextCursor returns the cursor advanced by one, wrapping to the start
func (b *Browsing) NextCursor() int {
	return (b.Cursor + 1) % len(b.CandidateIDs)
}

// PrevCursor returns the cursor moved back by one, wrapping to the end
func (b *Browsing) PrevCursor() int {
	return (b.Cursor - 1 + len(b.CandidateIDs)) % len(b.CandidateIDs)
}

// UserState is the per-user conversation record. It lives in the state cache
// for the session's duration and is owned by the handler processing that
// user's current event.
type UserState struct {
	Wizard        Wizard
	Step          WizardStep
	Draft         SearchParams
	PendingCities []City
	Browsing      *Browsing
}

// ResetWizard clears the active wizard, its step and any pending city
// choices. The collected draft survives so the last criteria stay visible
// alongside the browsing context; discarding the draft is the caller's call.
func (s *UserState) ResetWizard() {
	s.Wizard = WizardNone
	s.Step = StepAgeFrom
	s.PendingCities = nil
}
