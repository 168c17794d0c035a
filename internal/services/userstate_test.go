package services

import (
	"testing"

	"vk-match-bot/internal/models"
)

func TestGetStateReturnsDefaultOnMiss(t *testing.T) {
	svc := NewUserStateService(30, testLogger())

	state, err := svc.GetState(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Wizard != models.WizardNone || state.Browsing != nil {
		t.Fatalf("expected a fresh default state, got %+v", state)
	}
}

func TestSetAndGetState(t *testing.T) {
	svc := NewUserStateService(30, testLogger())

	in := &models.UserState{
		Wizard: models.WizardSearchParams,
		Step:   models.StepAgeTo,
		Draft:  models.SearchParams{AgeFrom: 20},
	}
	if err := svc.SetState(1, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := svc.GetState(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Wizard != models.WizardSearchParams || out.Step != models.StepAgeTo || out.Draft.AgeFrom != 20 {
		t.Fatalf("unexpected state: %+v", out)
	}
}

func TestStatesAreIsolatedPerUser(t *testing.T) {
	svc := NewUserStateService(30, testLogger())

	if err := svc.SetState(1, &models.UserState{Wizard: models.WizardSearchParams}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other, err := svc.GetState(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Wizard != models.WizardNone {
		t.Fatalf("expected user 2 to start fresh, got %+v", other)
	}
}

func TestClearState(t *testing.T) {
	svc := NewUserStateService(30, testLogger())

	if err := svc.SetState(1, &models.UserState{Wizard: models.WizardSearchParams}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.ClearState(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err := svc.GetState(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Wizard != models.WizardNone {
		t.Fatalf("expected cleared state, got %+v", state)
	}
}
