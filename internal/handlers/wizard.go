package handlers

import (
	"context"
	"fmt"

	"vk-match-bot/internal/constants"
	"vk-match-bot/internal/models"
	"vk-match-bot/internal/validation"
)

// startWizard begins collecting search criteria from the first step
func (h *DialogHandler) startWizard(ctx context.Context, userID int64, state *models.UserState) error {
	state.ResetWizard()
	state.Draft = models.SearchParams{}
	state.Wizard = models.WizardSearchParams
	state.Step = models.StepAgeFrom
	if err := h.states.SetState(userID, state); err != nil {
		return err
	}
	return h.send(ctx, userID, msgAskAgeFrom, h.cancelKeyboard(), "")
}

// handleFindPerson re-runs the last search when criteria were already
// collected, otherwise starts the wizard
func (h *DialogHandler) handleFindPerson(ctx context.Context, userID int64, state *models.UserState) error {
	if state.Browsing != nil {
		return h.finalize(ctx, userID, state, state.Browsing.Params)
	}
	return h.startWizard(ctx, userID, state)
}

// handleWizardInput feeds free text into the active wizard step. Invalid
// input re-prompts the same step; the step counter never silently skips.
func (h *DialogHandler) handleWizardInput(ctx context.Context, userID int64, state *models.UserState, text string) error {
	switch state.Step {
	case models.StepAgeFrom:
		age, err := validation.ParseAge(text)
		if err != nil {
			return h.send(ctx, userID, msgBadAgeFrom, h.cancelKeyboard(), "")
		}
		state.Draft.AgeFrom = age
		state.Step = models.StepAgeTo
		if err := h.states.SetState(userID, state); err != nil {
			return err
		}
		return h.send(ctx, userID, fmt.Sprintf(msgAskAgeTo, age), h.cancelKeyboard(), "")

	case models.StepAgeTo:
		age, err := validation.ParseAgeTo(text, state.Draft.AgeFrom)
		if err != nil {
			return h.send(ctx, userID, fmt.Sprintf(msgBadAgeTo, state.Draft.AgeFrom), h.cancelKeyboard(), "")
		}
		state.Draft.AgeTo = age
		state.Step = models.StepSex
		if err := h.states.SetState(userID, state); err != nil {
			return err
		}
		return h.send(ctx, userID, msgAskSex, h.cancelKeyboard(), "")

	case models.StepSex:
		sex, err := validation.ParseSex(text)
		if err != nil {
			return h.send(ctx, userID, msgBadSex, h.cancelKeyboard(), "")
		}
		state.Draft.Sex = sex
		state.Step = models.StepCity
		if err := h.states.SetState(userID, state); err != nil {
			return err
		}
		return h.send(ctx, userID, msgAskCity, h.cancelKeyboard(), "")

	case models.StepCity:
		return h.handleCityInput(ctx, userID, state, text)

	case models.StepSelectCity:
		// Only a structured choice completes this step.
		return h.sendCityChoices(ctx, userID, state.PendingCities)

	default:
		h.logger.Warnf("Unknown wizard step %d for user %d", state.Step, userID)
		return h.handleCancel(ctx, userID, state)
	}
}

// handleCityInput resolves a free-text city name via the directory lookup
func (h *DialogHandler) handleCityInput(ctx context.Context, userID int64, state *models.UserState, text string) error {
	cities, err := h.directory.GetCities(ctx, text)
	if err != nil {
		return err
	}

	switch {
	case len(cities) == 0:
		return h.send(ctx, userID, msgNoCity, h.cancelKeyboard(), "")

	case len(cities) == 1:
		params := state.Draft
		params.CityID = cities[0].ID
		return h.finalize(ctx, userID, state, params)

	default:
		if len(cities) > constants.MaxCityChoices {
			cities = cities[:constants.MaxCityChoices]
		}
		state.Wizard = models.WizardSelectCity
		state.Step = models.StepSelectCity
		state.PendingCities = cities
		if err := h.states.SetState(userID, state); err != nil {
			return err
		}
		return h.sendCityChoices(ctx, userID, cities)
	}
}

// handleSelectCity completes the wizard from a structured city choice
func (h *DialogHandler) handleSelectCity(ctx context.Context, userID int64, state *models.UserState, payload models.CommandPayload) error {
	if state.Step != models.StepSelectCity {
		return h.sendText(ctx, userID, msgStaleCity)
	}

	var chosen *models.City
	for i := range state.PendingCities {
		if state.PendingCities[i].ID == payload.CityID {
			chosen = &state.PendingCities[i]
			break
		}
	}
	if chosen == nil {
		// The choice must match an offered city; re-display the same list.
		return h.sendCityChoices(ctx, userID, state.PendingCities)
	}

	params := state.Draft
	params.CityID = chosen.ID
	return h.finalize(ctx, userID, state, params)
}

// sendCityChoices shows the pending city disambiguation keyboard
func (h *DialogHandler) sendCityChoices(ctx context.Context, userID int64, cities []models.City) error {
	return h.send(ctx, userID, msgChooseCity, h.cityKeyboard(cities), "")
}

// finalize issues the search with the given criteria, filters the user's
// block list, persists unseen candidates and transitions into browsing at
// cursor 0. State is touched only after every collaborator call succeeded;
// a failure leaves the wizard where it was so the same input can be retried.
func (h *DialogHandler) finalize(ctx context.Context, userID int64, state *models.UserState, params models.SearchParams) error {
	blocked, err := h.store.ListBlocked(ctx, userID)
	if err != nil {
		return err
	}

	found, err := h.searcher.Search(ctx, params, h.searchCount)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(found))
	for _, c := range found {
		if blocked[c.VkID] {
			continue
		}
		if err := h.store.EnsureCandidate(ctx, c); err != nil {
			return err
		}
		ids = append(ids, c.VkID)
	}

	state.ResetWizard()
	state.Draft = params
	if len(ids) == 0 {
		if err := h.states.SetState(userID, state); err != nil {
			return err
		}
		return h.sendText(ctx, userID, msgNoResults)
	}

	state.Browsing = &models.Browsing{CandidateIDs: ids, Cursor: 0, Params: params}
	if err := h.states.SetState(userID, state); err != nil {
		return err
	}

	h.logger.Infof("User %d browses %d candidates", userID, len(ids))
	return h.showCandidate(ctx, userID, ids[0])
}
