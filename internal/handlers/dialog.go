package handlers

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/commands"
	"vk-match-bot/internal/models"
	"vk-match-bot/internal/services"
)

// DialogHandler interprets inbound events against the per-user conversation
// state and drives the search pager and the repository
type DialogHandler struct {
	BaseHandler
	states      *services.UserStateService
	searcher    Searcher
	directory   Directory
	store       CandidateStore
	searchCount int
	locks       sync.Map // userID -> *sync.Mutex
}

// NewDialogHandler creates a new dialog handler
func NewDialogHandler(
	sender Sender,
	states *services.UserStateService,
	searcher Searcher,
	directory Directory,
	store CandidateStore,
	searchCount int,
	logger *logrus.Logger,
) *DialogHandler {
	return &DialogHandler{
		BaseHandler: NewBaseHandler(sender, logger),
		states:      states,
		searcher:    searcher,
		directory:   directory,
		store:       store,
		searchCount: searchCount,
	}
}

// Handle processes one inbound event. Events from the same user are
// serialized by a per-user lock so rapid messages cannot interleave wizard
// steps or the browsing cursor; different users proceed independently.
func (h *DialogHandler) Handle(ctx context.Context, ev models.Event) error {
	mu := h.userLock(ev.UserID)
	mu.Lock()
	defer mu.Unlock()

	cmd, payload := h.parseCommand(ev)

	state, err := h.states.GetState(ev.UserID)
	if err != nil {
		h.logger.Errorf("Failed to get state for user %d: %v", ev.UserID, err)
		state = &models.UserState{}
	}

	if err := h.dispatch(ctx, ev, state, cmd, payload); err != nil {
		h.logger.Errorf("Failed to handle event from user %d: %v", ev.UserID, err)
		// Every failed action still yields exactly one outbound message.
		if sendErr := h.sendText(ctx, ev.UserID, msgGenericError); sendErr != nil {
			h.logger.Errorf("Failed to report error to user %d: %v", ev.UserID, sendErr)
		}
	}
	return nil
}

// userLock returns the mutex owning the given user's state
func (h *DialogHandler) userLock(userID int64) *sync.Mutex {
	lock, _ := h.locks.LoadOrStore(userID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// parseCommand normalizes a structured keyboard payload or free text into a
// single command representation
func (h *DialogHandler) parseCommand(ev models.Event) (commands.Command, models.CommandPayload) {
	if ev.Payload == "" {
		return commands.FromText(ev.Text), models.CommandPayload{}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(ev.Payload), &raw); err != nil {
		h.logger.Warnf("Malformed payload from user %d: %v", ev.UserID, err)
		return commands.FromText(ev.Text), models.CommandPayload{}
	}

	var payload models.CommandPayload
	if err := mapstructure.WeakDecode(raw, &payload); err != nil {
		h.logger.Warnf("Undecodable payload from user %d: %v", ev.UserID, err)
		return commands.FromText(ev.Text), models.CommandPayload{}
	}

	cmd := commands.Command(payload.Command)
	if !knownCommand(cmd) {
		h.logger.Warnf("Unknown command %q from user %d", payload.Command, ev.UserID)
		return commands.Unknown, payload
	}
	return cmd, payload
}

// dispatch routes the command against the current conversation state
func (h *DialogHandler) dispatch(ctx context.Context, ev models.Event, state *models.UserState, cmd commands.Command, payload models.CommandPayload) error {
	// Cancel works everywhere and unconditionally discards the wizard.
	if cmd == commands.Cancel {
		return h.handleCancel(ctx, ev.UserID, state)
	}

	// An active wizard consumes everything except a structured city choice.
	if state.Wizard != models.WizardNone {
		if cmd == commands.SelectCity {
			return h.handleSelectCity(ctx, ev.UserID, state, payload)
		}
		return h.handleWizardInput(ctx, ev.UserID, state, ev.Text)
	}

	switch cmd {
	case commands.Start:
		return h.handleStart(ctx, ev.UserID)
	case commands.Help:
		return h.sendText(ctx, ev.UserID, msgHelp)
	case commands.SetSearchParams:
		return h.startWizard(ctx, ev.UserID, state)
	case commands.FindPerson:
		return h.handleFindPerson(ctx, ev.UserID, state)
	case commands.NextPerson:
		return h.handleNext(ctx, ev.UserID, state)
	case commands.Back:
		return h.handleBack(ctx, ev.UserID, state)
	case commands.AddFavorite:
		return h.handleAddFavorite(ctx, ev.UserID, state)
	case commands.RemoveFavorite:
		return h.handleRemoveFavorite(ctx, ev.UserID, state)
	case commands.AddBlacklist:
		return h.handleAddBlacklist(ctx, ev.UserID, state)
	case commands.ListFavorites:
		return h.handleListFavorites(ctx, ev.UserID)
	case commands.LikePhoto:
		return h.handleLikePhoto(ctx, ev.UserID, state, payload)
	case commands.SelectCity:
		// A city keyboard left over from an already finished wizard.
		return h.sendText(ctx, ev.UserID, msgStaleCity)
	default:
		h.logger.Warnf("Unrecognized input from user %d: %q", ev.UserID, ev.Text)
		return h.sendText(ctx, ev.UserID, msgUnknown)
	}
}

// handleStart resets the conversation and greets the user
func (h *DialogHandler) handleStart(ctx context.Context, userID int64) error {
	if err := h.states.ClearState(userID); err != nil {
		h.logger.Errorf("Failed to clear state for user %d: %v", userID, err)
	}
	return h.sendText(ctx, userID, msgGreeting)
}

// handleCancel discards the wizard and its drafts; an active browsing
// context survives
func (h *DialogHandler) handleCancel(ctx context.Context, userID int64, state *models.UserState) error {
	state.ResetWizard()
	state.Draft = models.SearchParams{}
	if err := h.states.SetState(userID, state); err != nil {
		return err
	}
	return h.sendText(ctx, userID, msgCancelled)
}

// knownCommand reports whether cmd is part of the structured payload schema
func knownCommand(cmd commands.Command) bool {
	switch cmd {
	case commands.Start, commands.Help, commands.SetSearchParams, commands.FindPerson,
		commands.AddFavorite, commands.RemoveFavorite, commands.AddBlacklist,
		commands.ListFavorites, commands.NextPerson, commands.Back, commands.Cancel,
		commands.SelectCity, commands.LikePhoto:
		return true
	}
	return false
}
