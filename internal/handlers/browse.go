package handlers

import (
	"context"
	"errors"

	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/helpers"
	"vk-match-bot/internal/models"
)

// handleNext advances the browsing cursor circularly and shows the new
// current candidate. The cursor moves only after the profile was fetched,
// so a directory failure leaves the state untouched and retries are safe.
func (h *DialogHandler) handleNext(ctx context.Context, userID int64, state *models.UserState) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}

	next := b.NextCursor()
	if err := h.showCandidate(ctx, userID, b.CandidateIDs[next]); err != nil {
		return err
	}

	b.Cursor = next
	return h.states.SetState(userID, state)
}

// handleBack moves the browsing cursor back circularly
func (h *DialogHandler) handleBack(ctx context.Context, userID int64, state *models.UserState) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}

	prev := b.PrevCursor()
	if err := h.showCandidate(ctx, userID, b.CandidateIDs[prev]); err != nil {
		return err
	}

	b.Cursor = prev
	return h.states.SetState(userID, state)
}

// showCandidate sends one candidate's profile with up to three of the most
// liked photos. A failed photo listing degrades to a text-only profile.
func (h *DialogHandler) showCandidate(ctx context.Context, userID, candidateID int64) error {
	candidate, err := h.directory.GetProfile(ctx, candidateID)
	if err != nil {
		return err
	}

	photos, err := h.directory.GetPhotos(ctx, candidateID)
	if err != nil {
		h.logger.Warnf("Failed to fetch photos for candidate %d: %v", candidateID, err)
		photos = nil
	}
	if len(photos) > constants.MaxPhotoAttachments {
		photos = photos[:constants.MaxPhotoAttachments]
	}

	caption := helpers.FormatCandidateCaption(candidate)
	return h.send(ctx, userID, caption, h.browseKeyboard(candidate, photos), helpers.FormatAttachments(photos))
}

// handleAddFavorite stores the currently browsed candidate in the user's
// favorites
func (h *DialogHandler) handleAddFavorite(ctx context.Context, userID int64, state *models.UserState) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}
	candidateID := b.Current()

	isFavorite, err := h.store.IsFavorite(ctx, userID, candidateID)
	if err != nil {
		return err
	}
	if isFavorite {
		return h.sendText(ctx, userID, msgAlreadyFavorite)
	}

	if err := h.ensurePersisted(ctx, userID, candidateID); err != nil {
		return err
	}

	if err := h.store.AddFavorite(ctx, userID, candidateID); err != nil {
		var dup *apperrors.AlreadyFavoriteError
		if errors.As(err, &dup) {
			return h.sendText(ctx, userID, msgAlreadyFavorite)
		}
		return err
	}

	return h.sendText(ctx, userID, msgFavoriteAdded)
}

// handleRemoveFavorite drops the currently browsed candidate from the
// user's favorites
func (h *DialogHandler) handleRemoveFavorite(ctx context.Context, userID int64, state *models.UserState) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}
	candidateID := b.Current()

	isFavorite, err := h.store.IsFavorite(ctx, userID, candidateID)
	if err != nil {
		return err
	}
	if !isFavorite {
		return h.sendText(ctx, userID, msgNotFavorite)
	}

	if err := h.store.RemoveFavorite(ctx, userID, candidateID); err != nil {
		return err
	}

	return h.sendText(ctx, userID, msgFavoriteRemoved)
}

// handleAddBlacklist blocks the currently browsed candidate; subsequent
// searches filter the candidate out at finalize time
func (h *DialogHandler) handleAddBlacklist(ctx context.Context, userID int64, state *models.UserState) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}
	candidateID := b.Current()

	isBlocked, err := h.store.IsBlocked(ctx, userID, candidateID)
	if err != nil {
		return err
	}
	if isBlocked {
		return h.sendText(ctx, userID, msgAlreadyBlocked)
	}

	if err := h.ensurePersisted(ctx, userID, candidateID); err != nil {
		return err
	}

	if err := h.store.AddToBlackList(ctx, userID, candidateID); err != nil {
		var dup *apperrors.AlreadyBlockedError
		if errors.As(err, &dup) {
			return h.sendText(ctx, userID, msgAlreadyBlocked)
		}
		return err
	}

	return h.sendText(ctx, userID, msgBlockAdded)
}

// handleLikePhoto likes a photo of the currently browsed candidate. A
// payload referencing anyone else comes from a stale keyboard and is
// rejected without a directory call.
func (h *DialogHandler) handleLikePhoto(ctx context.Context, userID int64, state *models.UserState, payload models.CommandPayload) error {
	b := state.Browsing
	if b == nil || len(b.CandidateIDs) == 0 {
		return h.sendText(ctx, userID, msgSearchFirst)
	}

	if payload.OwnerID != b.Current() {
		h.logger.Warnf("Stale like from user %d: photo owner %d, current candidate %d",
			userID, payload.OwnerID, b.Current())
		return h.sendText(ctx, userID, msgLikeWrongPhoto)
	}

	liked, err := h.directory.LikePhoto(ctx, payload.OwnerID, payload.PhotoID)
	if err != nil {
		return err
	}
	if !liked {
		return h.sendText(ctx, userID, msgLikeFailed)
	}
	return h.sendText(ctx, userID, msgLikeDone)
}

// handleListFavorites shows the user's favorites as profile links
func (h *DialogHandler) handleListFavorites(ctx context.Context, userID int64) error {
	entries, err := h.store.ListFavorites(ctx, userID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return h.sendText(ctx, userID, msgNoFavorites)
	}
	return h.sendText(ctx, userID, helpers.FormatFavoritesList(entries))
}

// ensurePersisted makes sure both the requesting user and the candidate
// exist in storage before any relation insert, fetching profiles from the
// directory only when the rows are missing
func (h *DialogHandler) ensurePersisted(ctx context.Context, userID, candidateID int64) error {
	exists, err := h.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		profile, err := h.directory.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := h.store.EnsureUser(ctx, profile); err != nil {
			return err
		}
	}

	exists, err = h.store.CandidateExists(ctx, candidateID)
	if err != nil {
		return err
	}
	if !exists {
		profile, err := h.directory.GetProfile(ctx, candidateID)
		if err != nil {
			return err
		}
		if err := h.store.EnsureCandidate(ctx, profile); err != nil {
			return err
		}
	}

	return nil
}
