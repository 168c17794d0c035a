package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

// UserStateService manages user conversation states. Entries are created on
// first interaction and evicted after the configured idle TTL so the map
// cannot grow without bound.
type UserStateService struct {
	cache  *cache.Cache
	logger *logrus.Logger
}

// NewUserStateService creates a new user state service
func NewUserStateService(ttlMinutes int, logger *logrus.Logger) *UserStateService {
	if ttlMinutes <= 0 {
		ttlMinutes = constants.DefaultStateTTL
	}
	return &UserStateService{
		cache:  cache.New(time.Duration(ttlMinutes)*time.Minute, constants.StateCleanupInterval*time.Minute),
		logger: logger,
	}
}

// GetState gets a user's state, returning a fresh default when none is cached
func (s *UserStateService) GetState(userID int64) (*models.UserState, error) {
	key := stateKey(userID)

	if data, found := s.cache.Get(key); found {
		if state, ok := data.(*models.UserState); ok {
			return state, nil
		}
		return nil, &apperrors.StateError{UserID: userID, Message: "unexpected cached state type"}
	}

	return &models.UserState{}, nil
}

// SetState sets a user's state and refreshes its idle TTL
func (s *UserStateService) SetState(userID int64, state *models.UserState) error {
	s.cache.Set(stateKey(userID), state, cache.DefaultExpiration)
	s.logger.Debugf("Set state for user %d: wizard=%d step=%d", userID, state.Wizard, state.Step)
	return nil
}

// ClearState clears a user's state
func (s *UserStateService) ClearState(userID int64) error {
	s.cache.Delete(stateKey(userID))
	s.logger.Debugf("Cleared state for user %d", userID)
	return nil
}

func stateKey(userID int64) string {
	return fmt.Sprintf("user_state_%d", userID)
}
