package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

// SearchClient is the raw paged directory search the pager drives
type SearchClient interface {
	SearchCandidates(ctx context.Context, params models.SearchParams, offset, count int) ([]models.Candidate, error)
}

// Pager pages through the rate-limited directory search. The limiter is
// process-wide: the external quota is global, so throttling is shared by all
// users' searches.
type Pager struct {
	client  SearchClient
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewPager creates a new pager with the given request rate
func NewPager(client SearchClient, rps int, logger *logrus.Logger) *Pager {
	if rps <= 0 {
		rps = constants.DefaultSearchRPS
	}
	return &Pager{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), constants.SearchBurst),
		logger:  logger,
	}
}

// Search collects up to desired candidates matching params, deduplicated by
// VK id in first-seen order. Pages already fetched are never discarded
// because of a later failure.
func (p *Pager) Search(ctx context.Context, params models.SearchParams, desired int) ([]models.Candidate, error) {
	if desired <= 0 {
		p.logger.Warn("Requested candidate count <= 0, returning empty result")
		return []models.Candidate{}, nil
	}

	if err := validateCriteria(params); err != nil {
		return nil, err
	}

	p.logger.Infof("Searching candidates: age %d-%d, sex %d, city %d, count %d",
		params.AgeFrom, params.AgeTo, params.Sex, params.CityID, desired)

	var collected []models.Candidate
	remaining := desired
	for remaining > 0 {
		if err := p.limiter.Wait(ctx); err != nil {
			p.logger.Warnf("Search aborted while waiting for rate limiter: %v", err)
			break
		}

		count := remaining
		if count > constants.MaxPageSize {
			count = constants.MaxPageSize
		}

		page, err := p.client.SearchCandidates(ctx, params, len(collected), count)
		if err != nil {
			// Partial-success policy: keep what we already have.
			p.logger.Errorf("Candidate search page failed at offset %d: %v", len(collected), err)
			break
		}

		collected = append(collected, page...)
		remaining -= count
		p.logger.Debugf("Fetched %d candidates in current page", len(page))

		if len(page) < count {
			p.logger.Infof("Got fewer candidates than requested (%d < %d), supply exhausted", len(page), count)
			break
		}
	}

	unique := dedupeCandidates(collected)
	if len(unique) > desired {
		unique = unique[:desired]
	}

	p.logger.Infof("Candidate search finished, %d unique candidates", len(unique))
	return unique, nil
}

// dedupeCandidates removes duplicates by VK id, keeping the first occurrence
// so the first page's ranking wins
func dedupeCandidates(candidates []models.Candidate) []models.Candidate {
	seen := make(map[int64]struct{}, len(candidates))
	unique := make([]models.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.VkID]; ok {
			continue
		}
		seen[c.VkID] = struct{}{}
		unique = append(unique, c)
	}
	return unique
}

// validateCriteria fails fast before any network call
func validateCriteria(params models.SearchParams) error {
	if params.AgeFrom > params.AgeTo {
		return &apperrors.InvalidCriteriaError{
			Field:   "age",
			Message: "minimum age must not exceed maximum age",
		}
	}
	if params.Sex != constants.SexFemale && params.Sex != constants.SexMale {
		return &apperrors.InvalidCriteriaError{
			Field:   "sex",
			Message: "sex must be 1 (female) or 2 (male)",
		}
	}
	return nil
}
