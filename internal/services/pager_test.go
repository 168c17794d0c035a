package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

type searchPage struct {
	candidates []models.Candidate
	err        error
}

type stubSearchClient struct {
	pages   []searchPage
	calls   int
	offsets []int
	counts  []int
}

func (c *stubSearchClient) SearchCandidates(_ context.Context, _ models.SearchParams, offset, count int) ([]models.Candidate, error) {
	c.offsets = append(c.offsets, offset)
	c.counts = append(c.counts, count)
	if c.calls >= len(c.pages) {
		c.calls++
		return nil, nil
	}
	page := c.pages[c.calls]
	c.calls++
	return page.candidates, page.err
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func candidateRange(from, to int64) []models.Candidate {
	out := make([]models.Candidate, 0, to-from)
	for id := from; id < to; id++ {
		out = append(out, models.Candidate{VkID: id, FirstName: fmt.Sprintf("id%d", id)})
	}
	return out
}

func validParams() models.SearchParams {
	return models.SearchParams{AgeFrom: 18, AgeTo: 30, Sex: 1, CityID: 1}
}

func TestSearchZeroDesiredMakesNoCalls(t *testing.T) {
	client := &stubSearchClient{}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d candidates", len(got))
	}
	if client.calls != 0 {
		t.Fatalf("expected no directory calls, got %d", client.calls)
	}
}

func TestSearchValidatesCriteriaBeforeCalling(t *testing.T) {
	client := &stubSearchClient{}
	pager := NewPager(client, 100, testLogger())

	cases := []models.SearchParams{
		{AgeFrom: 30, AgeTo: 20, Sex: 1},
		{AgeFrom: 18, AgeTo: 30, Sex: 0},
		{AgeFrom: 18, AgeTo: 30, Sex: 3},
	}
	for _, params := range cases {
		_, err := pager.Search(context.Background(), params, 10)
		var invalid *apperrors.InvalidCriteriaError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected criteria error for %+v, got %v", params, err)
		}
	}
	if client.calls != 0 {
		t.Fatalf("expected no directory calls for invalid criteria, got %d", client.calls)
	}
}

func TestSearchDeduplicatesAcrossPages(t *testing.T) {
	client := &stubSearchClient{pages: []searchPage{
		{candidates: candidateRange(0, 1000)},
		{candidates: candidateRange(500, 1500)},
	}}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1500 {
		t.Fatalf("expected 1500 unique candidates, got %d", len(got))
	}
	// First occurrence wins: the order of the first page is preserved.
	if got[0].VkID != 0 || got[999].VkID != 999 || got[1000].VkID != 1000 {
		t.Fatalf("unexpected ordering: %d %d %d", got[0].VkID, got[999].VkID, got[1000].VkID)
	}
}

func TestSearchKeepsPagesOnLaterFailure(t *testing.T) {
	client := &stubSearchClient{pages: []searchPage{
		{candidates: candidateRange(0, 1000)},
		{err: errors.New("api down")},
	}}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 2000)
	if err != nil {
		t.Fatalf("expected partial success, got error: %v", err)
	}
	if len(got) != 1000 {
		t.Fatalf("expected the first page to survive, got %d candidates", len(got))
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", client.calls)
	}
}

func TestSearchStopsWhenSupplyExhausted(t *testing.T) {
	client := &stubSearchClient{pages: []searchPage{
		{candidates: candidateRange(0, 20)},
	}}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 candidates, got %d", len(got))
	}
	if client.calls != 1 {
		t.Fatalf("expected a single call for a short page, got %d", client.calls)
	}
}

func TestSearchPagesWithGrowingOffset(t *testing.T) {
	client := &stubSearchClient{pages: []searchPage{
		{candidates: candidateRange(0, 1000)},
		{candidates: candidateRange(1000, 1500)},
	}}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 1500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1500 {
		t.Fatalf("expected 1500 candidates, got %d", len(got))
	}
	if len(client.offsets) != 2 || client.offsets[0] != 0 || client.offsets[1] != 1000 {
		t.Fatalf("unexpected offsets: %v", client.offsets)
	}
	if client.counts[0] != 1000 || client.counts[1] != 500 {
		t.Fatalf("unexpected page sizes: %v", client.counts)
	}
}

func TestSearchTruncatesToDesired(t *testing.T) {
	client := &stubSearchClient{pages: []searchPage{
		{candidates: candidateRange(0, 10)},
	}}
	pager := NewPager(client, 100, testLogger())

	got, err := pager.Search(context.Background(), validParams(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(got))
	}
}
