package helpers

import (
	"testing"

	"vk-match-bot/internal/models"
)

func TestFormatCandidateCaption(t *testing.T) {
	c := models.Candidate{VkID: 42, FirstName: "Анна", LastName: "Иванова", Age: 25, City: "Москва"}
	want := "Анна Иванова, 25 лет, Москва\nhttps://vk.com/id42"
	if got := FormatCandidateCaption(c); got != want {
		t.Fatalf("unexpected caption:\n got %q\nwant %q", got, want)
	}
}

func TestFormatCandidateCaptionUnknownAgeAndCity(t *testing.T) {
	c := models.Candidate{VkID: 42, FirstName: "Анна", LastName: "Иванова"}
	want := "Анна Иванова\nhttps://vk.com/id42"
	if got := FormatCandidateCaption(c); got != want {
		t.Fatalf("unexpected caption:\n got %q\nwant %q", got, want)
	}
}

func TestFormatFavoritesList(t *testing.T) {
	entries := []models.FavoriteEntry{
		{DisplayName: "Анна Иванова", ProfileURL: "https://vk.com/id101"},
		{DisplayName: "Мария Петрова", ProfileURL: "https://vk.com/id102"},
	}
	want := "⭐ Список избранных:\n1. Анна Иванова — https://vk.com/id101\n2. Мария Петрова — https://vk.com/id102"
	if got := FormatFavoritesList(entries); got != want {
		t.Fatalf("unexpected listing:\n got %q\nwant %q", got, want)
	}
}

func TestFormatAttachments(t *testing.T) {
	photos := []models.PhotoRef{
		{OwnerID: 1, ID: 10},
		{OwnerID: 1, ID: 11},
	}
	if got := FormatAttachments(photos); got != "photo1_10,photo1_11" {
		t.Fatalf("unexpected attachments %q", got)
	}
	if got := FormatAttachments(nil); got != "" {
		t.Fatalf("expected empty string for no photos, got %q", got)
	}
}
