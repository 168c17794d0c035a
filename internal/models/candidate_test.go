package models

import (
	"testing"
	"time"
)

func TestAgeFromBirthDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		bdate string
		want  int
	}{
		{"birthday passed this year", "1.1.1990", 34},
		{"birthday later this year", "31.12.1990", 33},
		{"birthday today", "15.6.1990", 34},
		{"birthday tomorrow", "16.6.1990", 33},
		{"hidden year", "15.6", 0},
		{"empty", "", 0},
		{"garbage", "not a date", 0},
		{"non numeric day", "x.6.1990", 0},
		{"month out of range", "15.13.1990", 0},
		{"day out of range", "32.6.1990", 0},
		{"born this year", "1.1.2024", 0},
		{"implausibly old", "1.1.1900", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeFromBirthDate(tt.bdate, now); got != tt.want {
				t.Fatalf("AgeFromBirthDate(%q) = %d, want %d", tt.bdate, got, tt.want)
			}
		})
	}
}

func TestCandidateDisplayName(t *testing.T) {
	c := Candidate{FirstName: "Анна", LastName: "Иванова"}
	if got := c.DisplayName(); got != "Анна Иванова" {
		t.Fatalf("unexpected display name %q", got)
	}

	c = Candidate{FirstName: "Анна"}
	if got := c.DisplayName(); got != "Анна" {
		t.Fatalf("expected trimmed single name, got %q", got)
	}
}

func TestCandidateProfileURL(t *testing.T) {
	c := Candidate{VkID: 42}
	if got := c.ProfileURL(); got != "https://vk.com/id42" {
		t.Fatalf("unexpected profile URL %q", got)
	}
}

func TestPhotoRefAttachment(t *testing.T) {
	p := PhotoRef{OwnerID: 42, ID: 7}
	if got := p.Attachment(); got != "photo42_7" {
		t.Fatalf("unexpected attachment %q", got)
	}
}
