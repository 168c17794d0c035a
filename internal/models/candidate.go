package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vk-match-bot/internal/constants"
)

// Candidate is an external directory profile being evaluated as a potential
// match. Copies returned from a search are transient projections; the
// repository owns the persisted row.
type Candidate struct {
	VkID      int64
	FirstName string
	LastName  string
	City      string
	Age       int
	Sex       int
}

// DisplayName returns the candidate's full name
func (c Candidate) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ProfileURL returns the public profile link for the candidate
func (c Candidate) ProfileURL() string {
	return fmt.Sprintf("%s%d", constants.ProfileURLBase, c.VkID)
}

// City is one city-name resolution result offered to the user
type City struct {
	ID    int64
	Title string
}

// PhotoRef identifies a single photo in the directory
type PhotoRef struct {
	OwnerID int64
	ID      int64
	Likes   int
}

// Attachment returns the photo in VK attachment format
func (p PhotoRef) Attachment() string {
	return fmt.Sprintf("photo%d_%d", p.OwnerID, p.ID)
}

// FavoriteEntry is one row of a user's favorites listing
type FavoriteEntry struct {
	ProfileURL  string
	DisplayName string
}

// AgeFromBirthDate derives an age from a VK birth-date string ("D.M.YYYY").
// Partial dates ("D.M"), unparseable input and implausible results all
// collapse to 0; rows written by earlier versions of the schema rely on that
// exact fallback, so 0 doubles as "unknown".
func AgeFromBirthDate(bdate string, now time.Time) int {
	parts := strings.Split(bdate, ".")
	if len(parts) != 3 {
		return 0
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0
	}

	age := now.Year() - year
	if int(now.Month()) < month || (int(now.Month()) == month && now.Day() < day) {
		age--
	}

	if age <= 0 || age > constants.MaxAge {
		return 0
	}
	return age
}
