package helpers

import (
	"fmt"
	"strings"

	"vk-match-bot/internal/models"
)

// FormatCandidateCaption builds the message text shown for one browsed
// candidate: name, age/city when known, and the profile link.
func FormatCandidateCaption(c models.Candidate) string {
	var sb strings.Builder
	sb.WriteString(c.DisplayName())

	var details []string
	if c.Age > 0 {
		details = append(details, fmt.Sprintf("%d лет", c.Age))
	}
	if c.City != "" {
		details = append(details, c.City)
	}
	if len(details) > 0 {
		sb.WriteString(", ")
		sb.WriteString(strings.Join(details, ", "))
	}

	sb.WriteString("\n")
	sb.WriteString(c.ProfileURL())
	return sb.String()
}

// FormatFavoritesList builds the numbered favorites listing
func FormatFavoritesList(entries []models.FavoriteEntry) string {
	var sb strings.Builder
	sb.WriteString("⭐ Список избранных:\n")
	for i, entry := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, entry.DisplayName, entry.ProfileURL))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatAttachments joins photo references into the comma-separated
// attachment string accepted by messages.send
func FormatAttachments(photos []models.PhotoRef) string {
	parts := make([]string, 0, len(photos))
	for _, p := range photos {
		parts = append(parts, p.Attachment())
	}
	return strings.Join(parts, ",")
}
