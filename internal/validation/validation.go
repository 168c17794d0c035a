package validation

import (
	"fmt"
	"strconv"
	"strings"

	"vk-match-bot/internal/constants"
)

// ParseAge validates and parses a minimum-age input
func ParseAge(text string) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid age format: must be a number")
	}

	if age < constants.MinAge || age > constants.MaxAge {
		return 0, fmt.Errorf("age must be between %d and %d", constants.MinAge, constants.MaxAge)
	}

	return age, nil
}

// ParseAgeTo validates and parses a maximum-age input against the already
// collected minimum
func ParseAgeTo(text string, ageFrom int) (int, error) {
	age, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid age format: must be a number")
	}

	if age < ageFrom || age > constants.MaxAge {
		return 0, fmt.Errorf("age must be between %d and %d", ageFrom, constants.MaxAge)
	}

	return age, nil
}

// ParseSex validates and parses a sex input
func ParseSex(text string) (int, error) {
	sex, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid sex format: must be a number")
	}

	if sex != constants.SexFemale && sex != constants.SexMale {
		return 0, fmt.Errorf("sex must be %d (female) or %d (male)", constants.SexFemale, constants.SexMale)
	}

	return sex, nil
}
