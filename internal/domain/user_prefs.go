package domain

import (
	"regexp"
	"time"
)

var initialsPattern = regexp.MustCompile(`^[A-Z]{2,3}$`)

// UserPrefs holds per-user settings, one record per user id
type UserPrefs struct {
	UserID               string     `json:"userId"`
	Initials             string     `json:"initials,omitempty"`
	LastActive           *time.Time `json:"lastActive,omitempty"`
	JobFormServiceHeight *int       `json:"jobFormServiceHeight,omitempty"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// UserPrefsPatch is a partial preferences write
type UserPrefsPatch struct {
	Initials             *string
	LastActive           *time.Time
	JobFormServiceHeight *int
}

// ValidInitials reports whether s is 2 or 3 uppercase letters
func ValidInitials(s string) bool {
	return initialsPattern.MatchString(s)
}

// Apply writes the patch onto p after validating it
func (patch UserPrefsPatch) Apply(p *UserPrefs) error {
	if patch.Initials != nil && !ValidInitials(*patch.Initials) {
		return NewValidationError("initials", "must be 2 or 3 uppercase letters")
	}
	if patch.JobFormServiceHeight != nil && *patch.JobFormServiceHeight < 0 {
		return NewValidationError("jobFormServiceHeight", "cannot be negative")
	}

	if patch.Initials != nil {
		p.Initials = *patch.Initials
	}
	if patch.LastActive != nil {
		t := *patch.LastActive
		p.LastActive = &t
	}
	if patch.JobFormServiceHeight != nil {
		h := *patch.JobFormServiceHeight
		p.JobFormServiceHeight = &h
	}
	return nil
}
