package domain

import (
	"slices"
	"strings"
)

// ServiceName identifies a deliverable service on a job
type ServiceName string

// Known service names. ServiceOther carries a caller supplied CustomName.
const (
	ServiceClosedCaptions   ServiceName = "Closed Captions"
	ServiceAudioDescription ServiceName = "Audio Description"
	ServiceOpenCaptions     ServiceName = "Open Captions"
	ServiceTranslation      ServiceName = "Translation"
	ServiceTranscription    ServiceName = "Transcription"
	ServiceTranscreation    ServiceName = "Transcreation"
	ServiceBSL              ServiceName = "BSL"
	ServiceProofreading     ServiceName = "Proofreading"
	ServiceOther            ServiceName = "Other"
)

// MaxServiceNotesLength bounds ServiceDetail.Notes
const MaxServiceNotesLength = 50

var knownServices = []ServiceName{
	ServiceClosedCaptions,
	ServiceAudioDescription,
	ServiceOpenCaptions,
	ServiceTranslation,
	ServiceTranscription,
	ServiceTranscreation,
	ServiceBSL,
	ServiceProofreading,
	ServiceOther,
}

// SubServices lists the sub-service categories offered to callers.
// SubService itself stays free text so legacy values survive a restore.
var SubServices = []string{
	"Original",
	"Re-Edit",
	"Cutdown",
	"Re-encode",
	"DTT",
	"Premix",
	"Mono AD",
	"Other",
}

// KnownServices returns the selectable service names
func KnownServices() []ServiceName {
	return slices.Clone(knownServices)
}

// Valid reports whether n is one of the known service names
func (n ServiceName) Valid() bool {
	return slices.Contains(knownServices, n)
}

// ServiceDetail is one service ordered on a job
type ServiceDetail struct {
	Name       ServiceName `json:"name"`
	SubService string      `json:"subService"`
	Notes      string      `json:"notes"`
	CustomName string      `json:"customName,omitempty"`
}

// DisplayName is CustomName for Other services and Name otherwise
func (s ServiceDetail) DisplayName() string {
	if s.Name == ServiceOther {
		return s.CustomName
	}
	return string(s.Name)
}

// Validate checks the tagged-union rules: a known name, and a custom name
// present exactly when the name is Other
func (s ServiceDetail) Validate() error {
	if !s.Name.Valid() {
		return NewValidationError("services.name", "unknown service %q", s.Name)
	}
	if s.Name == ServiceOther && strings.TrimSpace(s.CustomName) == "" {
		return NewValidationError("services.customName", "custom service name is required for Other")
	}
	if s.Name != ServiceOther && s.CustomName != "" {
		return NewValidationError("services.customName", "custom name is only allowed for Other")
	}
	if len([]rune(s.Notes)) > MaxServiceNotesLength {
		return NewValidationError("services.notes", "must be %d characters or less", MaxServiceNotesLength)
	}
	return nil
}

// ValidateServices requires at least one valid service
func ValidateServices(services []ServiceDetail) error {
	if len(services) == 0 {
		return NewValidationError("services", "at least one service is required")
	}
	for _, s := range services {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
