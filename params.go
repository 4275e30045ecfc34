package fluentify

import (
	"fmt"
	"strings"
)

// Params are the learner's choices for a generated course. All fields are
// sent to the server as query parameters.
type Params struct {
	Language         string
	ExpectedDuration string
	Expertise        string
}

// Validate checks that every field is present. Values are not restricted
// to the known option lists; the server is the authority on those.
func (p Params) Validate() error {
	if strings.TrimSpace(p.Language) == "" {
		return fmt.Errorf("language is required: %w", ErrValidation)
	}
	if strings.TrimSpace(p.ExpectedDuration) == "" {
		return fmt.Errorf("expected duration is required: %w", ErrValidation)
	}
	if strings.TrimSpace(p.Expertise) == "" {
		return fmt.Errorf("expertise is required: %w", ErrValidation)
	}
	return nil
}

// Language is a course language offered by the platform.
type Language struct {
	Code string
	Name string
}

// Languages lists the course languages offered by the platform.
var Languages = []Language{
	{Code: "ES", Name: "Spanish"},
	{Code: "FR", Name: "French"},
	{Code: "JP", Name: "Japanese"},
	{Code: "DE", Name: "German"},
	{Code: "IT", Name: "Italian"},
	{Code: "IN", Name: "Hindi"},
}

// Durations lists the expected course durations offered by the platform.
var Durations = []string{
	"1 month",
	"3 months",
	"6 months",
	"1 year",
	"More than 1 year",
}

// ExpertiseLevels lists the learner expertise levels.
var ExpertiseLevels = []string{"Beginner", "Intermediate", "Advanced"}

// LookupLanguage resolves a language by code or name, case-insensitively.
func LookupLanguage(s string) (Language, bool) {
	for _, l := range Languages {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.Name, s) {
			return l, true
		}
	}
	return Language{}, false
}
