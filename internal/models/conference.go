package models

import "strings"

// Conference identifies an FBS conference affiliation
type Conference string

const (
	ConferenceSEC          Conference = "SEC"
	ConferenceBigTen       Conference = "Big Ten"
	ConferenceBig12        Conference = "Big 12"
	ConferenceACC          Conference = "ACC"
	ConferencePac12        Conference = "Pac-12"
	ConferenceMountainWest Conference = "Mountain West"
	ConferenceAmerican     Conference = "American Athletic"
	ConferenceSunBelt      Conference = "Sun Belt"
	ConferenceUSA          Conference = "Conference USA"
	ConferenceMAC          Conference = "Mid-American"
	ConferenceIndependents Conference = "FBS Independents"

	// ConferenceNone marks a team with no known affiliation
	ConferenceNone Conference = ""
)

// KnownConferences lists every conference the system recognizes
var KnownConferences = []Conference{
	ConferenceSEC,
	ConferenceBigTen,
	ConferenceBig12,
	ConferenceACC,
	ConferencePac12,
	ConferenceMountainWest,
	ConferenceAmerican,
	ConferenceSunBelt,
	ConferenceUSA,
	ConferenceMAC,
	ConferenceIndependents,
}

// DefaultPowerConferences returns the Power 5 set used for seeding and conference bonuses
func DefaultPowerConferences() []Conference {
	return []Conference{ConferenceSEC, ConferenceBigTen, ConferenceBig12, ConferenceACC, ConferencePac12}
}

// IsAffiliated reports whether the conference is set
func (c Conference) IsAffiliated() bool {
	return c != ConferenceNone
}

// IsKnown reports whether the conference is one of KnownConferences
func (c Conference) IsKnown() bool {
	for _, known := range KnownConferences {
		if known == c {
			return true
		}
	}
	return false
}

// String returns the display name, "Unaffiliated" for ConferenceNone
func (c Conference) String() string {
	if c == ConferenceNone {
		return "Unaffiliated"
	}
	return string(c)
}

// ParseConference matches a conference by name, case-insensitively
func ParseConference(name string) Conference {
	trimmed := strings.TrimSpace(name)
	for _, known := range KnownConferences {
		if strings.EqualFold(string(known), trimmed) {
			return known
		}
	}
	return Conference(trimmed)
}

// ConferenceSet is a lookup set of conferences
type ConferenceSet map[Conference]struct{}

// NewConferenceSet builds a set from a list
func NewConferenceSet(conferences []Conference) ConferenceSet {
	set := make(ConferenceSet, len(conferences))
	for _, c := range conferences {
		set[c] = struct{}{}
	}
	return set
}

// Contains reports membership
func (s ConferenceSet) Contains(c Conference) bool {
	_, ok := s[c]
	return ok
}
