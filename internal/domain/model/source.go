package model

import (
	"fmt"
	"strings"
)

// Source is the origin of an evaluation record. It drives no computation.
type Source string

// Known evaluation sources.
const (
	SourceScouting Source = "scouting"
	SourceMatch    Source = "match"
	SourceTraining Source = "training"
	SourceCamp     Source = "camp"
	SourceTrial    Source = "trial"
	SourcePeriodic Source = "periodic"
)

// Sources lists every known source.
var Sources = []Source{SourceScouting, SourceMatch, SourceTraining, SourceCamp, SourceTrial, SourcePeriodic}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSource parses a case-insensitive source name.
func ParseSource(v string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(v)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, v)
	}
	return s, nil
}
