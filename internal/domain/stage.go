package domain

import (
	"encoding/json"
	"fmt"
)

// Stage is the sales funnel label of an Opportunity.
type Stage string

const (
	StageNew       Stage = "new"
	StageQualified Stage = "qualified"
	StageProposal  Stage = "proposal"
	StageWon       Stage = "won"
	StageLost      Stage = "lost"
)

var stages = []Stage{StageNew, StageQualified, StageProposal, StageWon, StageLost}

func Stages() []Stage { return append([]Stage(nil), stages...) }

func ParseStage(s string) (Stage, error) {
	for _, st := range stages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

func (s Stage) Valid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

// CanTransition reports whether an opportunity may move from s to next.
// Every move between known stages is allowed for now.
func (s Stage) CanTransition(next Stage) bool {
	return s.Valid() && next.Valid()
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("stage must be a string: %w", err)
	}
	st, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}
