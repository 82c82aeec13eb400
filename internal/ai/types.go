package ai

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// StepCount is the number of steps every blueprint must carry.
const StepCount = 3

// Step is one stage of the Kortex methodology tailored to a lead.
type Step struct {
	StepNumber            int    `json:"step_number" yaml:"step_number"`
	StepTitle             string `json:"step_title" yaml:"step_title"`
	Description           string `json:"description" yaml:"description"`
	KortexAgentSuggestion string `json:"kortex_agent_suggestion" yaml:"kortex_agent_suggestion"`
}

// Blueprint captures the structured plan returned by the generation API.
type Blueprint struct {
	Title   string `json:"blueprint_title" yaml:"blueprint_title"`
	Steps   []Step `json:"steps" yaml:"steps"`
	Summary string `json:"summary" yaml:"summary"`
}

// ErrInvalidBlueprint marks a blueprint that parsed but does not have the expected shape.
var ErrInvalidBlueprint = errors.New("invalid blueprint")

var stepPrefix = regexp.MustCompile(`(?i)^step\s*\d+\s*[:.\-]\s*`)

// Normalize trims every field, drops a repeated "Step N:" prefix from step titles, orders the
// steps by number and then checks the blueprint is complete.
func (b *Blueprint) Normalize() error {
	if b == nil {
		return fmt.Errorf("%w: nil blueprint", ErrInvalidBlueprint)
	}
	b.Title = strings.TrimSpace(b.Title)
	b.Summary = strings.TrimSpace(b.Summary)
	for i := range b.Steps {
		step := &b.Steps[i]
		step.StepTitle = strings.TrimSpace(stepPrefix.ReplaceAllString(strings.TrimSpace(step.StepTitle), ""))
		step.Description = strings.TrimSpace(step.Description)
		step.KortexAgentSuggestion = strings.TrimSpace(step.KortexAgentSuggestion)
	}
	sort.SliceStable(b.Steps, func(i, j int) bool {
		return b.Steps[i].StepNumber < b.Steps[j].StepNumber
	})
	return b.validate()
}

func (b *Blueprint) validate() error {
	if b.Title == "" {
		return fmt.Errorf("%w: blueprint_title missing", ErrInvalidBlueprint)
	}
	if b.Summary == "" {
		return fmt.Errorf("%w: summary missing", ErrInvalidBlueprint)
	}
	if len(b.Steps) != StepCount {
		return fmt.Errorf("%w: expected %d steps got %d", ErrInvalidBlueprint, StepCount, len(b.Steps))
	}
	for i, step := range b.Steps {
		if step.StepNumber != i+1 {
			return fmt.Errorf("%w: step numbers must be 1-%d, found %d at position %d", ErrInvalidBlueprint, StepCount, step.StepNumber, i+1)
		}
		switch {
		case step.StepTitle == "":
			return fmt.Errorf("%w: step %d title missing", ErrInvalidBlueprint, step.StepNumber)
		case step.Description == "":
			return fmt.Errorf("%w: step %d description missing", ErrInvalidBlueprint, step.StepNumber)
		case step.KortexAgentSuggestion == "":
			return fmt.Errorf("%w: step %d agent suggestion missing", ErrInvalidBlueprint, step.StepNumber)
		}
	}
	return nil
}
