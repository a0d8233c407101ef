package workflow

import (
	"strings"

	"github.com/vitwit/onramp/types"
)

// TerminalFunc decides whether a step returned by the server ends the workflow.
type TerminalFunc func(step types.NextStep) bool

// NoNextStep ends the workflow when the server returns no further step.
func NoNextStep(step types.NextStep) bool {
	return step == nil
}

// CompletionURL ends the workflow when there is no further step, or when the
// step's URL contains one of markers.
func CompletionURL(markers ...string) TerminalFunc {
	return func(step types.NextStep) bool {
		if step == nil {
			return true
		}
		url := step.TargetURL()
		for _, m := range markers {
			if m != "" && strings.Contains(url, m) {
				return true
			}
		}
		return false
	}
}
