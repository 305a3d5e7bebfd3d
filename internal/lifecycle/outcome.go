package lifecycle

// Outcome is the verdict of a scenario run
type Outcome string

// Scenario outcomes. KnownDefectReproduced means the system under test showed
// its tracked re-scan defect; it is neither a pass nor a harness failure.
const (
	OutcomePass                  Outcome = "pass"
	OutcomeFail                  Outcome = "fail"
	OutcomeKnownDefectReproduced Outcome = "known_defect_reproduced"
)

// Exit codes used by the CLI for each outcome
const (
	ExitPass        = 0
	ExitFail        = 1
	ExitKnownDefect = 3
)

// ExitCode maps the outcome to a process exit code
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomePass:
		return ExitPass
	case OutcomeKnownDefectReproduced:
		return ExitKnownDefect
	default:
		return ExitFail
	}
}
