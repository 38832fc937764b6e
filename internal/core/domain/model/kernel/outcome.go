package kernel

// Outcome tells a caller whether a lifecycle command changed state.
// Repeating a command whose target state is already reached is not an error;
// it yields OutcomeUnchanged and records no event.
type Outcome int

const (
	OutcomeApplied Outcome = iota + 1
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

func (o Outcome) IsApplied() bool {
	return o == OutcomeApplied
}
