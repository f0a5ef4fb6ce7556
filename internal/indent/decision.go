package indent

type outcome uint8

const (
	outcomeDefer outcome = iota
	outcomeDecided
	outcomeNoOpinion
)

// Decision is the result of an indentation rule.
type Decision struct {
	outcome outcome
	column  int
}

// Decided returns a decision for a concrete column.
func Decided(column int) Decision {
	return Decision{outcome: outcomeDecided, column: column}
}

var (
	// Defer lets the next enclosing rule decide.
	Defer = Decision{outcome: outcomeDefer}
	// NoOpinion stops resolution: the line must be left as it is.
	NoOpinion = Decision{outcome: outcomeNoOpinion}
)

// Column returns the decided column and whether the decision has one.
func (d Decision) Column() (int, bool) {
	return d.column, d.outcome == outcomeDecided
}

func (d Decision) String() string {
	switch d.outcome {
	case outcomeDecided:
		return "decided"
	case outcomeNoOpinion:
		return "no-opinion"
	default:
		return "defer"
	}
}
