package selection

// State identifies the step a Cycle is executing.
type State int

const (
	Idle State = iota
	Scanning
	Deduplicating
	CountChecking
	Ordering
	Chunking
	Enriching
	Validating
	Emitting
	Skipping
	Fatal
)

var stateNames = [...]string{
	Idle:          "idle",
	Scanning:      "scanning",
	Deduplicating: "deduplicating",
	CountChecking: "count_checking",
	Ordering:      "ordering",
	Chunking:      "chunking",
	Enriching:     "enriching",
	Validating:    "validating",
	Emitting:      "emitting",
	Skipping:      "skipping",
	Fatal:         "fatal",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions can follow s.
func (s State) Terminal() bool {
	return s == Fatal
}
