package analysis

import "time"

// State is a step of an analysis run.
type State string

const (
	StateIdle          State = "idle"
	StateFetching      State = "fetching"
	StateWalking       State = "walking"
	StateExtracting    State = "extracting"
	StateAssembled     State = "assembled"
	StateFetchError    State = "fetch_error"
	StateAnalysisError State = "analysis_error"
	// StateCleanedUp is emitted after the scratch directory was released,
	// whichever terminal state the run reached.
	StateCleanedUp State = "cleaned_up"
)

// Terminal reports whether no further state follows s, apart from the
// cleanup event.
func (s State) Terminal() bool {
	return s == StateAssembled || s == StateFetchError || s == StateAnalysisError
}

// Event is a state transition of one run.
type Event struct {
	Repo  string    `json:"repo"`
	URL   string    `json:"url,omitempty"`
	State State     `json:"state"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// Observer receives the events of a run. OnEvent is called synchronously
// from the run's goroutine and must not block.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// OnEvent calls f.
func (f ObserverFunc) OnEvent(e Event) { f(e) }
