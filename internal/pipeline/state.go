package pipeline

// State is the lifecycle stage of a Run.
type State int

const (
	StateIdle State = iota
	StateSegmenting
	StateSummarizing
	StateMerging
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSegmenting:
		return "segmenting"
	case StateSummarizing:
		return "summarizing"
	case StateMerging:
		return "merging"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
