package fixation

// Status tags the result of classifying one recording.
type Status int

const (
	// StatusSuccess: the classifier produced a set, possibly with zero rows.
	StatusSuccess Status = iota
	// StatusEmptyRecording: the recording held no samples.
	StatusEmptyRecording
	// StatusClassificationFailed: the classifier errored or gave up.
	StatusClassificationFailed
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmptyRecording:
		return "empty"
	case StatusClassificationFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is Success(Set) | EmptyRecording | ClassificationFailed(Reason).
// Set is only meaningful for StatusSuccess and Reason only for
// StatusClassificationFailed.
type Outcome struct {
	Status Status
	Set    Set
	Reason string
}

// Success wraps a classified set.
func Success(s Set) Outcome { return Outcome{Status: StatusSuccess, Set: s} }

// EmptyRecording reports a recording without samples.
func EmptyRecording() Outcome { return Outcome{Status: StatusEmptyRecording} }

// ClassificationFailed reports a classifier failure with its reason.
func ClassificationFailed(reason string) Outcome {
	return Outcome{Status: StatusClassificationFailed, Reason: reason}
}

// OK reports whether the outcome carries rows to aggregate.
func (o Outcome) OK() bool { return o.Status == StatusSuccess }
