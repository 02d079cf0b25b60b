package capture

// Stage is the progress of a first-frame capture.
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingVisibility
	StageAwaitingMetadata
	StageAwaitingSeek
	StageCaptured
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingVisibility:
		return "awaiting_visibility"
	case StageAwaitingMetadata:
		return "awaiting_metadata"
	case StageAwaitingSeek:
		return "awaiting_seek"
	case StageCaptured:
		return "captured"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SaveState is the progress of persisting a captured thumbnail.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveInFlight
	Saved
	// SaveFailed means the request never got a response. It may be retried.
	SaveFailed
	// SaveRejected means the server answered with an error status.
	SaveRejected
)

func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveInFlight:
		return "in_flight"
	case Saved:
		return "saved"
	case SaveFailed:
		return "failed"
	case SaveRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
