package player

import (
	"time"

	"github.com/samber/mo"
)

// state is never mutated field by field; every transition swaps in a new value.
// currentFile and startedAt are present exactly when status is StatusPlaying.
type state struct {
	status      Status
	currentFile mo.Option[string]
	startedAt   mo.Option[time.Time]
	startOffset time.Duration
}

func idleState() state    { return state{status: StatusIdle} }
func stoppedState() state { return state{status: StatusStopped} }
func errorState() state   { return state{status: StatusError} }

func playingState(file string, startedAt time.Time, offset time.Duration) state {
	return state{
		status:      StatusPlaying,
		currentFile: mo.Some(file),
		startedAt:   mo.Some(startedAt),
		startOffset: offset,
	}
}

// Snapshot is a read-only view of the playback state at a given instant.
type Snapshot struct {
	Status             Status            `json:"status"`
	CurrentFile        mo.Option[string] `json:"current_file"`
	StartedAtMs        mo.Option[int64]  `json:"started_at_ms"`
	StartOffsetMs      int64             `json:"start_offset_ms"`
	PositionEstimateMs mo.Option[int64]  `json:"position_estimate_ms"`
}

// snapshot derives the position estimate lazily so it always agrees with now.
func (s state) snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Status:        s.status,
		CurrentFile:   s.currentFile,
		StartOffsetMs: s.startOffset.Milliseconds(),
	}

	startedAt, ok := s.startedAt.Get()
	if !ok {
		return snap
	}
	snap.StartedAtMs = mo.Some(startedAt.UnixMilli())

	if s.status != StatusPlaying {
		return snap
	}

	// Clock skew must never produce a position before the offset.
	elapsed := now.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	snap.PositionEstimateMs = mo.Some((s.startOffset + elapsed).Milliseconds())
	return snap
}

// statusMessage is the human readable line reported by Status.
func (s state) statusMessage() string {
	switch s.status {
	case StatusPlaying:
		return "Currently playing."
	case StatusStopped:
		return "Playback stopped."
	case StatusError:
		return "Playback error encountered."
	default:
		return "Idle."
	}
}
