package player

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSnapshot(t *testing.T) {
	Convey("Given a playing state", t, func() {
		t0 := time.UnixMilli(1_700_000_000_000)
		s := playingState("greeting.wav", t0, 500*time.Millisecond)

		Convey("Sampling after the start adds the elapsed time to the offset", func() {
			snap := s.snapshot(t0.Add(1250 * time.Millisecond))
			So(snap.Status, ShouldEqual, StatusPlaying)
			So(snap.CurrentFile.MustGet(), ShouldEqual, "greeting.wav")
			So(snap.StartedAtMs.MustGet(), ShouldEqual, t0.UnixMilli())
			So(snap.PositionEstimateMs.MustGet(), ShouldEqual, 1750)
		})

		Convey("Sampling exactly at the start yields the offset", func() {
			So(s.snapshot(t0).PositionEstimateMs.MustGet(), ShouldEqual, 500)
		})

		Convey("Sampling before the start clamps to the offset", func() {
			So(s.snapshot(t0.Add(-time.Second)).PositionEstimateMs.MustGet(), ShouldEqual, 500)
		})
	})

	Convey("Given a state that is not playing", t, func() {
		for _, s := range []state{idleState(), stoppedState(), errorState()} {
			snap := s.snapshot(time.Now())
			So(snap.CurrentFile.IsAbsent(), ShouldBeTrue)
			So(snap.StartedAtMs.IsAbsent(), ShouldBeTrue)
			So(snap.PositionEstimateMs.IsAbsent(), ShouldBeTrue)
			So(snap.StartOffsetMs, ShouldEqual, 0)
		}
	})

	Convey("Status messages follow the status", t, func() {
		So(idleState().statusMessage(), ShouldEqual, "Idle.")
		So(stoppedState().statusMessage(), ShouldEqual, "Playback stopped.")
		So(errorState().statusMessage(), ShouldEqual, "Playback error encountered.")
		So(playingState("a.wav", time.Now(), 0).statusMessage(), ShouldEqual, "Currently playing.")
	})
}
