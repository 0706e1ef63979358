package player

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Command", t, func() {
		Convey("Plain playback", func() {
			So(Command("ffplay", "Virtual Mic", "/audio/a.wav", false, 0), ShouldResemble, []string{
				"ffplay", "-nodisp", "-autoexit", "-vn", "-loglevel", "error",
				"-device", "Virtual Mic", "-i", "/audio/a.wav",
			})
		})

		Convey("Seek and loop", func() {
			So(Command("/usr/bin/ffplay", "sink", "/audio/a.wav", true, 1500*time.Millisecond), ShouldResemble, []string{
				"/usr/bin/ffplay", "-nodisp", "-autoexit", "-vn", "-loglevel", "error",
				"-ss", "1.500", "-loop", "0",
				"-device", "sink", "-i", "/audio/a.wav",
			})
		})

		Convey("Seek keeps millisecond precision", func() {
			args := Command("ffplay", "sink", "a.wav", false, 7*time.Millisecond)
			So(args[6:8], ShouldResemble, []string{"-ss", "0.007"})
		})
	})
}
