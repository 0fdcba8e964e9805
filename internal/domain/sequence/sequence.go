package sequence

import (
	"errors"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

// Timing is the resolved length of both tracks of an artifact.
type Timing struct {
	Video     time.Duration
	Audio     time.Duration
	Truncated bool
}

// Plan applies the truncation-only policy: video is always the sum of the
// clip durations; audio is cut to that length when longer and otherwise kept.
// Neither track is ever extended.
func Plan(clips []types.Clip, audio time.Duration) (Timing, error) {
	if len(clips) == 0 {
		return Timing{}, errors.New("no clips to sequence")
	}
	var video time.Duration
	for _, c := range clips {
		if c.Duration <= 0 {
			return Timing{}, errors.New("clip duration must be > 0")
		}
		video += c.Duration
	}
	if audio < 0 {
		audio = 0
	}
	if audio > video {
		return Timing{Video: video, Audio: video, Truncated: true}, nil
	}
	return Timing{Video: video, Audio: audio}, nil
}
