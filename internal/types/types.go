package types

import "time"

// Difficulty is the provider's numeric level: 1 easy, 2 medium, 3 hard.
type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return "Unknown"
	}
}

// ProblemRecord is one row as returned by the content provider.
type ProblemRecord struct {
	Slug       string
	Title      string
	Difficulty Difficulty
	OrdinalID  int
	PaidOnly   bool
}

// ProblemRef is an eligible problem. It is never mutated after selection.
type ProblemRef struct {
	Slug       string
	Title      string
	Difficulty Difficulty
	OrdinalID  int
}

type NarrationBundle struct {
	Question string
	Example  string
	Tips     string
	Solution string
}

type Segment struct {
	Text     string
	Duration time.Duration
}

// SegmentPlan is the ordered list of on-screen blocks.
type SegmentPlan []Segment

func (p SegmentPlan) Total() time.Duration {
	var d time.Duration
	for _, s := range p {
		d += s.Duration
	}
	return d
}

// Clip is a rendered visual segment. Duration is the planned one, not a probed one.
type Clip struct {
	Path     string
	Duration time.Duration
}

type Artifact struct {
	Path      string
	Video     time.Duration
	Audio     time.Duration
	Truncated bool
}

type Manifest struct {
	RunID    string            `json:"run_id"`
	Started  string            `json:"started_at"`
	Finished string            `json:"finished_at"`
	Problems []ManifestProblem `json:"problems"`
}

type ManifestProblem struct {
	Index      int     `json:"index"`
	Slug       string  `json:"slug"`
	OrdinalID  int     `json:"id"`
	Title      string  `json:"title"`
	Difficulty string  `json:"difficulty"`
	Status     string  `json:"status"`
	Stage      string  `json:"stage,omitempty"`
	Error      string  `json:"error,omitempty"`
	File       string  `json:"file,omitempty"`
	VideoSec   float64 `json:"video_sec,omitempty"`
	AudioSec   float64 `json:"audio_sec,omitempty"`
	Truncated  bool    `json:"truncated,omitempty"`
}
