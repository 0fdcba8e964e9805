package script

import (
	"fmt"
	"strings"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

// Fixed on-screen time per block. Not derived from text or audio length.
const (
	QuestionDuration = 10 * time.Second
	ExampleDuration  = 7 * time.Second
	TipsDuration     = 7 * time.Second
	SolutionDuration = 20 * time.Second
)

// ExamplePlaceholder stands in for the problem example, which is not fetched.
const ExamplePlaceholder = "Example:\n."

const blockSep = "\n\n"

// Bundle builds the four narration blocks for a problem.
func Bundle(p types.ProblemRef, solution, tips string) types.NarrationBundle {
	desc := fmt.Sprintf("This is a %s problem titled '%s'.", p.Difficulty, p.Title)
	return types.NarrationBundle{
		Question: fmt.Sprintf("Problem #%d: %s%s%s", p.OrdinalID, p.Title, blockSep, desc),
		Example:  ExamplePlaceholder,
		Tips:     tips,
		Solution: "Solution:\n" + solution,
	}
}

// Compose returns the narration script and the matching segment plan. Both
// follow block order: question, example, tips, solution.
func Compose(p types.ProblemRef, solution, tips string) (string, types.SegmentPlan) {
	b := Bundle(p, solution, tips)
	plan := types.SegmentPlan{
		{Text: b.Question, Duration: QuestionDuration},
		{Text: b.Example, Duration: ExampleDuration},
		{Text: b.Tips, Duration: TipsDuration},
		{Text: b.Solution, Duration: SolutionDuration},
	}
	texts := make([]string, len(plan))
	for i, s := range plan {
		texts[i] = s.Text
	}
	return strings.Join(texts, blockSep), plan
}
