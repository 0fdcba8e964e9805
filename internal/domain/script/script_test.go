package script

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/artummeti/lc-vid-generator/internal/types"
)

func testProblem() types.ProblemRef {
	return types.ProblemRef{Slug: "two-sum", Title: "Two Sum", Difficulty: types.Easy, OrdinalID: 1}
}

func TestCompose_PlanShape(t *testing.T) {
	tests := []struct {
		name     string
		solution string
		tips     string
	}{
		{"typical", "Use a hash map.", "Tips:\n- a\n- b\n- c"},
		{"empty", "", ""},
		{"long", strings.Repeat("word ", 2000), "Tips:"},
	}
	want := []time.Duration{10 * time.Second, 7 * time.Second, 7 * time.Second, 20 * time.Second}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, plan := Compose(testProblem(), tt.solution, tt.tips)
			if len(plan) != 4 {
				t.Fatalf("expected 4 segments, got %d", len(plan))
			}
			for i, s := range plan {
				if s.Duration != want[i] {
					t.Fatalf("segment %d: duration %v, want %v", i, s.Duration, want[i])
				}
			}
			if plan.Total() != 44*time.Second {
				t.Fatalf("unexpected total: %v", plan.Total())
			}
		})
	}
}

func TestCompose_Blocks(t *testing.T) {
	p := types.ProblemRef{Slug: "lru-cache", Title: "LRU Cache", Difficulty: types.Medium, OrdinalID: 146}
	narration, plan := Compose(p, "Keep a list and a map.", "Tips:\n- one")

	wantQuestion := "Problem #146: LRU Cache\n\nThis is a Medium problem titled 'LRU Cache'."
	if plan[0].Text != wantQuestion {
		t.Fatalf("question block = %q", plan[0].Text)
	}
	if plan[1].Text != "Example:\n." {
		t.Fatalf("example block = %q", plan[1].Text)
	}
	if plan[2].Text != "Tips:\n- one" {
		t.Fatalf("tips block = %q", plan[2].Text)
	}
	if plan[3].Text != "Solution:\nKeep a list and a map." {
		t.Fatalf("solution block = %q", plan[3].Text)
	}

	want := strings.Join([]string{plan[0].Text, plan[1].Text, plan[2].Text, plan[3].Text}, "\n\n")
	if narration != want {
		t.Fatalf("narration does not follow block order:\n%s", narration)
	}
}

func TestCompose_Idempotent(t *testing.T) {
	n1, p1 := Compose(testProblem(), "s", "t")
	n2, p2 := Compose(testProblem(), "s", "t")
	if n1 != n2 {
		t.Fatalf("narration differs between runs")
	}
	if !reflect.DeepEqual(p1, p2) {
		t.Fatalf("plan differs between runs")
	}
}

func TestBundle_UnknownDifficulty(t *testing.T) {
	p := testProblem()
	p.Difficulty = 9
	b := Bundle(p, "", "")
	if !strings.Contains(b.Question, "This is a Unknown problem") {
		t.Fatalf("unexpected question: %q", b.Question)
	}
}
