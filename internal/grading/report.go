package grading

import (
	"fmt"
	"strings"
)

// Entry is the graded outcome for one question.
type Entry struct {
	QuestionID     int      `json:"questionId"`
	Prompt         string   `json:"prompt"`
	Submitted      []string `json:"submitted,omitempty"`
	Gradable       bool     `json:"gradable"`
	Correct        bool     `json:"correct"`
	CorrectAnswers []string `json:"correctAnswers,omitempty"`
}

// Report aggregates one entry per question plus the auto-graded score.
// Essays sit in Entries but never in the Gradable denominator.
type Report struct {
	Entries  []Entry `json:"entries"`
	Correct  int     `json:"correct"`
	Gradable int     `json:"gradable"`
}

// Score is the fraction of auto-gradable questions answered correctly,
// 0 when nothing is auto-gradable.
func (r Report) Score() float64 {
	if r.Gradable == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Gradable)
}

// Subject renders the one-line summary used as the mail subject.
func (r Report) Subject() string {
	return fmt.Sprintf("Test result: %d/%d correct (%.0f%%)", r.Correct, r.Gradable, r.Score()*100)
}

// RenderText renders the report body handed to the mail transport: one
// block per question with the submitted and expected answers, then the
// aggregate.
func (r Report) RenderText() string {
	var b strings.Builder
	for i, e := range r.Entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Prompt)
		if len(e.Submitted) == 0 {
			b.WriteString("   Answered: (no answer)\n")
		} else {
			fmt.Fprintf(&b, "   Answered: %s\n", strings.Join(e.Submitted, ", "))
		}
		if !e.Gradable {
			b.WriteString("   Not auto-graded; kept for review.\n")
		} else if e.Correct {
			b.WriteString("   Correct.\n")
		} else {
			fmt.Fprintf(&b, "   Incorrect. Expected: %s\n", strings.Join(e.CorrectAnswers, ", "))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Score: %d of %d auto-graded questions correct (%.0f%%)\n",
		r.Correct, r.Gradable, r.Score()*100)
	return b.String()
}
