// Package grading scores a submitted answer set against the authoritative
// test definition. The definition must be freshly loaded at submission
// time — never the client's locally shuffled copy — so correct-answer
// indexes cannot be tampered with in flight.
package grading

import (
	"github.com/williamthazard/react-test/internal/quiz"
)

// Answer is one submitted response. Text carries single-choice and essay
// answers; Selected carries the multi-answer selection.
type Answer struct {
	Text     string   `json:"text,omitempty"`
	Selected []string `json:"selected,omitempty"`
}

// AnswerSet maps question ID to the submitted answer. It is
// submission-scoped and never persisted.
type AnswerSet map[int]Answer

// Strategy grades a single question. answered is false when the set holds
// no entry for the question; that grades as incorrect, never as an error.
type Strategy interface {
	Grade(q quiz.Question, ans Answer, answered bool) Entry
}

// Engine routes by question type to the right strategy.
type Engine struct {
	strategies map[string]Strategy
}

func NewEngine() *Engine {
	return &Engine{
		strategies: map[string]Strategy{
			quiz.TypeMultipleChoice: choiceStrategy{},
			quiz.TypeMultipleAnswer: multiAnswerStrategy{},
			quiz.TypeEssay:          essayStrategy{},
		},
	}
}

// Grade walks the definition in canonical order and scores every question.
// Questions with no registered strategy are recorded as ungradable.
func (e *Engine) Grade(def *quiz.TestDefinition, answers AnswerSet) Report {
	rep := Report{}
	for _, q := range def.Questions {
		ans, ok := answers[q.ID]
		s, known := e.strategies[q.Type]
		if !known {
			rep.Entries = append(rep.Entries, Entry{QuestionID: q.ID, Prompt: q.Prompt, Submitted: submittedValues(ans, ok)})
			continue
		}
		entry := s.Grade(q, ans, ok)
		if entry.Gradable {
			rep.Gradable++
			if entry.Correct {
				rep.Correct++
			}
		}
		rep.Entries = append(rep.Entries, entry)
	}
	return rep
}

type choiceStrategy struct{}

// Matching is by option value, not index: the options may have been
// shuffled on screen, so the submitted string is compared against the
// correct option's text.
func (choiceStrategy) Grade(q quiz.Question, ans Answer, answered bool) Entry {
	entry := Entry{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Gradable:   true,
		Submitted:  submittedValues(ans, answered),
	}
	if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Options) {
		correct := q.Options[q.CorrectIndex]
		entry.CorrectAnswers = []string{correct}
		entry.Correct = answered && ans.Text == correct
	}
	return entry
}

type multiAnswerStrategy struct{}

// Correct iff the submitted set exactly equals the correct-option set:
// same size, same members, order-independent.
func (multiAnswerStrategy) Grade(q quiz.Question, ans Answer, answered bool) Entry {
	entry := Entry{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Gradable:   true,
		Submitted:  submittedValues(ans, answered),
	}
	correct := make(map[string]bool, len(q.CorrectIndices))
	for _, ci := range q.CorrectIndices {
		if ci >= 0 && ci < len(q.Options) {
			correct[q.Options[ci]] = true
			entry.CorrectAnswers = append(entry.CorrectAnswers, q.Options[ci])
		}
	}
	if !answered || len(ans.Selected) != len(correct) || len(correct) == 0 {
		return entry
	}
	seen := make(map[string]bool, len(ans.Selected))
	for _, v := range ans.Selected {
		if !correct[v] || seen[v] {
			return entry
		}
		seen[v] = true
	}
	entry.Correct = true
	return entry
}

type essayStrategy struct{}

// Essays are never auto-graded; the text is recorded verbatim for review.
func (essayStrategy) Grade(q quiz.Question, ans Answer, answered bool) Entry {
	return Entry{
		QuestionID: q.ID,
		Prompt:     q.Prompt,
		Submitted:  submittedValues(ans, answered),
	}
}

func submittedValues(ans Answer, answered bool) []string {
	if !answered {
		return nil
	}
	if len(ans.Selected) > 0 {
		return ans.Selected
	}
	if ans.Text != "" {
		return []string{ans.Text}
	}
	return nil
}
