package grading_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamthazard/react-test/internal/grading"
	"github.com/williamthazard/react-test/internal/quiz"
)

func choiceQuestion() quiz.Question {
	return quiz.Question{
		ID: 1, Type: quiz.TypeMultipleChoice, Prompt: "pick",
		Options: []string{"A", "B", "C"}, CorrectIndex: 1,
	}
}

func multiQuestion() quiz.Question {
	return quiz.Question{
		ID: 2, Type: quiz.TypeMultipleAnswer, Prompt: "pick some",
		Options: []string{"X", "Y", "Z"}, CorrectIndices: []int{0, 2},
	}
}

func TestGradeMultipleChoice(t *testing.T) {
	def := &quiz.TestDefinition{Questions: []quiz.Question{choiceQuestion()}}
	e := grading.NewEngine()

	tests := []struct {
		name    string
		answers grading.AnswerSet
		correct bool
	}{
		{"right answer by value", grading.AnswerSet{1: {Text: "B"}}, true},
		{"wrong answer", grading.AnswerSet{1: {Text: "A"}}, false},
		{"missing answer", grading.AnswerSet{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := e.Grade(def, tt.answers)
			require.Len(t, rep.Entries, 1)
			assert.Equal(t, tt.correct, rep.Entries[0].Correct)
			assert.Equal(t, 1, rep.Gradable)
		})
	}
}

func TestGradeMatchesByValueNotIndex(t *testing.T) {
	// Simulate a client that saw shuffled options: the submitted string is
	// what counts, whatever position it was rendered at.
	q := choiceQuestion()
	def := &quiz.TestDefinition{Questions: []quiz.Question{q}}
	shuffled := quiz.ForDisplay(&quiz.TestDefinition{Questions: []quiz.Question{func() quiz.Question {
		q.RandomizeOptions = true
		return q
	}()}}, nil)

	submitted := shuffled.Questions[0].Options[shuffled.Questions[0].CorrectIndex]
	rep := grading.NewEngine().Grade(def, grading.AnswerSet{1: {Text: submitted}})
	assert.True(t, rep.Entries[0].Correct)
}

func TestGradeMultipleAnswer(t *testing.T) {
	def := &quiz.TestDefinition{Questions: []quiz.Question{multiQuestion()}}
	e := grading.NewEngine()

	tests := []struct {
		name     string
		selected []string
		correct  bool
	}{
		{"exact set", []string{"X", "Z"}, true},
		{"order independent", []string{"Z", "X"}, true},
		{"subset", []string{"X"}, false},
		{"superset", []string{"X", "Y", "Z"}, false},
		{"empty", nil, false},
		{"duplicate member", []string{"X", "X"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := e.Grade(def, grading.AnswerSet{2: {Selected: tt.selected}})
			assert.Equal(t, tt.correct, rep.Entries[0].Correct)
		})
	}
}

func TestGradeEssayExcludedFromDenominator(t *testing.T) {
	def := &quiz.TestDefinition{Questions: []quiz.Question{
		choiceQuestion(),
		{ID: 9, Type: quiz.TypeEssay, Prompt: "explain"},
	}}
	rep := grading.NewEngine().Grade(def, grading.AnswerSet{
		1: {Text: "B"},
		9: {Text: "my long essay"},
	})

	assert.Equal(t, 1, rep.Gradable)
	assert.Equal(t, 1, rep.Correct)
	assert.InDelta(t, 1.0, rep.Score(), 1e-9)

	// Essay text is recorded verbatim for review.
	require.Len(t, rep.Entries, 2)
	assert.False(t, rep.Entries[1].Gradable)
	assert.Equal(t, []string{"my long essay"}, rep.Entries[1].Submitted)
}

func TestReportRenderText(t *testing.T) {
	def := &quiz.TestDefinition{Questions: []quiz.Question{choiceQuestion(), multiQuestion()}}
	rep := grading.NewEngine().Grade(def, grading.AnswerSet{
		1: {Text: "A"},
		2: {Selected: []string{"X", "Z"}},
	})

	body := rep.RenderText()
	assert.Contains(t, body, "Incorrect. Expected: B")
	assert.Contains(t, body, "Correct.")
	assert.Contains(t, body, "Score: 1 of 2")
	assert.True(t, strings.Contains(rep.Subject(), "1/2"))
}

func TestScoreWithNoGradableQuestions(t *testing.T) {
	def := &quiz.TestDefinition{Questions: []quiz.Question{{ID: 1, Type: quiz.TypeEssay}}}
	rep := grading.NewEngine().Grade(def, nil)
	assert.Zero(t, rep.Score())
}
