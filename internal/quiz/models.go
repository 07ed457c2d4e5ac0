package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Question types. Grading and shuffling switch exhaustively on these;
// adding a type means touching both.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeMultipleAnswer = "multiple_answer"
	TypeEssay          = "essay"
)

type Settings struct {
	RandomizeQuestions bool `json:"randomizeQuestions"`
}

type Question struct {
	ID       int    `json:"id"`
	Type     string `json:"type"` // multiple_choice, multiple_answer, essay
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl,omitempty"` // inline-encoded, part of the document payload

	Options          []string `json:"options,omitempty"`
	CorrectIndex     int      `json:"correctIndex"`
	CorrectIndices   []int    `json:"correctIndices,omitempty"`
	RandomizeOptions bool     `json:"randomizeOptions,omitempty"`
}

// TestDefinition is the single persisted artifact: test-wide settings plus
// the questions in authored order. Question order is significant — it is the
// tie-break for ID assignment and the default display order.
type TestDefinition struct {
	Settings  Settings   `json:"settings"`
	Questions []Question `json:"questions"`
}

// Decode parses a stored payload. Older payloads are a bare question array
// with no settings wrapper; those decode as a definition with zero settings.
func Decode(data []byte) (*TestDefinition, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var qs []Question
		if err := json.Unmarshal(trimmed, &qs); err != nil {
			return nil, fmt.Errorf("decode legacy questions: %w", err)
		}
		return &TestDefinition{Questions: qs}, nil
	}
	var def TestDefinition
	if err := json.Unmarshal(trimmed, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &def, nil
}

// NextQuestionID assigns IDs as max(existing)+1 so deleted IDs are never reused.
func NextQuestionID(qs []Question) int {
	max := 0
	for _, q := range qs {
		if q.ID > max {
			max = q.ID
		}
	}
	return max + 1
}

// Validate checks the invariants a definition must hold before it is saved.
func (d *TestDefinition) Validate() error {
	seen := make(map[int]bool, len(d.Questions))
	for i, q := range d.Questions {
		if q.ID <= 0 {
			return fmt.Errorf("question %d: id must be positive", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id %d", i, q.ID)
		}
		seen[q.ID] = true
		switch q.Type {
		case TypeMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: multiple_choice needs at least 2 options", q.ID)
			}
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				return fmt.Errorf("question %d: correctIndex %d out of range", q.ID, q.CorrectIndex)
			}
		case TypeMultipleAnswer:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: multiple_answer needs at least 2 options", q.ID)
			}
			if len(q.CorrectIndices) == 0 {
				return fmt.Errorf("question %d: multiple_answer needs at least one correct index", q.ID)
			}
			for _, ci := range q.CorrectIndices {
				if ci < 0 || ci >= len(q.Options) {
					return fmt.Errorf("question %d: correct index %d out of range", q.ID, ci)
				}
			}
		case TypeEssay:
			// no options to check
		default:
			return fmt.Errorf("question %d: unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}

// Clone returns a deep copy, so presentation-time shuffling never mutates
// the canonical definition.
func (d *TestDefinition) Clone() *TestDefinition {
	out := &TestDefinition{Settings: d.Settings, Questions: make([]Question, len(d.Questions))}
	for i, q := range d.Questions {
		cq := q
		if q.Options != nil {
			cq.Options = append([]string(nil), q.Options...)
		}
		if q.CorrectIndices != nil {
			cq.CorrectIndices = append([]int(nil), q.CorrectIndices...)
		}
		out.Questions[i] = cq
	}
	return out
}
