package quiz

// DefaultDefinition is the seed test served whenever the store has no
// document or is unreachable, so entering a code always shows something.
func DefaultDefinition() *TestDefinition {
	return &TestDefinition{
		Settings: Settings{RandomizeQuestions: false},
		Questions: []Question{
			{
				ID:           1,
				Type:         TypeMultipleChoice,
				Prompt:       "Which hook adds local state to a function component?",
				Options:      []string{"useEffect", "useState", "useContext", "useRef"},
				CorrectIndex: 1,
			},
			{
				ID:             2,
				Type:           TypeMultipleAnswer,
				Prompt:         "Which of these are valid ways to style a React component?",
				Options:        []string{"Inline style objects", "CSS modules", "The <paint> element", "Styled components"},
				CorrectIndices: []int{0, 1, 3},
			},
			{
				ID:     3,
				Type:   TypeEssay,
				Prompt: "Explain the difference between props and state in your own words.",
			},
		},
	}
}
