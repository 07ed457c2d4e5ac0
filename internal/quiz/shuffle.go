package quiz

import "math/rand"

// ForDisplay returns a presentation copy of the definition: question order
// permuted when the test asks for it, and each question with
// RandomizeOptions set has its options permuted with the correct-answer
// indexes remapped to the options' new positions. The input is never
// mutated. rng may be nil, in which case the shared source is used.
//
// rand.Shuffle is a Fisher–Yates shuffle; the comparator-sort trick some
// frontends use is statistically biased and is not reproduced here.
func ForDisplay(def *TestDefinition, rng *rand.Rand) *TestDefinition {
	out := def.Clone()
	if out.Settings.RandomizeQuestions {
		shuffle(rng, len(out.Questions), func(i, j int) {
			out.Questions[i], out.Questions[j] = out.Questions[j], out.Questions[i]
		})
	}
	for i := range out.Questions {
		if out.Questions[i].RandomizeOptions {
			out.Questions[i] = shuffleOptions(out.Questions[i], rng)
		}
	}
	return out
}

func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if rng != nil {
		rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// shuffleOptions permutes a question's options and carries the correct
// answers along by value: after the shuffle the correct indexes point at
// the same option strings they pointed at before.
func shuffleOptions(q Question, rng *rand.Rand) Question {
	n := len(q.Options)
	if n < 2 {
		return q
	}
	perm := make([]int, n) // perm[newPos] = oldPos
	for i := range perm {
		perm[i] = i
	}
	shuffle(rng, n, func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })

	oldToNew := make([]int, n)
	opts := make([]string, n)
	for newPos, oldPos := range perm {
		opts[newPos] = q.Options[oldPos]
		oldToNew[oldPos] = newPos
	}
	q.Options = opts

	switch q.Type {
	case TypeMultipleChoice:
		q.CorrectIndex = oldToNew[q.CorrectIndex]
	case TypeMultipleAnswer:
		remapped := make([]int, len(q.CorrectIndices))
		for i, ci := range q.CorrectIndices {
			remapped[i] = oldToNew[ci]
		}
		q.CorrectIndices = remapped
	}
	return q
}
