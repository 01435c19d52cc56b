package domain

// Category is one entry of the Open Trivia DB catalog.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a normalized multiple-choice question. All text fields are
// plain (entity-decoded) strings. ShuffledAnswers is a permutation of the
// correct answer plus the three incorrect ones, fixed at mapping time.
type Question struct {
	ID               string   `json:"id"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correctAnswer"`
	IncorrectAnswers []string `json:"incorrectAnswers"`
	ShuffledAnswers  []string `json:"shuffledAnswers"`
}

// Quiz is one complete question set for a single play-through. It is replaced
// wholesale on each fetch and never mutated in place.
type Quiz struct {
	Type       string     `json:"type"`
	Category   string     `json:"category"`
	Difficulty string     `json:"difficulty"`
	Questions  []Question `json:"questions"`
}

// AnswerMap records the player's selected answer per question ID.
type AnswerMap map[string]string

// Parameters is the player's category/difficulty selection for the next fetch.
type Parameters struct {
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// Results is the frozen outcome of one submission.
type Results struct {
	Score   int       `json:"score"`
	Answers AnswerMap `json:"answers"`
}

// ScoreBand classifies a final score for the results view.
type ScoreBand string

const (
	BandFail         ScoreBand = "fail"
	BandIntermediate ScoreBand = "intermediate"
	BandPass         ScoreBand = "pass"
)

// Band maps a score to its presentation band. Thresholds match the original
// five-question game: 0-1 fail, 2-3 intermediate, 4+ pass.
func Band(score int) ScoreBand {
	switch {
	case score <= 1:
		return BandFail
	case score >= 4:
		return BandPass
	}
	return BandIntermediate
}

// Score counts the answers that exactly match the correct answer of the
// question they reference. Entries for unknown question IDs are ignored and
// unanswered questions contribute zero, so the result is always within
// [0, len(quiz.Questions)].
func Score(answers AnswerMap, quiz Quiz) int {
	byID := make(map[string]string, len(quiz.Questions))
	for _, q := range quiz.Questions {
		byID[q.ID] = q.CorrectAnswer
	}

	score := 0
	for questionID, answer := range answers {
		if correct, ok := byID[questionID]; ok && correct == answer {
			score++
		}
	}
	return score
}
