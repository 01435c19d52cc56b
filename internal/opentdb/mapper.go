package opentdb

import (
	"context"
	"html"
	"math/rand"
	"time"

	"trivia-quiz/internal/domain"

	"github.com/google/uuid"
)

// Mapper normalizes raw provider payloads into domain quizzes: it decodes
// HTML entities, assigns a fresh identifier per question and fixes the
// presentation order of the answers.
type Mapper struct {
	rnd   *rand.Rand
	newID func() string
}

func NewMapper() *Mapper {
	return newMapper(rand.New(rand.NewSource(time.Now().UnixNano())), uuid.NewString)
}

// NewMapperWithSource allows deterministic shuffles and IDs in tests.
func NewMapperWithSource(rnd *rand.Rand, newID func() string) *Mapper {
	return newMapper(rnd, newID)
}

func newMapper(rnd *rand.Rand, newID func() string) *Mapper {
	return &Mapper{rnd: rnd, newID: newID}
}

// MapResponse converts a raw payload into a Quiz. Quiz-level type, category
// and difficulty come from the first raw question; an empty results array
// yields an empty question list, not an error. Only a nil payload fails.
func (m *Mapper) MapResponse(resp *QuestionsResponse) (domain.Quiz, error) {
	if resp == nil {
		return domain.Quiz{}, domain.ErrBadPayload
	}

	quiz := domain.Quiz{
		Questions: make([]domain.Question, 0, len(resp.Results)),
	}
	if len(resp.Results) > 0 {
		quiz.Type = resp.Results[0].Type
		quiz.Category = resp.Results[0].Category
		quiz.Difficulty = resp.Results[0].Difficulty
	}

	for _, raw := range resp.Results {
		correct := html.UnescapeString(raw.CorrectAnswer)
		incorrect := make([]string, len(raw.IncorrectAnswers))
		for i, answer := range raw.IncorrectAnswers {
			incorrect[i] = html.UnescapeString(answer)
		}

		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:               m.newID(),
			Question:         html.UnescapeString(raw.Question),
			CorrectAnswer:    correct,
			IncorrectAnswers: incorrect,
			ShuffledAnswers:  m.Shuffle(correct, incorrect),
		})
	}
	return quiz, nil
}

// Shuffle returns a uniformly random permutation of the correct answer plus
// the incorrect ones. Inputs are never mutated.
func (m *Mapper) Shuffle(correct string, incorrect []string) []string {
	answers := make([]string, 0, len(incorrect)+1)
	answers = append(answers, correct)
	answers = append(answers, incorrect...)
	m.rnd.Shuffle(len(answers), func(i, j int) {
		answers[i], answers[j] = answers[j], answers[i]
	})
	return answers
}

// Gateway couples the HTTP client with the mapper so consumers receive
// normalized quizzes.
type Gateway struct {
	client *Client
	mapper *Mapper
}

func NewGateway(client *Client, mapper *Mapper) *Gateway {
	return &Gateway{client: client, mapper: mapper}
}

func (g *Gateway) FetchQuiz(ctx context.Context, categoryID int, difficulty domain.Difficulty, amount int) (domain.Quiz, error) {
	resp, err := g.client.Questions(ctx, categoryID, difficulty, amount)
	if err != nil {
		return domain.Quiz{}, err
	}
	return g.mapper.MapResponse(resp)
}
