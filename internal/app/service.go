package app

import (
	"context"

	"trivia-quiz/internal/domain"
)

// DefaultAmount is the question count per quiz when none is configured.
const DefaultAmount = 5

// GameRepository abstracts how game sessions are stored.
type GameRepository interface {
	GetOrCreate(gameID string) *Game
	Get(gameID string) (*Game, bool)
	Delete(gameID string)
}

// CategorySource provides the category catalog (direct gateway or a cache in
// front of it).
type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// QuizFetcher loads a normalized question set from the provider.
type QuizFetcher interface {
	FetchQuiz(ctx context.Context, categoryID int, difficulty domain.Difficulty, amount int) (domain.Quiz, error)
}

// QuizService contains the quiz use cases shared by the CLI and the
// WebSocket transport.
type QuizService struct {
	games      GameRepository
	categories CategorySource
	quizzes    QuizFetcher
	amount     int
}

func NewQuizService(games GameRepository, categories CategorySource, quizzes QuizFetcher, amount int) *QuizService {
	if amount <= 0 {
		amount = DefaultAmount
	}
	return &QuizService{games: games, categories: categories, quizzes: quizzes, amount: amount}
}

// Categories returns the catalog.
func (s *QuizService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.Categories(ctx)
}

// StartQuiz validates the selection, fetches a question set and transitions
// the game to Ready (or Failed). Only one fetch is issued per call; a caller
// racing two calls gets last-resolved-wins semantics.
func (s *QuizService) StartQuiz(ctx context.Context, gameID string, categoryID int, difficulty domain.Difficulty) (domain.Quiz, error) {
	if !difficulty.Valid() {
		return domain.Quiz{}, domain.ErrInvalidDifficulty
	}

	categories, err := s.categories.Categories(ctx)
	if err != nil {
		return domain.Quiz{}, err
	}
	category, ok := findCategory(categories, categoryID)
	if !ok {
		return domain.Quiz{}, domain.ErrUnknownCategory
	}

	game := s.games.GetOrCreate(gameID)
	game.SetParameters(category, difficulty)
	game.BeginFetch()

	quiz, err := s.quizzes.FetchQuiz(ctx, categoryID, difficulty, s.amount)
	if err != nil {
		game.FetchFailed(err.Error())
		return domain.Quiz{}, err
	}
	game.FetchSucceeded(quiz)
	return quiz, nil
}

// RecordAnswer upserts the player's answer into the game's answer map.
func (s *QuizService) RecordAnswer(gameID, questionID, answer string) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	game.RecordAnswer(questionID, answer)
	return nil
}

// Submit scores the recorded answers against the active quiz.
func (s *QuizService) Submit(gameID string) (domain.Results, error) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.Results{}, domain.ErrGameNotFound
	}
	return game.Submit(game.Answers())
}

// Game exposes the underlying state container for transports that render it.
func (s *QuizService) Game(gameID string) (*Game, bool) {
	return s.games.Get(gameID)
}

// ResetQuiz clears the game back to parameter selection, keeping the chosen
// category and difficulty ("create a new quiz").
func (s *QuizService) ResetQuiz(gameID string) error {
	game, ok := s.games.Get(gameID)
	if !ok {
		return domain.ErrGameNotFound
	}
	game.ResetQuiz()
	return nil
}

// Leave resets the game fully and drops the session.
func (s *QuizService) Leave(gameID string) {
	game, ok := s.games.Get(gameID)
	if !ok {
		return
	}
	game.ResetAll()
	s.games.Delete(gameID)
}

func findCategory(categories []domain.Category, id int) (domain.Category, bool) {
	for _, category := range categories {
		if category.ID == id {
			return category, true
		}
	}
	return domain.Category{}, false
}
