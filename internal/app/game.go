package app

import (
	"sync"

	"trivia-quiz/internal/domain"
)

// Phase is the coarse position of a game in its lifecycle.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseReady     Phase = "ready"
	PhaseFailed    Phase = "failed"
	PhaseSubmitted Phase = "submitted"
)

// Game holds all state for a single play-through: selected parameters, fetch
// status, the active quiz, the in-progress answer map and the submitted
// results. It is the sole serialization point; every transition is applied
// atomically under the mutex, so consumers never observe a partial update.
type Game struct {
	mu      sync.RWMutex
	params  *domain.Parameters
	quiz    *domain.Quiz
	answers domain.AnswerMap
	results *domain.Results
	loading bool
	errMsg  string
}

func NewGame() *Game {
	return &Game{answers: make(domain.AnswerMap)}
}

// SetParameters stores the category/difficulty selection. It does not
// trigger a fetch.
func (g *Game) SetParameters(category domain.Category, difficulty domain.Difficulty) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.params = &domain.Parameters{Category: category, Difficulty: difficulty}
}

// Parameters returns the current selection, if any.
func (g *Game) Parameters() (domain.Parameters, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.params == nil {
		return domain.Parameters{}, false
	}
	return *g.params, true
}

// BeginFetch marks a question-set request as in flight and clears any prior
// error. If a second fetch is started before the first resolves, the
// last-resolved outcome wins; there is no reordering guard.
func (g *Game) BeginFetch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = true
	g.errMsg = ""
}

// FetchSucceeded stores the new quiz and resets the answer map in the same
// transition, so answers can never reference questions outside the active
// quiz.
func (g *Game) FetchSucceeded(quiz domain.Quiz) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = false
	g.errMsg = ""
	g.quiz = &quiz
	g.answers = make(domain.AnswerMap)
	g.results = nil
}

// FetchFailed stores the error message and leaves any prior quiz untouched.
func (g *Game) FetchFailed(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = false
	g.errMsg = message
}

// RecordAnswer upserts the player's answer for a question. Membership of the
// question in the active quiz is deliberately not validated; scoring ignores
// unknown IDs.
func (g *Game) RecordAnswer(questionID, answer string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.answers[questionID] = answer
}

// Answers returns a copy of the in-progress answer map.
func (g *Game) Answers() domain.AnswerMap {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return copyAnswers(g.answers)
}

// Submit scores the given answer snapshot against the active quiz and stores
// the frozen results. It fails only when no quiz is active.
func (g *Game) Submit(answers domain.AnswerMap) (domain.Results, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.quiz == nil {
		return domain.Results{}, domain.ErrNoActiveQuiz
	}
	results := domain.Results{
		Score:   domain.Score(answers, *g.quiz),
		Answers: copyAnswers(answers),
	}
	g.results = &results
	return results, nil
}

// Quiz returns the active quiz, if any.
func (g *Game) Quiz() (domain.Quiz, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.quiz == nil {
		return domain.Quiz{}, false
	}
	return *g.quiz, true
}

// Results returns the submitted results, if any.
func (g *Game) Results() (domain.Results, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.results == nil {
		return domain.Results{}, false
	}
	return *g.results, true
}

// Err returns the stored error message, empty when none.
func (g *Game) Err() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.errMsg
}

// Loading reports whether a fetch is in flight.
func (g *Game) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Phase derives the lifecycle phase from the state slices.
func (g *Game) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	switch {
	case g.loading:
		return PhaseLoading
	case g.results != nil:
		return PhaseSubmitted
	case g.errMsg != "":
		return PhaseFailed
	case g.quiz != nil:
		return PhaseReady
	}
	return PhaseIdle
}

// ResetQuiz clears the quiz, answers, results and error but keeps the
// selected parameters, ready for a fresh fetch.
func (g *Game) ResetQuiz() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quiz = nil
	g.answers = make(domain.AnswerMap)
	g.results = nil
	g.errMsg = ""
	g.loading = false
}

// ResetAll returns the game to its initial state, parameters included.
func (g *Game) ResetAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.params = nil
	g.quiz = nil
	g.answers = make(domain.AnswerMap)
	g.results = nil
	g.errMsg = ""
	g.loading = false
}

func copyAnswers(answers domain.AnswerMap) domain.AnswerMap {
	out := make(domain.AnswerMap, len(answers))
	for questionID, answer := range answers {
		out[questionID] = answer
	}
	return out
}
