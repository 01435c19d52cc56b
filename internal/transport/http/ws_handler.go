package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"

	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	CategoryID int    `json:"categoryId"`
	Difficulty string `json:"difficulty"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

// quizQuestion is the client view of a question; the correct answer is never
// sent before submission.
type quizQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

type quizPayload struct {
	Category   string         `json:"category"`
	Difficulty string         `json:"difficulty"`
	Questions  []quizQuestion `json:"questions"`
}

type resultQuestion struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	GivenAnswer   string `json:"givenAnswer"`
	Correct       bool   `json:"correct"`
}

type resultsPayload struct {
	Score     int              `json:"score"`
	Total     int              `json:"total"`
	Band      domain.ScoreBand `json:"band"`
	Questions []resultQuestion `json:"questions"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message     string `json:"message"`
	RateLimited bool   `json:"rateLimited,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and drives the quiz state
// machine from inbound messages. All writes happen from the read loop, so a
// connection never has concurrent writers.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.Leave(gameID)

	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.writeError(conn, err)
		return
	}
	h.write(conn, "categories", categories)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.write(conn, "error", errorPayload{Message: "invalid start payload"})
				continue
			}
			quiz, err := h.service.StartQuiz(r.Context(), gameID, payload.CategoryID, domain.Difficulty(payload.Difficulty))
			if err != nil {
				h.writeError(conn, err)
				continue
			}
			h.write(conn, "quiz", toQuizPayload(quiz))
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.write(conn, "error", errorPayload{Message: "invalid answer payload"})
				continue
			}
			if err := h.service.RecordAnswer(gameID, payload.QuestionID, payload.Answer); err != nil {
				h.writeError(conn, err)
			}
		case "submit":
			results, err := h.service.Submit(gameID)
			if err != nil {
				h.writeError(conn, err)
				continue
			}
			game, _ := h.service.Game(gameID)
			quiz, _ := game.Quiz()
			h.write(conn, "results", toResultsPayload(quiz, results))
		case "reset":
			if err := h.service.ResetQuiz(gameID); err != nil {
				h.writeError(conn, err)
				continue
			}
			h.write(conn, "reset", struct{}{})
		default:
			h.write(conn, "error", errorPayload{Message: "unsupported message type"})
		}
	}
}

func (h *WSHandler) write(conn *websocket.Conn, msgType string, payload any) {
	if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, err error) {
	h.write(conn, "error", errorPayload{
		Message:     err.Error(),
		RateLimited: errors.Is(err, domain.ErrRateLimited),
	})
}

func toQuizPayload(quiz domain.Quiz) quizPayload {
	questions := make([]quizQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, quizQuestion{
			ID:       q.ID,
			Question: q.Question,
			Answers:  q.ShuffledAnswers,
		})
	}
	return quizPayload{
		Category:   quiz.Category,
		Difficulty: quiz.Difficulty,
		Questions:  questions,
	}
}

func toResultsPayload(quiz domain.Quiz, results domain.Results) resultsPayload {
	questions := make([]resultQuestion, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		given := results.Answers[q.ID]
		questions = append(questions, resultQuestion{
			ID:            q.ID,
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			GivenAnswer:   given,
			Correct:       given == q.CorrectAnswer,
		})
	}
	return resultsPayload{
		Score:     results.Score,
		Total:     len(quiz.Questions),
		Band:      domain.Band(results.Score),
		Questions: questions,
	}
}
