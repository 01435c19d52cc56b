package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"

	"github.com/gorilla/websocket"
)

type staticFetcher struct {
	quiz domain.Quiz
}

func (f *staticFetcher) FetchQuiz(context.Context, int, domain.Difficulty, int) (domain.Quiz, error) {
	return f.quiz, nil
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Category:   "General Knowledge",
		Difficulty: "easy",
		Questions: []domain.Question{
			{
				ID:               "q1",
				Question:         "2+2?",
				CorrectAnswer:    "4",
				IncorrectAnswers: []string{"3", "5", "6"},
				ShuffledAnswers:  []string{"3", "4", "5", "6"},
			},
		},
	}
}

func newTestHandler() *WSHandler {
	categories := memory.NewStaticCategorySource([]domain.Category{
		{ID: 9, Name: "General Knowledge"},
	})
	service := app.NewQuizService(memory.NewGameStore(), categories, &staticFetcher{quiz: sampleQuiz()}, 5)
	return NewWSHandler(service)
}

func TestWebSocketPlayThrough(t *testing.T) {
	wsHandler := newTestHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=g1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Catalog arrives first.
	msgType, raw := readNext(conn, t)
	if msgType != "categories" {
		t.Fatalf("expected categories, got %s", msgType)
	}

	// Start a quiz.
	writeMsg(conn, t, "start", map[string]any{"categoryId": 9, "difficulty": "easy"})
	msgType, raw = readNext(conn, t)
	if msgType != "quiz" {
		t.Fatalf("expected quiz, got %s (%s)", msgType, raw)
	}
	var quiz quizPayload
	if err := json.Unmarshal(raw, &quiz); err != nil {
		t.Fatalf("unmarshal quiz: %v", err)
	}
	if len(quiz.Questions) != 1 || len(quiz.Questions[0].Answers) != 4 {
		t.Fatalf("unexpected quiz payload: %+v", quiz)
	}
	// The correct answer must not leak before submission.
	if string(raw) == "" || jsonContainsField(raw, "correctAnswer") {
		t.Fatalf("quiz payload leaks the correct answer: %s", raw)
	}

	// Answer and submit.
	writeMsg(conn, t, "answer", map[string]any{"questionId": quiz.Questions[0].ID, "answer": "4"})
	writeMsg(conn, t, "submit", nil)

	msgType, raw = readNext(conn, t)
	if msgType != "results" {
		t.Fatalf("expected results, got %s (%s)", msgType, raw)
	}
	var results resultsPayload
	if err := json.Unmarshal(raw, &results); err != nil {
		t.Fatalf("unmarshal results: %v", err)
	}
	if results.Score != 1 || results.Total != 1 {
		t.Fatalf("expected 1/1, got %d/%d", results.Score, results.Total)
	}
	if results.Band != domain.BandFail {
		t.Fatalf("expected fail band for score 1, got %s", results.Band)
	}
	if !results.Questions[0].Correct || results.Questions[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected result question: %+v", results.Questions[0])
	}
}

func TestWebSocketStartErrors(t *testing.T) {
	wsHandler := newTestHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?gameId=g1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readNext(conn, t) // categories

	writeMsg(conn, t, "start", map[string]any{"categoryId": 42, "difficulty": "easy"})
	msgType, raw := readNext(conn, t)
	if msgType != "error" {
		t.Fatalf("expected error, got %s", msgType)
	}
	var payload errorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	if payload.Message == "" || payload.RateLimited {
		t.Fatalf("unexpected error payload: %+v", payload)
	}
}

func TestWebSocketRequiresGameID(t *testing.T) {
	wsHandler := newTestHandler()
	server := httptest.NewServer(http.HandlerFunc(wsHandler.ServeWS))
	defer server.Close()

	resp, err := http.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func writeMsg(conn *websocket.Conn, t *testing.T, msgType string, payload any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T) (string, json.RawMessage) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg.Type, msg.Payload
}

func jsonContainsField(raw json.RawMessage, field string) bool {
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return false
	}
	questions, ok := generic["questions"].([]any)
	if !ok {
		return false
	}
	for _, q := range questions {
		if m, ok := q.(map[string]any); ok {
			if _, present := m[field]; present {
				return true
			}
		}
	}
	return false
}
