package opentdb

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trivia-quiz/internal/domain"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

// DefaultBaseURL is the public Open Trivia DB endpoint.
const DefaultBaseURL = "https://opentdb.com"

// RawQuestion mirrors one entry of the api.php results array. Text fields are
// HTML-entity encoded until the mapper decodes them.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

// QuestionsResponse is the raw api.php payload.
type QuestionsResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

type categoriesResponse struct {
	TriviaCategories []domain.Category `json:"trivia_categories"`
}

// StatusError is a non-2xx reply from the provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("opentdb: unexpected status %d", e.Code)
}

// Client performs the two Open Trivia DB requests. It is stateless; every
// call is a single GET with no retries, so a failed request surfaces
// immediately to the caller.
type Client struct {
	http *req.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := req.C().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)
	return &Client{http: client}
}

// Categories fetches the category catalog.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api_category.php")
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("read categories body: %w", err)
	}
	var payload categoriesResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal categories: %w", err)
	}
	if payload.TriviaCategories == nil {
		return nil, domain.ErrBadPayload
	}
	return payload.TriviaCategories, nil
}

// Questions fetches amount four-choice questions for the given category and
// difficulty. A nonzero response_code is the provider's application-level
// "no matching questions" signal and maps to domain.ErrNoQuestions regardless
// of the specific code.
func (c *Client) Questions(ctx context.Context, categoryID int, difficulty domain.Difficulty, amount int) (*QuestionsResponse, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("amount", strconv.Itoa(amount)).
		SetQueryParam("category", strconv.Itoa(categoryID)).
		SetQueryParam("difficulty", string(difficulty)).
		SetQueryParam("type", "multiple").
		Get("/api.php")
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("read questions body: %w", err)
	}
	var payload QuestionsResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, domain.ErrNoQuestions
	}
	if payload.Results == nil {
		return nil, domain.ErrBadPayload
	}
	return &payload, nil
}

func checkStatus(resp *req.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	if !resp.IsSuccessState() {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
