package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/domain"
	"trivia-quiz/internal/infra/memory"
	infraredis "trivia-quiz/internal/infra/redis"
	"trivia-quiz/internal/opentdb"

	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const questionsBody = `{
	"response_code": 0,
	"results": [
		{
			"type": "multiple",
			"difficulty": "easy",
			"category": "General Knowledge",
			"question": "2+2?",
			"correct_answer": "4",
			"incorrect_answers": ["3", "5", "6"]
		}
	]
}`

const categoriesBody = `{"trivia_categories":[{"id":9,"name":"General Knowledge"}]}`

func TestPlayThroughEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	categoryCalls := 0
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api_category.php":
			categoryCalls++
			w.Write([]byte(categoriesBody))
		case "/api.php":
			w.Write([]byte(questionsBody))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	client := opentdb.NewClient(upstream.URL, 5*time.Second)
	categories := infraredis.NewCategoryCache(redisClient, client, 5*time.Minute)
	gateway := opentdb.NewGateway(client, opentdb.NewMapper())
	service := app.NewQuizService(memory.NewGameStore(), categories, gateway, 5)

	quiz, err := service.StartQuiz(ctx, "g1", 9, domain.DifficultyEasy)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("expected 1 question, got %d", len(quiz.Questions))
	}

	if err := service.RecordAnswer("g1", quiz.Questions[0].ID, "4"); err != nil {
		t.Fatalf("record answer: %v", err)
	}
	results, err := service.Submit("g1")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if results.Score != 1 {
		t.Fatalf("expected score 1, got %d", results.Score)
	}

	// A second game reads the catalog from Redis, not the provider.
	if _, err := service.StartQuiz(ctx, "g2", 9, domain.DifficultyEasy); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if categoryCalls != 1 {
		t.Fatalf("expected catalog fetched once, got %d", categoryCalls)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
