package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"trivia-quiz/internal/app"
	"trivia-quiz/internal/config"
	"trivia-quiz/internal/domain"

	"github.com/spf13/cobra"
)

const (
	localGameID = "local"
	maxAttempts = 3
)

const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
)

// NewPlayCmd builds the interactive terminal play-through.
func NewPlayCmd(configPath *string) *cobra.Command {
	var (
		categoryID int
		difficulty string
		amount     int
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), *configPath, categoryID, difficulty, amount)
		},
	}
	cmd.Flags().IntVar(&categoryID, "category", 0, "category id (prompted when omitted)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard (prompted when omitted)")
	cmd.Flags().IntVar(&amount, "amount", 0, "questions per quiz (default 5)")
	return cmd
}

func runPlay(ctx context.Context, configPath string, categoryID int, difficulty string, amount int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if amount <= 0 {
		amount = cfg.OpenTDB.Amount
	}
	service := buildService(cfg, amount)

	categories, err := service.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	if categoryID == 0 {
		categoryID, err = promptCategory(reader, categories)
		if err != nil {
			return err
		}
	}
	if difficulty == "" {
		difficulty, err = promptDifficulty(reader)
		if err != nil {
			return err
		}
	}

	for {
		if err := playRound(ctx, service, reader, categoryID, domain.Difficulty(difficulty)); err != nil {
			return err
		}

		fmt.Print("\nCreate a new quiz with the same settings? [y/N] ")
		again, err := reader.ReadString('\n')
		if err != nil || !strings.EqualFold(strings.TrimSpace(again), "y") {
			return nil
		}
		// Keeps the selected parameters, clears everything else.
		_ = service.ResetQuiz(localGameID)
	}
}

func playRound(ctx context.Context, service *app.QuizService, reader *bufio.Reader, categoryID int, difficulty domain.Difficulty) error {
	quiz, err := service.StartQuiz(ctx, localGameID, categoryID, difficulty)
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) {
			fmt.Printf("%sPlease wait a moment before trying again. You have made too many requests.%s\n", ansiYellow, ansiReset)
			return nil
		}
		fmt.Printf("%s%v%s\n", ansiRed, err, ansiReset)
		return nil
	}

	fmt.Printf("\n%s — %s, %d questions\n", quiz.Category, quiz.Difficulty, len(quiz.Questions))
	for i, question := range quiz.Questions {
		printQuestion(i+1, question.Question, question.ShuffledAnswers)
		index, ok := readAnswer(reader, len(question.ShuffledAnswers))
		if !ok {
			fmt.Println("Skipping.")
			continue
		}
		if err := service.RecordAnswer(localGameID, question.ID, question.ShuffledAnswers[index]); err != nil {
			return err
		}
	}

	results, err := service.Submit(localGameID)
	if err != nil {
		return err
	}
	printResults(quiz, results)
	return nil
}

func promptCategory(reader *bufio.Reader, categories []domain.Category) (int, error) {
	fmt.Println("Categories:")
	for _, category := range categories {
		fmt.Printf("  %3d  %s\n", category.ID, category.Name)
	}
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		fmt.Print("Category id: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		id, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil {
			for _, category := range categories {
				if category.ID == id {
					return id, nil
				}
			}
		}
		fmt.Println("Unknown category, try again.")
	}
	return 0, domain.ErrUnknownCategory
}

func promptDifficulty(reader *bufio.Reader) (string, error) {
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		fmt.Printf("Difficulty (%s/%s/%s): ", domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		choice := strings.ToLower(strings.TrimSpace(line))
		if domain.Difficulty(choice).Valid() {
			return choice, nil
		}
		fmt.Println("Invalid difficulty, try again.")
	}
	return "", domain.ErrInvalidDifficulty
}

func printQuestion(num int, question string, answers []string) {
	fmt.Printf("\nQ%d: %s\n\n", num, question)
	for idx, answer := range answers {
		fmt.Printf("  %c. %s\n", 'A'+idx, answer)
	}
	fmt.Println()
}

func readAnswer(reader *bufio.Reader, numAnswers int) (int, bool) {
	maxLetter := byte('A' + numAnswers - 1)
	for attempt := 0; attempt <= maxAttempts; attempt++ {
		fmt.Print("Answer: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return -1, false
		}
		line = strings.TrimSpace(strings.ToUpper(line))
		if len(line) == 1 && line[0] >= 'A' && line[0] <= maxLetter {
			return int(line[0] - 'A'), true
		}
		if attempt < maxAttempts {
			fmt.Printf("Please enter a letter A-%c.\n", maxLetter)
		}
	}
	return -1, false
}

func printResults(quiz domain.Quiz, results domain.Results) {
	fmt.Println()
	for _, question := range quiz.Questions {
		given := results.Answers[question.ID]
		if given == question.CorrectAnswer {
			fmt.Printf("%s✔%s %s — %s\n", ansiGreen, ansiReset, question.Question, given)
			continue
		}
		answered := given
		if answered == "" {
			answered = "(no answer)"
		}
		fmt.Printf("%s✘%s %s — %s (correct: %s)\n", ansiRed, ansiReset, question.Question, answered, question.CorrectAnswer)
	}

	color := ansiYellow
	switch domain.Band(results.Score) {
	case domain.BandFail:
		color = ansiRed
	case domain.BandPass:
		color = ansiGreen
	}
	fmt.Printf("\n%sYou scored %d out of %d%s\n", color, results.Score, len(quiz.Questions), ansiReset)
}
