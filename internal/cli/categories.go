package cli

import (
	"fmt"

	"trivia-quiz/internal/config"

	"github.com/spf13/cobra"
)

// NewCategoriesCmd prints the category catalog, bypassing nothing: it goes
// through the same cache the other surfaces use.
func NewCategoriesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the available quiz categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			service := buildService(cfg, 0)
			categories, err := service.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("load categories: %w", err)
			}
			for _, category := range categories {
				fmt.Printf("%3d  %s\n", category.ID, category.Name)
			}
			return nil
		},
	}
}
