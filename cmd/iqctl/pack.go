package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gokatarajesh/iqtest/internal/logging"
	"github.com/gokatarajesh/iqtest/internal/prng"
	"github.com/gokatarajesh/iqtest/internal/question"
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Generate a sequence pack, or validate a pack document",
	Long: `Generate a deterministic pack of sequence questions and print it as JSON.

With --validate the given pack document is checked against the pack schema
instead, and nothing is generated.`,
	RunE: runPack,
}

func init() {
	packCmd.Flags().String("seed", "", "Seed text; empty draws a random pack")
	packCmd.Flags().String("difficulty", question.DifficultyMixed, "easy, medium, hard or mixed")
	packCmd.Flags().Int("count", 10, "Number of questions")
	packCmd.Flags().String("validate", "", "Path to a pack document to validate")
}

func runPack(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("validate"); path != "" {
		return validatePack(cmd, path)
	}

	seed, _ := cmd.Flags().GetString("seed")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 || count > 100 {
		return fmt.Errorf("count must be between 1 and 100")
	}
	switch difficulty {
	case question.DifficultyEasy, question.DifficultyMedium, question.DifficultyHard, question.DifficultyMixed:
	default:
		return fmt.Errorf("invalid difficulty %q: must be easy, medium, hard or mixed", difficulty)
	}

	pack := question.GeneratePack(question.PackOptions{
		Count:      count,
		Mix:        difficulty == question.DifficultyMixed && count > 1,
		Difficulty: difficulty,
	}, prng.FromString(seed))

	ctx := logging.IntoContext(context.Background(), zerolog.New(cmd.ErrOrStderr()))
	normalized := make([]question.Question, 0, len(pack.Questions))
	for _, q := range pack.Questions {
		if nq, ok := question.Normalize(ctx, q.Raw()); ok {
			normalized = append(normalized, nq)
		}
	}
	pack.Questions = normalized
	return writeJSON(cmd.OutOrStdout(), pack)
}

func validatePack(cmd *cobra.Command, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pack: %w", err)
	}
	validator, err := question.NewValidator()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := validator.Validate(body); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
	return nil
}
