package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/iqtest/internal/score"
)

var iqCmd = &cobra.Command{
	Use:   "iq",
	Short: "Estimate an IQ score from a correct count",
	RunE: func(cmd *cobra.Command, args []string) error {
		correct, _ := cmd.Flags().GetInt("correct")
		total, _ := cmd.Flags().GetInt("total")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		if correct < 0 {
			return fmt.Errorf("correct must not be negative")
		}
		if total < correct {
			total = correct
		}

		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"correct":    correct,
			"total":      total,
			"difficulty": difficulty,
			"iq":         score.EstimateIQ(correct, difficulty),
			"band":       score.Band(correct, total),
		})
	},
}

func init() {
	iqCmd.Flags().Int("correct", 0, "Correct answers")
	iqCmd.Flags().Int("total", 30, "Questions asked")
	iqCmd.Flags().String("difficulty", "mixed", "Norm to score against")
}
