package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/iqtest/internal/matrix"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Assemble the answer options for a matrix seed",
	Long: `Assemble the eight answer options for a matrix question and report each
option's canonical key and its visual distance from the answer.`,
	RunE: runOptions,
}

func init() {
	optionsCmd.Flags().String("seed", "1", "Puzzle seed (uint32)")
	optionsCmd.Flags().Bool("render", false, "Draw the options as swatches")
}

type optionReport struct {
	Index    int     `json:"index"`
	Answer   bool    `json:"answer,omitempty"`
	Key      string  `json:"key"`
	Distance float64 `json:"distance"`
	Cell     string  `json:"cell"`
}

func runOptions(cmd *cobra.Command, args []string) error {
	seed, err := seedFlag(cmd)
	if err != nil {
		return err
	}
	asm := matrix.AssembleOptions(matrix.Spec{Seed: seed})

	if render, _ := cmd.Flags().GetBool("render"); render {
		fmt.Fprintln(cmd.OutOrStdout(), renderOptions(asm.Options, asm.AnswerIndex))
		return nil
	}

	answer := matrix.ToVisualFeatures(asm.Answer)
	reports := make([]optionReport, 0, len(asm.Options))
	for i, text := range asm.Options {
		features := matrix.ToVisualFeatures(text)
		reports = append(reports, optionReport{
			Index:    i,
			Answer:   i == asm.AnswerIndex,
			Key:      features.Key(),
			Distance: answer.DistanceTo(features),
			Cell:     text,
		})
	}
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"seed":           asm.Seed,
		"answerIndex":    asm.AnswerIndex,
		"fillerAttempts": asm.FillerAttempts,
		"options":        reports,
	})
}
