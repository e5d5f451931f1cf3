package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gokatarajesh/iqtest/internal/matrix"
)

var cellCmd = &cobra.Command{
	Use:   "cell",
	Short: "Print one matrix cell",
	RunE:  runCell,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Render the 3x3 grid for a seed",
	RunE:  runGrid,
}

func init() {
	cellCmd.Flags().String("seed", "1", "Puzzle seed (uint32)")
	cellCmd.Flags().Int("row", 0, "Row, 0-2")
	cellCmd.Flags().Int("col", 0, "Column, 0-2")
	cellCmd.Flags().Bool("render", false, "Draw a colour swatch instead of JSON")

	gridCmd.Flags().String("seed", "1", "Puzzle seed (uint32)")
	gridCmd.Flags().Bool("json", false, "Print the grid as JSON")
	gridCmd.Flags().Bool("reveal", false, "Show the hidden bottom-right cell")
}

func runCell(cmd *cobra.Command, args []string) error {
	seed, err := seedFlag(cmd)
	if err != nil {
		return err
	}
	row, _ := cmd.Flags().GetInt("row")
	col, _ := cmd.Flags().GetInt("col")
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return fmt.Errorf("row and col must be between 0 and 2")
	}

	cell := matrix.GenerateCell(seed, row, col)
	if render, _ := cmd.Flags().GetBool("render"); render {
		fmt.Fprintln(cmd.OutOrStdout(), renderCell(cell))
		fmt.Fprintln(cmd.OutOrStdout(), matrix.CanonicalKey(cell))
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"cell":     cell,
		"features": matrix.ToVisualFeatures(cell),
		"key":      matrix.CanonicalKey(cell),
	})
}

func runGrid(cmd *cobra.Command, args []string) error {
	seed, err := seedFlag(cmd)
	if err != nil {
		return err
	}
	grid := matrix.Grid(seed)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), grid)
	}
	reveal, _ := cmd.Flags().GetBool("reveal")
	fmt.Fprintln(cmd.OutOrStdout(), renderGrid(grid, reveal))
	return nil
}
