package main

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "iqctl",
	Short:         "Inspect IQ test generators offline",
	Long:          "iqctl runs the puzzle generators locally: matrix cells and grids, option sets, generated packs and IQ estimates.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(cellCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(iqCmd)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// seedFlag reads --seed as an unsigned 32-bit value.
func seedFlag(cmd *cobra.Command) (uint32, error) {
	raw, _ := cmd.Flags().GetString("seed")
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errInvalidSeed(raw)
	}
	return uint32(v), nil
}

type errInvalidSeed string

func (e errInvalidSeed) Error() string {
	return "invalid seed " + strconv.Quote(string(e)) + ": must be an unsigned 32-bit integer"
}
