package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"abacusisland/internal/abacus"

	"github.com/spf13/cobra"
)

func newBoardCmd() *cobra.Command {
	var columns int
	cmd := &cobra.Command{
		Use:   "board <value>",
		Short: "Draw the bead positions that show a number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if columns < 1 {
				return fmt.Errorf("columns must be at least 1, got %d", columns)
			}
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			board := abacus.NewBoard(columns, abacus.MostSignificantFirst)
			board.SetValue(v)
			if board.Value() != absInt(v) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d does not fit on %d columns, showing %d\n", v, columns, board.Value())
			}
			drawBoard(cmd.OutOrStdout(), board)
			return nil
		},
	}
	cmd.Flags().IntVarP(&columns, "columns", "c", 3, "number of rods")
	return cmd
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// drawBoard prints one text row per bead, rods left to right
func drawBoard(w io.Writer, board *abacus.Board) {
	row := func(bead func(abacus.Column) bool) string {
		cells := make([]string, len(board.Columns))
		for i, c := range board.Columns {
			if bead(c) {
				cells[i] = "●"
			} else {
				cells[i] = "│"
			}
		}
		return strings.Join(cells, " ")
	}

	fmt.Fprintln(w, row(func(c abacus.Column) bool { return c.Upper }))
	fmt.Fprintln(w, strings.Repeat("═", 2*len(board.Columns)-1))
	for bead := 0; bead < abacus.LowerBeads; bead++ {
		bead := bead
		fmt.Fprintln(w, row(func(c abacus.Column) bool { return c.Lower[bead] }))
	}

	digits := make([]string, len(board.Columns))
	for i, c := range board.Columns {
		digits[i] = strconv.Itoa(c.Value())
	}
	fmt.Fprintln(w, strings.Join(digits, " "))
}
