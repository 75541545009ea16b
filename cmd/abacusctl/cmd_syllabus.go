package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"abacusisland/internal/app"
	"abacusisland/internal/generator"
	"abacusisland/internal/models"
	"abacusisland/internal/syllabus"

	"github.com/spf13/cobra"
)

func newLevelsCmd() *cobra.Command {
	var pathName string
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List the levels of every learning path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := app.LoadCatalog(loadConfig().SyllabusPath)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tID\tTITLE\tOPERATIONS\tSTAGES")
			for _, p := range catalog.Paths() {
				if pathName != "" && p.Name != pathName {
					continue
				}
				for _, level := range p.Levels {
					ops := make([]string, len(level.Operations))
					for i, op := range level.Operations {
						ops[i] = string(op)
					}
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\n", p.Name, level.ID, level.Title, strings.Join(ops, ","), len(level.Stages))
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pathName, "path", "", "only list this learning path")
	return cmd
}

func newProblemCmd() *cobra.Command {
	var (
		seed  int64
		count int
	)
	cmd := &cobra.Command{
		Use:   "problem <level> <index>",
		Short: "Print the generated problem at an index of a level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			levelID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid level %q: %w", args[0], err)
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[1], err)
			}
			if index < models.FirstIndex || index > models.LastIndex {
				return fmt.Errorf("index %d is outside %d..%d", index, models.FirstIndex, models.LastIndex)
			}

			catalog, err := app.LoadCatalog(loadConfig().SyllabusPath)
			if err != nil {
				return err
			}
			level, ok := catalog.Level(levelID)
			if !ok {
				return fmt.Errorf("unknown level %d", levelID)
			}

			out := cmd.OutOrStdout()
			for i := index; i < index+count && i <= models.LastIndex; i++ {
				p := generator.Generate(level, i, seed)
				stage, _ := syllabus.StageFor(level, i)
				fmt.Fprintf(out, "#%d [stage %d, %s] %s = %s\n", i, stage, p.Header().Operation, p.Header().Expression, answerText(p))
				fmt.Fprintf(out, "    %s\n", generator.Spoken(p))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "master seed")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of consecutive problems")
	return cmd
}

func answerText(p models.Problem) string {
	switch problem := p.(type) {
	case models.MathProblem:
		return generator.Format(problem.Answer)
	case models.EnglishProblem:
		return problem.Answer
	}
	return ""
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.yaml>...",
		Short: "Check syllabus files for schema and stage coverage errors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			paths := make([]syllabus.Path, 0, len(args))
			for _, filename := range args {
				p, err := syllabus.LoadFile(filename)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s\n  %s\n", filename, strings.ReplaceAll(err.Error(), "\n", "\n  "))
					continue
				}
				paths = append(paths, p)
				fmt.Fprintf(out, "ok   %s (%s, %d levels)\n", filename, p.Name, len(p.Levels))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			if _, err := syllabus.Default(paths...); err != nil {
				return fmt.Errorf("files conflict with the built-in syllabus: %w", err)
			}
			return nil
		},
	}
}
