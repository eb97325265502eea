package main

import (
	"fmt"
	"math"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gradloop/gradloop"
	"github.com/gradloop/gradloop/autodiff"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

func gradcheckCmd() *cobra.Command {
	var maxSteps int
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "gradcheck <number>",
		Short: "Differentiate the Heron iteration and compare against finite differences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse number: %w", err)
			}
			if target <= 0 {
				return fmt.Errorf("number must be positive, got %v", target)
			}

			tape, err := autodiff.NewTape(cpu.New())
			if err != nil {
				return err
			}
			goal := tensor.Float64Scalar(target)
			cond, body := heronLoop(tape, goal, tolerance)
			out, err := gradloop.RunWith(cmd.Context(), tape, cond, body, tree.Leaf(tensor.Float64Scalar(target)), maxSteps)
			if err != nil {
				return err
			}
			grads, err := tape.Gradient(out.Leaf(), goal)
			if err != nil {
				return err
			}
			grad, err := grads[0].AsFloat64()
			if err != nil {
				return err
			}

			h := 1e-6
			if target <= h {
				h = target / 2
			}
			upper, err := heronValue(cmd.Context(), target+h, tolerance, maxSteps)
			if err != nil {
				return err
			}
			lower, err := heronValue(cmd.Context(), target-h, tolerance, maxSteps)
			if err != nil {
				return err
			}

			estimate, err := out.Leaf().AsFloat64()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sqrt(%v) = %v after recording %d operations\n\n", target, estimate, tape.Len())
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "reverse-mode tape\t%.12f\n", grad)
			fmt.Fprintf(w, "finite differences\t%.12f\n", (upper-lower)/(2*h))
			fmt.Fprintf(w, "analytic 1/(2*sqrt(n))\t%.12f\n", 1/(2*math.Sqrt(target)))
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", 32, "step budget for the iteration")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-9, "stop once |x^2 - number| drops below this")
	return cmd
}
