package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gradloop/gradloop/eager"
	"github.com/gradloop/gradloop/loop"
	"github.com/gradloop/gradloop/policy/overflow"
	"github.com/gradloop/gradloop/tensor"
	"github.com/gradloop/gradloop/tensor/cpu"
	"github.com/gradloop/gradloop/tree"
)

func sqrtCmd() *cobra.Command {
	var maxSteps int
	var tolerance float64
	var verbose bool
	cmd := &cobra.Command{
		Use:   "sqrt <number>",
		Short: "Approximate a square root with a bounded Heron iteration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse number: %w", err)
			}
			if target <= 0 {
				return fmt.Errorf("number must be positive, got %v", target)
			}
			logger := newLogger(cmd.ErrOrStderr(), verbose)
			result, err := heronSqrt(cmd.Context(), logger, target, tolerance, maxSteps)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sqrt(%v) = %v (math.Sqrt: %v)\n", target, result, math.Sqrt(target))
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", 32, "step budget for the iteration")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-9, "stop once |x^2 - number| drops below this")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every iteration step")
	return cmd
}

func heronSqrt(ctx context.Context, logger *slog.Logger, target, tolerance float64, maxSteps int) (float64, error) {
	backend := cpu.New()
	engine, err := eager.New(backend)
	if err != nil {
		return 0, err
	}
	runner, err := loop.NewRunner(loop.Dependencies{
		Engine:   overflow.Wrap(engine, overflow.Log(logger)),
		Observer: stepLogger{logger: logger},
	})
	if err != nil {
		return 0, err
	}
	goal := tensor.Float64Scalar(target)
	cond, body := heronLoop(backend, goal, tolerance)
	out, err := runner.Run(ctx, cond, body, tree.Leaf(tensor.Float64Scalar(target)), maxSteps)
	if err != nil {
		return 0, err
	}
	return out.Leaf().AsFloat64()
}
