package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"trivia/internal/trace"
)

// ringCapacity bounds the events kept for a failure dump.
const ringCapacity = 1024

var (
	// ringTracer is set when --trace-level is given without --trace.
	ringTracer *trace.RingTracer
	ringFormat trace.Format
)

// setupTracing inspects trace-related flags and attaches a tracer to the
// command context. closeTracing flushes it once the command is done.
func setupTracing(cmd *cobra.Command, _ []string) error {
	root := cmd.Root()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ringTracer = nil

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := root.PersistentFlags().GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && traceOutput != "" && !root.PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		ctx = trace.WithTracer(ctx, trace.Nop)
		cmd.SetContext(ctx)
		root.SetContext(ctx)
		return nil
	}

	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	var tracer trace.Tracer
	if traceOutput == "" {
		// только уровень: держим события в памяти до ошибки
		ringTracer = trace.NewRingTracer(ringCapacity, level)
		ringFormat = format
		tracer = ringTracer
	} else {
		tracer, err = trace.New(trace.Config{Level: level, Format: format, OutputPath: traceOutput})
		if err != nil {
			return fmt.Errorf("failed to create tracer: %w", err)
		}
	}

	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)
	root.SetContext(ctx)
	return nil
}

// closeTracing flushes the tracer. A buffered ring is written to stderr
// only when the command failed.
func closeTracing(root *cobra.Command, failed bool) {
	if ringTracer != nil {
		ring := ringTracer
		ringTracer = nil
		if failed {
			events := ring.Snapshot()
			fmt.Fprintf(root.ErrOrStderr(), "trace: last %d events\n", len(events))
			if err := ring.Dump(root.ErrOrStderr(), ringFormat); err != nil {
				fmt.Fprintf(root.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		return
	}

	ctx := root.Context()
	if ctx == nil {
		return
	}
	tracer := trace.FromContext(ctx)
	if tracer == trace.Nop {
		return
	}
	if err := tracer.Flush(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "trace: flush error: %v\n", err)
	}
	if err := tracer.Close(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "trace: close error: %v\n", err)
	}
}
