package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"

	"github.com/nluthra2001/mlq/internal/log"
	"github.com/nluthra2001/mlq/internal/report"
	"github.com/nluthra2001/mlq/internal/scheduler"
	"github.com/nluthra2001/mlq/internal/workload"
)

var ErrInvalidArgs = errors.New("invalid args")

func main() {
	logger, err := log.BuildLogger(os.Stderr, os.Getenv("MLQ_LOG_LEVEL"))
	if err != nil {
		logger.Warn("log level", log.ErrAttr(err))
	}

	output := url.Normalize(report.DefaultFile, file.Scheme)
	if err := run(context.Background(), afs.New(), logger, os.Stdout, output, os.Args...); err != nil {
		if errors.Is(err, ErrInvalidArgs) {
			_, _ = fmt.Fprintf(os.Stderr, "usage: %s <input-file>\n", filepath.Base(os.Args[0]))
		}
		logger.Error("mlq failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

// run loads the workload named by args[1], simulates it, prints the
// console report to stdout and writes the result log to output.
func run(ctx context.Context, fs afs.Service, logger *slog.Logger, stdout io.Writer, output string, args ...string) error {
	input, err := inputURL(args...)
	if err != nil {
		return err
	}

	descs, err := workload.Load(ctx, fs, input, logger)
	if err != nil {
		return err
	}
	if len(descs) == 0 {
		return fmt.Errorf("%w from %s", workload.ErrNoProcesses, input)
	}

	engine, err := scheduler.New(descs, scheduler.WithLogger(logger))
	if err != nil {
		return err
	}
	res := engine.Run()

	report.Render(stdout, "Multi-Level Queue (RR q=1, RR q=3, RR q=2)", res)

	if err := report.Save(ctx, fs, output, res.Processes); err != nil {
		return err
	}
	logger.Info("results written", slog.String("run", res.RunID), slog.String("output", output), slog.Int64("makespan", res.Makespan))
	return nil
}

func inputURL(args ...string) (string, error) {
	if len(args) < 2 {
		return "", fmt.Errorf("%w: must give a scheduling file to process", ErrInvalidArgs)
	}
	return url.Normalize(args[1], file.Scheme), nil
}
