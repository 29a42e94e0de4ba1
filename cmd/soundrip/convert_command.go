package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"soundrip/internal/batch"
	"soundrip/internal/config"
	"soundrip/internal/logging"
	"soundrip/internal/session"
)

func newConvertCommand(cctx *commandContext) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "convert FILE [FILE ...]",
		Short: "Extract audio from the given video files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			return runConvert(cmd, cfg, args, outputDir)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory that receives the extracted audio")
	return cmd
}

func runConvert(cmd *cobra.Command, cfg *config.Config, args []string, outputDir string) error {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	sess, err := session.New(cmd.Context(), cfg, logger, session.Options{})
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	added, rejected := sess.AddFiles(args...)
	for _, path := range rejected {
		fmt.Fprintf(errOut, "Skipping unsupported file: %s\n", path)
	}
	if len(added) == 0 {
		return errors.New("none of the given files have a supported extension")
	}

	if outputDir != "" {
		expanded, err := config.ExpandPath(outputDir)
		if err != nil {
			return fmt.Errorf("resolve output directory: %w", err)
		}
		if err := os.MkdirAll(expanded, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := sess.SetOutputDirectory(expanded); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(signals)
		close(signals)
	}()
	go func() {
		if _, ok := <-signals; !ok {
			return
		}
		fmt.Fprintln(errOut, "Finishing the current file, then stopping (interrupt again to abort)")
		sess.Cancel()
		if _, ok := <-signals; !ok {
			return
		}
		cancel()
	}()

	events, err := sess.Start(ctx)
	if err != nil {
		return err
	}

	outcome := consumeEvents(events, out, errOut)

	summary := sess.Summary()
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable(
		[]string{"Succeeded", "Failed", "Skipped", "Total"},
		[][]string{{
			strconv.Itoa(summary.Completed),
			strconv.Itoa(summary.Failed),
			strconv.Itoa(summary.Skipped),
			strconv.Itoa(summary.Total),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	))

	switch outcome.Outcome {
	case batch.OutcomeFailed:
		return fmt.Errorf("batch aborted: %w", outcome.Err)
	case batch.OutcomeCancelled:
		return errors.New("batch cancelled")
	}
	if summary.Failed > 0 {
		noun := "files"
		if summary.Failed == 1 {
			noun = "file"
		}
		return fmt.Errorf("%d %s failed to convert", summary.Failed, noun)
	}
	return nil
}

func consumeEvents(events <-chan batch.Event, out, errOut io.Writer) batch.JobFinished {
	interactive := progressOnTerminal(errOut)
	started := make(map[string]bool)
	var bar *progressbar.ProgressBar
	var finished batch.JobFinished

	for event := range events {
		switch ev := event.(type) {
		case batch.Progress:
			if started[ev.CurrentFile] {
				continue
			}
			started[ev.CurrentFile] = true
			fmt.Fprintf(out, "[%d/%d] %s\n", ev.Completed+1, ev.Total, filepath.Base(ev.CurrentFile))
			if interactive {
				bar = newFileBar(errOut, filepath.Base(ev.CurrentFile))
			}

		case batch.FileProgress:
			if bar != nil {
				_ = bar.Set(int(ev.Percent))
			}

		case batch.FileResult:
			if bar != nil {
				_ = bar.Finish()
				bar = nil
			}
			switch ev.Kind {
			case batch.ResultSucceeded:
				fmt.Fprintf(out, "  -> %s\n", ev.OutputPath)
			case batch.ResultFailed:
				fmt.Fprintf(errOut, "  failed: %s\n", ev.Reason)
			case batch.ResultSkipped:
				fmt.Fprintf(errOut, "  skipped: %s\n", ev.Reason)
			}

		case batch.JobFinished:
			finished = ev
		}
	}
	return finished
}

func progressOnTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func newFileBar(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
}
