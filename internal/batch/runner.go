package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"soundrip/internal/fileutil"
	"soundrip/internal/logging"
	"soundrip/internal/media/ffmpeg"
	"soundrip/internal/media/ffprobe"
	"soundrip/internal/services"
)

// ErrNoAudioTrack is reported as a file's failure reason when the container
// carries no audio stream to extract.
var ErrNoAudioTrack = errors.New("no audio track")

// ProbeFunc inspects a media file and reports its streams.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Config carries the collaborators and encoding settings for a Runner.
type Config struct {
	Extractor       ffmpeg.Extractor
	Probe           ProbeFunc
	Logger          *slog.Logger
	AudioCodec      string
	AudioBitrate    string
	OutputExtension string
	FileTimeout     time.Duration
}

// Runner converts a job's inputs sequentially and reports everything that
// happens through the event channel returned by Run.
type Runner struct {
	extractor       ffmpeg.Extractor
	probe           ProbeFunc
	logger          *slog.Logger
	audioCodec      string
	audioBitrate    string
	outputExtension string
	fileTimeout     time.Duration

	cancelled atomic.Bool
}

// NewRunner builds a Runner from its configuration.
func NewRunner(cfg Config) *Runner {
	return &Runner{
		extractor:       cfg.Extractor,
		probe:           cfg.Probe,
		logger:          logging.NewComponentLogger(cfg.Logger, "batch"),
		audioCodec:      cfg.AudioCodec,
		audioBitrate:    cfg.AudioBitrate,
		outputExtension: cfg.OutputExtension,
		fileTimeout:     cfg.FileTimeout,
	}
}

// Cancel requests a stop at the next file boundary. The file currently being
// converted runs to completion; remaining files are never started.
func (r *Runner) Cancel() {
	r.cancelled.Store(true)
}

// Run starts the job in a goroutine and returns its event channel. The
// channel is unbuffered so consumers observe events in emission order, and it
// is closed after the terminal JobFinished event.
func (r *Runner) Run(ctx context.Context, job Job) <-chan Event {
	events := make(chan Event)
	go r.run(ctx, job, events)
	return events
}

func (r *Runner) run(ctx context.Context, job Job, events chan<- Event) {
	defer close(events)

	ctx = services.WithBatchID(ctx, job.ID)
	logger := logging.WithContext(ctx, r.logger)

	total := len(job.Inputs)
	completed := 0
	logger.Info("batch started", logging.Int("files", total))

	for _, input := range job.Inputs {
		if r.cancelled.Load() || ctx.Err() != nil {
			logger.Info("batch cancelled",
				logging.Int("completed", completed),
				logging.Int("total", total))
			events <- JobFinished{Outcome: OutcomeCancelled}
			return
		}
		if err := checkOutputDir(job.OutputDir); err != nil {
			logger.Error("output directory lost",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "verify the output directory still exists and is writable"))
			events <- JobFinished{Outcome: OutcomeFailed, Err: err}
			return
		}

		events <- Progress{Completed: completed, Total: total, CurrentFile: input}
		result := r.convertOne(ctx, job, input, events)
		switch result.Kind {
		case ResultSucceeded:
			logger.Info("file converted",
				logging.String(logging.FieldFile, input),
				logging.String("output", result.OutputPath))
		case ResultFailed:
			logger.Warn("file failed",
				logging.String(logging.FieldFile, input),
				logging.String("reason", result.Reason))
		case ResultSkipped:
			logger.Info("file skipped",
				logging.String(logging.FieldFile, input),
				logging.String("reason", result.Reason))
		}
		events <- result
		completed++
		events <- Progress{Completed: completed, Total: total, CurrentFile: input}
	}

	logger.Info("batch completed", logging.Int("files", total))
	events <- JobFinished{Outcome: OutcomeCompleted}
}

func (r *Runner) convertOne(ctx context.Context, job Job, input string, events chan<- Event) FileResult {
	ctx = services.WithFile(ctx, input)
	if _, err := os.Stat(input); err != nil {
		return FileResult{
			Kind:      ResultSkipped,
			InputPath: input,
			Reason:    fmt.Sprintf("input no longer readable: %v", err),
		}
	}

	fileCtx := ctx
	if r.fileTimeout > 0 {
		var cancel context.CancelFunc
		fileCtx, cancel = context.WithTimeout(ctx, r.fileTimeout)
		defer cancel()
	}

	probe, err := r.probe(fileCtx, input)
	if err != nil {
		return FileResult{
			Kind:      ResultFailed,
			InputPath: input,
			Reason:    fmt.Sprintf("probe failed: %v", err),
		}
	}
	if !probe.HasAudio() {
		return FileResult{Kind: ResultFailed, InputPath: input, Reason: ErrNoAudioTrack.Error()}
	}

	output := filepath.Join(job.OutputDir, fileutil.OutputName(input, r.outputExtension))
	err = r.extractor.Extract(fileCtx, ffmpeg.Request{
		InputPath:       input,
		OutputPath:      output,
		Codec:           r.audioCodec,
		Bitrate:         r.audioBitrate,
		DurationSeconds: probe.DurationSeconds(),
	}, func(update ffmpeg.ProgressUpdate) {
		events <- FileProgress{InputPath: input, Percent: update.Percent, Message: update.Message}
	})
	if err != nil {
		return FileResult{
			Kind:      ResultFailed,
			InputPath: input,
			Reason:    fmt.Sprintf("extraction failed: %v", err),
		}
	}
	return FileResult{Kind: ResultSucceeded, InputPath: input, OutputPath: output}
}

func checkOutputDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrUnrecoverable, "batch", "check output",
			"output directory unavailable", err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrUnrecoverable, "batch", "check output",
			fmt.Sprintf("output path %s is not a directory", path), nil)
	}
	return nil
}
