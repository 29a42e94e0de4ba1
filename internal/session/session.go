package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"soundrip/internal/batch"
	"soundrip/internal/config"
	"soundrip/internal/fileutil"
	"soundrip/internal/ledger"
	"soundrip/internal/logging"
	"soundrip/internal/media/ffmpeg"
	"soundrip/internal/media/ffprobe"
	"soundrip/internal/notifications"
	"soundrip/internal/preflight"
)

var (
	ErrAlreadyRunning    = errors.New("a conversion batch is already running")
	ErrEmptyInputList    = errors.New("no input files queued")
	ErrNoOutputDirectory = errors.New("no output directory set")
	ErrInvalidDirectory  = errors.New("output directory does not exist")
	ErrOutputDirBusy     = errors.New("output directory is locked by another run")
)

type state int

const (
	stateIdle state = iota
	stateRunning
	stateFinished
)

// Options overrides the collaborators a Session builds from configuration.
// Zero-value fields fall back to the real implementations.
type Options struct {
	Extractor ffmpeg.Extractor
	Probe     batch.ProbeFunc
	Notifier  notifications.Service
	Store     *ledger.Store
}

// Session owns one conversion batch from file selection through completion:
// the queued inputs, the output directory, the run ledger, and the runner
// that does the work.
type Session struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *ledger.Store
	notifier  notifications.Service
	extractor ffmpeg.Extractor
	probe     batch.ProbeFunc

	mu        sync.Mutex
	files     []string
	outputDir string
	state     state
	batchID   string
	runner    *batch.Runner
	lock      *flock.Flock
	startedAt time.Time
	summary   ledger.Summary
}

// New builds a Session. The ledger store is created on demand when Options
// does not supply one; callers own Close.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Session, error) {
	store := opts.Store
	if store == nil {
		var err error
		store, err = ledger.Open(ctx)
		if err != nil {
			return nil, err
		}
	}

	extractor := opts.Extractor
	if extractor == nil {
		extractor = ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.FFmpegBinary()))
	}
	probe := opts.Probe
	if probe == nil {
		binary := cfg.FFprobeBinary()
		probe = func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, binary, path)
		}
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	return &Session{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "session"),
		store:     store,
		notifier:  notifier,
		extractor: extractor,
		probe:     probe,
		outputDir: cfg.Paths.OutputDir,
	}, nil
}

// Close releases the run ledger.
func (s *Session) Close() error {
	return s.store.Close()
}

// AddFiles queues inputs for conversion. Paths that do not exist or carry an
// unsupported extension are returned in rejected; duplicates of already
// queued paths are dropped silently.
func (s *Session) AddFiles(paths ...string) (added, rejected []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range paths {
		if !s.cfg.AcceptsExtension(path) {
			rejected = append(rejected, path)
			continue
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			rejected = append(rejected, path)
			continue
		}
		added = append(added, path)
	}
	s.files = fileutil.Dedupe(append(s.files, added...))
	return added, rejected
}

// ClearFiles empties the queued input list.
func (s *Session) ClearFiles() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}

// Files returns a copy of the queued input list.
func (s *Session) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.files...)
}

// SetOutputDirectory points the session at an existing, writable directory.
func (s *Session) SetOutputDirectory(path string) error {
	if result := preflight.CheckDirectoryAccess("output directory", path); !result.Passed {
		return fmt.Errorf("%w: %s", ErrInvalidDirectory, result.Detail)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outputDir = path
	return nil
}

// OutputDirectory returns the currently selected output directory.
func (s *Session) OutputDirectory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputDir
}

// Start validates the session, records the batch in the ledger, and launches
// the runner. The returned channel replays every runner event after the
// session has applied it to the ledger; it closes after JobFinished.
func (s *Session) Start(ctx context.Context) (<-chan batch.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateRunning {
		return nil, ErrAlreadyRunning
	}
	if len(s.files) == 0 {
		return nil, ErrEmptyInputList
	}
	if s.outputDir == "" {
		return nil, ErrNoOutputDirectory
	}
	if info, err := os.Stat(s.outputDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDirectory, s.outputDir)
	}

	lock := flock.New(filepath.Join(s.outputDir, ".soundrip.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return nil, ErrOutputDirBusy
	}

	batchID := uuid.NewString()
	inputs := append([]string(nil), s.files...)
	items := make(map[string]*ledger.Item, len(inputs))
	for _, input := range inputs {
		item, err := s.store.Add(ctx, batchID, input)
		if err != nil {
			lock.Unlock()
			return nil, err
		}
		items[input] = item
	}

	logger := s.logger.With(logging.String(logging.FieldBatchID, batchID))
	if err := s.notifier.NotifyBatchStarted(ctx, len(inputs)); err != nil {
		logger.Warn("batch start notification failed", logging.Error(err))
	}

	runner := batch.NewRunner(batch.Config{
		Extractor:       s.extractor,
		Probe:           s.probe,
		Logger:          s.logger,
		AudioCodec:      s.cfg.Convert.AudioCodec,
		AudioBitrate:    s.cfg.Convert.AudioBitrate,
		OutputExtension: s.cfg.Convert.OutputExtension,
		FileTimeout:     time.Duration(s.cfg.Convert.FileTimeout) * time.Second,
	})

	s.state = stateRunning
	s.batchID = batchID
	s.runner = runner
	s.lock = lock
	s.startedAt = time.Now()

	events := runner.Run(ctx, batch.Job{ID: batchID, Inputs: inputs, OutputDir: s.outputDir})
	out := make(chan batch.Event)
	go s.pump(ctx, logger, events, out, items)
	return out, nil
}

// Cancel requests a stop at the next file boundary. It is a no-op when no
// batch is running.
func (s *Session) Cancel() {
	s.mu.Lock()
	runner := s.runner
	state := s.state
	s.mu.Unlock()
	if state != stateRunning || runner == nil {
		return
	}
	runner.Cancel()
}

// Running reports whether a batch is currently in flight.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateRunning
}

// Summary returns the per-status counts of the most recent batch.
func (s *Session) Summary() ledger.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

func (s *Session) pump(ctx context.Context, logger *slog.Logger, events <-chan batch.Event, out chan<- batch.Event, items map[string]*ledger.Item) {
	defer close(out)
	for event := range events {
		s.apply(ctx, logger, event, items)
		out <- event
	}
}

func (s *Session) apply(ctx context.Context, logger *slog.Logger, event batch.Event, items map[string]*ledger.Item) {
	switch ev := event.(type) {
	case batch.Progress:
		logger.Debug("batch progress",
			logging.Int("completed", ev.Completed),
			logging.Int("total", ev.Total),
			logging.String(logging.FieldFile, ev.CurrentFile))

	case batch.FileProgress:
		item, ok := items[ev.InputPath]
		if !ok {
			return
		}
		logger.Debug("file progress",
			logging.String(logging.FieldFile, ev.InputPath),
			logging.Float64(logging.FieldProgressPercent, ev.Percent))
		if item.Status != ledger.StatusConverting {
			item.SetConverting("extracting audio")
		}
		item.ProgressPercent = ev.Percent
		if ev.Message != "" {
			item.ProgressMessage = ev.Message
		}
		s.updateItem(ctx, logger, item)

	case batch.FileResult:
		item, ok := items[ev.InputPath]
		if !ok {
			return
		}
		switch ev.Kind {
		case batch.ResultSucceeded:
			item.SetCompleted(ev.OutputPath)
		case batch.ResultFailed:
			item.SetFailed(ev.Reason)
		case batch.ResultSkipped:
			item.SetSkipped(ev.Reason)
		}
		s.updateItem(ctx, logger, item)

	case batch.JobFinished:
		s.finish(ctx, logger, ev)
	}
}

func (s *Session) updateItem(ctx context.Context, logger *slog.Logger, item *ledger.Item) {
	if err := s.store.Update(ctx, item); err != nil {
		logger.Warn("ledger update failed",
			logging.String(logging.FieldFile, item.SourcePath),
			logging.Error(err))
	}
}

func (s *Session) finish(ctx context.Context, logger *slog.Logger, ev batch.JobFinished) {
	s.mu.Lock()
	batchID := s.batchID
	lock := s.lock
	startedAt := s.startedAt
	s.state = stateFinished
	s.runner = nil
	s.lock = nil
	s.mu.Unlock()

	summary, err := s.store.Summarize(ctx, batchID)
	if err != nil {
		logger.Warn("batch summary failed", logging.Error(err))
	}
	s.mu.Lock()
	s.summary = summary
	s.mu.Unlock()

	duration := time.Since(startedAt)
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finished"),
		logging.String("outcome", string(ev.Outcome)),
		logging.Int("succeeded", summary.Completed),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("duration", duration))

	switch ev.Outcome {
	case batch.OutcomeFailed:
		if err := s.notifier.NotifyError(ctx, ev.Err, "batch conversion"); err != nil {
			logger.Warn("error notification failed", logging.Error(err))
		}
	default:
		if err := s.notifier.NotifyBatchCompleted(ctx, summary.Completed, summary.Failed, summary.Skipped, duration); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
	}

	if lock != nil {
		if err := lock.Unlock(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
		}
	}
}
