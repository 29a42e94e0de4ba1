package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"soundrip/internal/batch"
	"soundrip/internal/media/ffmpeg"
	"soundrip/internal/media/ffprobe"
	"soundrip/internal/testsupport"
)

type fakeExtractor struct {
	extract func(ctx context.Context, req ffmpeg.Request, onProgress func(ffmpeg.ProgressUpdate)) error
}

func (f *fakeExtractor) Extract(ctx context.Context, req ffmpeg.Request, onProgress func(ffmpeg.ProgressUpdate)) error {
	if f.extract == nil {
		return nil
	}
	return f.extract(ctx, req, onProgress)
}

func audioProbe(ctx context.Context, path string) (ffprobe.Result, error) {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "audio"}},
		Format:  ffprobe.Format{Duration: "60.0"},
	}, nil
}

type completion struct {
	succeeded, failed, skipped int
}

type stubNotifier struct {
	mu         sync.Mutex
	started    []int
	completed  []completion
	errorCalls int
}

func (n *stubNotifier) NotifyBatchStarted(ctx context.Context, count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.started = append(n.started, count)
	return nil
}

func (n *stubNotifier) NotifyBatchCompleted(ctx context.Context, succeeded, failed, skipped int, duration time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, completion{succeeded, failed, skipped})
	return nil
}

func (n *stubNotifier) NotifyError(ctx context.Context, err error, contextLabel string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errorCalls++
	return nil
}

func (n *stubNotifier) TestNotification(ctx context.Context) error { return nil }

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if opts.Extractor == nil {
		opts.Extractor = &fakeExtractor{}
	}
	if opts.Probe == nil {
		opts.Probe = audioProbe
	}
	if opts.Notifier == nil {
		opts.Notifier = &stubNotifier{}
	}
	sess, err := New(context.Background(), cfg, nil, opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess
}

func drain(events <-chan batch.Event) []batch.Event {
	var out []batch.Event
	for event := range events {
		out = append(out, event)
	}
	return out
}

func TestAddFilesFiltersAndDedupes(t *testing.T) {
	sess := newTestSession(t, Options{})
	dir := t.TempDir()
	video := testsupport.WriteFile(t, dir, "a.mp4", "video")
	text := testsupport.WriteFile(t, dir, "notes.txt", "text")

	added, rejected := sess.AddFiles(video, text, video)
	if len(added) != 2 || added[0] != video || added[1] != video {
		t.Fatalf("unexpected added list: %v", added)
	}
	if len(rejected) != 1 || rejected[0] != text {
		t.Fatalf("unexpected rejected list: %v", rejected)
	}
	if files := sess.Files(); len(files) != 1 || files[0] != video {
		t.Fatalf("expected deduplicated queue, got %v", files)
	}
}

func TestClearFiles(t *testing.T) {
	sess := newTestSession(t, Options{})
	video := testsupport.WriteFile(t, t.TempDir(), "a.mp4", "video")
	sess.AddFiles(video)
	sess.ClearFiles()
	if files := sess.Files(); len(files) != 0 {
		t.Fatalf("expected empty queue, got %v", files)
	}
}

func TestSetOutputDirectoryRejectsMissing(t *testing.T) {
	sess := newTestSession(t, Options{})
	err := sess.SetOutputDirectory(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrInvalidDirectory) {
		t.Fatalf("expected ErrInvalidDirectory, got %v", err)
	}
}

func TestStartRequiresFiles(t *testing.T) {
	sess := newTestSession(t, Options{})
	if _, err := sess.Start(context.Background()); !errors.Is(err, ErrEmptyInputList) {
		t.Fatalf("expected ErrEmptyInputList, got %v", err)
	}
}

func TestStartRequiresOutputDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.OutputDir = ""
	sess, err := New(context.Background(), cfg, nil, Options{
		Extractor: &fakeExtractor{},
		Probe:     audioProbe,
		Notifier:  &stubNotifier{},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	t.Cleanup(func() { sess.Close() })

	video := testsupport.WriteFile(t, t.TempDir(), "a.mp4", "video")
	sess.AddFiles(video)
	if _, err := sess.Start(context.Background()); !errors.Is(err, ErrNoOutputDirectory) {
		t.Fatalf("expected ErrNoOutputDirectory, got %v", err)
	}
}

func TestStartFailsWhenOutputDirectoryVanishes(t *testing.T) {
	sess := newTestSession(t, Options{})
	video := testsupport.WriteFile(t, t.TempDir(), "a.mp4", "video")
	sess.AddFiles(video)

	if err := os.RemoveAll(sess.OutputDirectory()); err != nil {
		t.Fatalf("remove output dir: %v", err)
	}
	if _, err := sess.Start(context.Background()); !errors.Is(err, ErrInvalidDirectory) {
		t.Fatalf("expected ErrInvalidDirectory, got %v", err)
	}
}

func TestStartConvertsQueuedFiles(t *testing.T) {
	notifier := &stubNotifier{}
	sess := newTestSession(t, Options{Notifier: notifier})
	dir := t.TempDir()
	inputs := []string{
		testsupport.WriteFile(t, dir, "a.mp4", "video"),
		testsupport.WriteFile(t, dir, "b.mp4", "video"),
	}
	sess.AddFiles(inputs...)

	events, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(events)

	finished, ok := all[len(all)-1].(batch.JobFinished)
	if !ok || finished.Outcome != batch.OutcomeCompleted {
		t.Fatalf("expected completed JobFinished, got %#v", all[len(all)-1])
	}

	summary := sess.Summary()
	if summary.Total != 2 || summary.Completed != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if sess.Running() {
		t.Fatal("session still reports running after completion")
	}

	if len(notifier.started) != 1 || notifier.started[0] != 2 {
		t.Fatalf("unexpected start notifications: %v", notifier.started)
	}
	if len(notifier.completed) != 1 || notifier.completed[0] != (completion{succeeded: 2}) {
		t.Fatalf("unexpected completion notifications: %+v", notifier.completed)
	}
}

func TestStartWhileRunningFails(t *testing.T) {
	release := make(chan struct{})
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, req ffmpeg.Request, onProgress func(ffmpeg.ProgressUpdate)) error {
			<-release
			return nil
		},
	}
	sess := newTestSession(t, Options{Extractor: extractor})
	video := testsupport.WriteFile(t, t.TempDir(), "a.mp4", "video")
	sess.AddFiles(video)

	events, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := sess.Start(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	close(release)
	drain(events)
}

func TestCancelSkipsRemainingFiles(t *testing.T) {
	var sess *Session
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, req ffmpeg.Request, onProgress func(ffmpeg.ProgressUpdate)) error {
			sess.Cancel()
			return nil
		},
	}
	sess = newTestSession(t, Options{Extractor: extractor})
	dir := t.TempDir()
	sess.AddFiles(
		testsupport.WriteFile(t, dir, "a.mp4", "video"),
		testsupport.WriteFile(t, dir, "b.mp4", "video"),
	)

	events, err := sess.Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := drain(events)

	finished, ok := all[len(all)-1].(batch.JobFinished)
	if !ok || finished.Outcome != batch.OutcomeCancelled {
		t.Fatalf("expected cancelled JobFinished, got %#v", all[len(all)-1])
	}
	summary := sess.Summary()
	if summary.Completed != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary after cancel: %+v", summary)
	}
}

func TestOutputLockPreventsConcurrentRuns(t *testing.T) {
	release := make(chan struct{})
	extractor := &fakeExtractor{
		extract: func(ctx context.Context, req ffmpeg.Request, onProgress func(ffmpeg.ProgressUpdate)) error {
			<-release
			return nil
		},
	}
	first := newTestSession(t, Options{Extractor: extractor})
	dir := t.TempDir()
	video := testsupport.WriteFile(t, dir, "a.mp4", "video")
	first.AddFiles(video)

	events, err := first.Start(context.Background())
	if err != nil {
		t.Fatalf("first Start: %v", err)
	}

	second := newTestSession(t, Options{})
	if err := second.SetOutputDirectory(first.OutputDirectory()); err != nil {
		t.Fatalf("SetOutputDirectory: %v", err)
	}
	second.AddFiles(video)
	if _, err := second.Start(context.Background()); !errors.Is(err, ErrOutputDirBusy) {
		t.Fatalf("expected ErrOutputDirBusy, got %v", err)
	}

	close(release)
	drain(events)
}
