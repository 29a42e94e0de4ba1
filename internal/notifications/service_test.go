package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"soundrip/internal/config"
)

type recordedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newRecordingServer(t *testing.T, requests *[]recordedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*requests = append(*requests, recordedRequest{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func newNtfyConfig(endpoint string) *config.Config {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = endpoint
	cfg.Notifications.BatchStarted = true
	cfg.Notifications.BatchFinished = true
	cfg.Notifications.Errors = true
	return &cfg
}

func TestNewServiceWithoutTopicIsNoop(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""

	service := NewService(&cfg)
	if _, ok := service.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", service)
	}
	if err := service.NotifyBatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("noop service returned error: %v", err)
	}
}

func TestNotifyBatchStarted(t *testing.T) {
	var requests []recordedRequest
	server := newRecordingServer(t, &requests)

	service := NewService(newNtfyConfig(server.URL))
	if err := service.NotifyBatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].title != "Soundrip - Batch Started" {
		t.Fatalf("unexpected title %q", requests[0].title)
	}
	if !strings.Contains(requests[0].body, "3 files") {
		t.Fatalf("unexpected body %q", requests[0].body)
	}
}

func TestNotifyBatchCompletedCleanRun(t *testing.T) {
	var requests []recordedRequest
	server := newRecordingServer(t, &requests)

	service := NewService(newNtfyConfig(server.URL))
	err := service.NotifyBatchCompleted(context.Background(), 5, 0, 0, 90*time.Second)
	if err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}

	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].title != "Soundrip - Batch Complete" {
		t.Fatalf("unexpected title %q", requests[0].title)
	}
	if !strings.Contains(requests[0].body, "5 files converted in 1m30s") {
		t.Fatalf("unexpected body %q", requests[0].body)
	}
}

func TestNotifyBatchCompletedWithIssues(t *testing.T) {
	var requests []recordedRequest
	server := newRecordingServer(t, &requests)

	service := NewService(newNtfyConfig(server.URL))
	err := service.NotifyBatchCompleted(context.Background(), 2, 1, 1, 10*time.Second)
	if err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}

	if requests[0].title != "Soundrip - Batch Complete (with issues)" {
		t.Fatalf("unexpected title %q", requests[0].title)
	}
	if !strings.Contains(requests[0].body, "2 succeeded, 1 failed, 1 skipped") {
		t.Fatalf("unexpected body %q", requests[0].body)
	}
}

func TestNotifyErrorSetsHighPriority(t *testing.T) {
	var requests []recordedRequest
	server := newRecordingServer(t, &requests)

	service := NewService(newNtfyConfig(server.URL))
	err := service.NotifyError(context.Background(), io.ErrUnexpectedEOF, "batch conversion")
	if err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if requests[0].priority != "high" {
		t.Fatalf("expected high priority, got %q", requests[0].priority)
	}
	if !strings.Contains(requests[0].body, "batch conversion") {
		t.Fatalf("unexpected body %q", requests[0].body)
	}
}

func TestDisabledCategoriesSendNothing(t *testing.T) {
	var requests []recordedRequest
	server := newRecordingServer(t, &requests)

	cfg := newNtfyConfig(server.URL)
	cfg.Notifications.BatchStarted = false
	cfg.Notifications.BatchFinished = false
	cfg.Notifications.Errors = false

	service := NewService(cfg)
	ctx := context.Background()
	if err := service.NotifyBatchStarted(ctx, 3); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}
	if err := service.NotifyBatchCompleted(ctx, 3, 0, 0, time.Second); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if err := service.NotifyError(ctx, io.ErrUnexpectedEOF, "x"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}

	if len(requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(requests))
	}
}

func TestSendSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	service := NewService(newNtfyConfig(server.URL))
	err := service.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from failing server")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected status code in error, got %v", err)
	}
}
