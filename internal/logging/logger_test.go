package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"soundrip/internal/services"
)

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger = NewComponentLogger(logger, "batch")
	logger.Info("file converted", String(FieldFile, "movie.mp4"), Int("index", 2))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO batch: file converted") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "file=movie.mp4") || !strings.Contains(line, "index=2") {
		t.Fatalf("expected attrs in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Error("conversion failed", Error(errors.New("no audio track")))

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, `error="no audio track"`) {
		t.Fatalf("expected quoted error value, got %q", line)
	}
	if !strings.Contains(line, " ERROR ") {
		t.Fatalf("expected ERROR level label, got %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("suppressed")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Fatalf("info record should be suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("batch started", String(FieldBatchID, "b-1"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("parse json record: %v (%q)", err, buf.String())
	}
	if record["msg"] != "batch started" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record["level"] != "info" {
		t.Fatalf("unexpected level: %v", record["level"])
	}
	if record[FieldBatchID] != "b-1" {
		t.Fatalf("unexpected batch id: %v", record[FieldBatchID])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatal("expected ts field in json record")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writers: []io.Writer{&buf}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithBatchID(context.Background(), "b-2")
	ctx = services.WithFile(ctx, "clip.mp4")
	WithContext(ctx, logger).Info("progress")

	line := buf.String()
	if !strings.Contains(line, "batch_id=b-2") || !strings.Contains(line, "file=clip.mp4") {
		t.Fatalf("expected context fields in line: %q", line)
	}
}
