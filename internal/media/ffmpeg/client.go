package ffmpeg

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// ProgressUpdate captures ffmpeg progress events for one extraction.
type ProgressUpdate struct {
	Percent float64
	Message string
}

// Request describes a single audio extraction.
type Request struct {
	InputPath  string
	OutputPath string
	Codec      string
	Bitrate    string
	// DurationSeconds is the input's container duration, used to turn
	// ffmpeg's out_time counters into percentages. Zero disables percentages.
	DurationSeconds float64
}

// Extractor defines audio extraction behaviour.
type Extractor interface {
	Extract(ctx context.Context, req Request, progress func(ProgressUpdate)) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Extract strips the video stream from the input and writes an audio-only
// file to req.OutputPath, overwriting any existing file there. Progress is
// streamed through the optional callback.
func (c *CLI) Extract(ctx context.Context, req Request, progress func(ProgressUpdate)) error {
	if strings.TrimSpace(req.InputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return errors.New("output path required")
	}
	codec := strings.TrimSpace(req.Codec)
	if codec == "" {
		codec = "libmp3lame"
	}
	bitrate := strings.TrimSpace(req.Bitrate)
	if bitrate == "" {
		bitrate = "192k"
	}

	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", req.InputPath,
		"-vn",
		"-acodec", codec,
		"-b:a", bitrate,
		"-progress", "pipe:1",
		req.OutputPath,
	}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := parseProgressLine(scanner.Text(), req.DurationSeconds)
		if !ok {
			continue
		}
		if progress != nil {
			progress(update)
		}
	}
	if err := scanner.Err(); err != nil {
		_ = cmd.Wait()
		return fmt.Errorf("read ffmpeg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return fmt.Errorf("ffmpeg extract failed: %w: %s", err, lastLine(detail))
		}
		return fmt.Errorf("ffmpeg extract failed: %w", err)
	}
	return nil
}

// parseProgressLine interprets one key=value line of `-progress pipe:1`
// output. out_time_us counts elapsed input microseconds; progress=end marks
// the final flush.
func parseProgressLine(line string, durationSeconds float64) (ProgressUpdate, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return ProgressUpdate{}, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || us < 0 || durationSeconds <= 0 {
			return ProgressUpdate{}, false
		}
		percent := float64(us) / 1e6 / durationSeconds * 100
		if percent > 100 {
			percent = 100
		}
		return ProgressUpdate{Percent: percent}, true
	case "progress":
		if strings.TrimSpace(value) == "end" {
			return ProgressUpdate{Percent: 100, Message: "finished"}, true
		}
		return ProgressUpdate{}, false
	default:
		return ProgressUpdate{}, false
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

var _ Extractor = (*CLI)(nil)
