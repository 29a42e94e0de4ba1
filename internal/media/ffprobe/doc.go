// Package ffprobe wraps the ffprobe CLI for media inspection. The batch
// runner uses it to detect missing audio tracks before extraction and to
// obtain container durations for progress reporting.
package ffprobe
