// Package ffmpeg wraps the ffmpeg CLI as the audio extraction primitive. The
// batch runner treats it as an opaque capability behind the Extractor
// interface; any implementation that can turn a video file into an audio-only
// file satisfies the contract.
package ffmpeg
