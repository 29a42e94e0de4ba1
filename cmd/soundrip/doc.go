// Command soundrip extracts audio from video files in batches. The convert
// command drives a full conversion session; probe, check, and config are
// supporting utilities.
package main
