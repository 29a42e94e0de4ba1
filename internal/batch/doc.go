// Package batch runs a conversion job over its inputs one file at a time and
// publishes every observable step as an event. Cancellation is cooperative
// and takes effect only between files, so the file in flight always reaches a
// result before the job stops.
package batch
