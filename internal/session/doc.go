// Package session coordinates a conversion batch end to end: it holds the
// queued inputs and output directory, guards the output directory with a file
// lock, records every file's journey in the run ledger, and relays runner
// events to the caller once they have been applied.
package session
