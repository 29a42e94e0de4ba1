// Package fileutil provides small filename helpers shared by the session and
// batch packages: stem extraction, output-name derivation, and input
// deduplication.
package fileutil
