// Package preflight validates the environment before a batch starts: output
// directory access and external toolchain availability.
package preflight
