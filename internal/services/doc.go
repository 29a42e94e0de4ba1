// Package services defines shared utilities consumed by the batch runner and
// external integrations: context helpers that stamp batch identifiers and file
// names for logging, plus structured error markers and the Wrap helper that
// keep failure classification uniform across components.
package services
