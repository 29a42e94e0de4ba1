// Package logging builds the slog loggers used across soundrip: a console
// handler that renders one compact line per record and a JSON handler for
// machine consumption, plus attribute helpers and the standardized field
// names shared by every component.
package logging
