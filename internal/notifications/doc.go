// Package notifications delivers push notifications about batch progress via
// ntfy. Configuration decides which categories are sent; an unconfigured
// topic yields a silent no-op service so callers never branch on it.
package notifications
