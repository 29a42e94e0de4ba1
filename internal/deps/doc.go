// Package deps reports the availability of the external binaries soundrip
// delegates conversion work to.
package deps
