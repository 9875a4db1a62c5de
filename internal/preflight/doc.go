// Package preflight verifies the runtime environment before a run:
// engine binary availability, directory permissions, and free space.
package preflight
