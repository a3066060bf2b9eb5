// Package preflight provides readiness checks for the files and services
// reelwrap depends on.
//
// RunAll covers the local filesystem only and runs before every wrap so a
// missing diary or an unwritable cache directory halts the run before any
// network activity. CheckTMDB is used by the status command to report API
// reachability.
package preflight
