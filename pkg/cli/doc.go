// Package cli provides shared helpers for the complie command-line
// interface: terminal progress rendering for export runs, command error
// types, and signal-aware context setup.
package cli
