// Package orchestration coordinates the execution of a near-miss search: it
// starts the core enumeration (sequential or partitioned across workers),
// fans progress and improvement events out to a presentation-layer reporter,
// and turns the outcome into an exit code.
//
// The package deliberately knows nothing about terminals, spinners, or JSON:
// presentation is injected through the ProgressReporter and ResultPresenter
// interfaces so the same orchestration drives the CLI, the TUI dashboard,
// and the HTTP server.
package orchestration
