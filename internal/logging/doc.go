// Package logging provides a unified logging interface for the near-miss
// search application. It abstracts the underlying logging implementation,
// allowing consistent structured logging across components while supporting
// multiple backends (zerolog in production, the standard library logger as a
// fallback).
package logging
