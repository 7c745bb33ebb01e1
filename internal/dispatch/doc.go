// Package dispatch routes selected work items to the handler for their
// action kind and turns each handler result into a run outcome.
//
// Handlers reach the site through three small capabilities, PageCreator,
// PageOptimizer and IssueFixer, so the Dispatcher can be exercised without
// side effects. Every invocation runs under its own timeout. A failing,
// timed-out or panicking handler yields a failed Outcome; Dispatch itself
// never returns an error or panics.
package dispatch
