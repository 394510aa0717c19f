// Package orchestrator wires document parsing, configuration lookup and
// editor binding into a single entry point. An Orchestrator opens a Session
// over one HTML document; the session binds a rows.Editor to every repeatable
// region it finds and exposes positional add, remove and move operations
// for hosts that drive the editors without a browser.
package orchestrator
