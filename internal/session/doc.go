// Package session keeps one equation system live while its text and inputs
// change.
//
// A Session owns a single goroutine. Text updates are debounced: only the
// latest text seen within the debounce window is parsed and compiled. Input
// updates are applied at once. Every update ends in a fresh solve whose
// Snapshot is handed to a Sink. When new text fails to parse, the previous
// program stays in place and is solved again, and the snapshot carries the
// parse error.
package session
