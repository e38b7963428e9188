// Package session walks a learner through their quiz items one at a time.
//
// A Session is a plain value. Every operation takes the current session and
// returns the next one, so the caller decides where session state lives and
// when it is persisted.
package session
