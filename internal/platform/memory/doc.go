// Package memory provides an in-memory implementation of domain.Platform.
//
// It models just enough of a chat platform for the relay services to run
// against: a forum channel holding threads, direct-message channels per user,
// and message history. All state is held in memory and lost when the value is
// dropped. Failures can be injected per user, channel or thread so tests can
// exercise the delivery-failure and not-found paths.
//
// History is returned newest first, the way most chat APIs page, so callers
// must sort it themselves.
package memory
