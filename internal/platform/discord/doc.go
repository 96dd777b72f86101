// Package discord implements domain.Platform on top of discordgo and routes
// gateway events to the modmail services.
//
// Client covers the REST side: channel lookups, forum posts, messages with
// re-uploaded attachments, pins, thread deletion and DM channels. Failures
// are classified into domain errors at the call site:
//   - HTTP 404 or "unknown channel" becomes KindNotFound;
//   - "cannot send messages to this user" becomes KindDelivery.
//
// Router covers the gateway side. Each event is handled on its own goroutine
// (discordgo dispatches handlers concurrently) under a context with a
// per-event timeout and a correlation ID in its logger.
package discord
