// Package telegram is the thin Bot API transport: a hand-rolled HTTP client
// for the handful of methods the bot uses plus the long-poll loop that feeds
// inbound updates to a handler. It carries no queue semantics; everything here
// is replaceable glue around "receive an event" and "send or edit a message".
package telegram
