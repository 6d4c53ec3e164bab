// Package ipc links the CLI to the daemon over JSON-RPC on a Unix domain
// socket. The server wraps daemon operations; the client provides typed call
// helpers for the CLI commands.
package ipc
