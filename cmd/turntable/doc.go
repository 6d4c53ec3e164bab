// Command turntable is the operator CLI for the turntable daemon. It talks to
// a running turntabled over the IPC socket and also hosts the foreground
// `daemon run` mode.
package main
