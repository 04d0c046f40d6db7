// Package server wires and runs the application's HTTP transport.
//
// It owns server lifecycle: startup, signal handling, and graceful
// shutdown of the listener and the background workers registered with it.
package server
