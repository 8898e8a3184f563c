// Package app wires configuration, logging, the holiday loader, the
// settlement engine, and the HTTP transport into a runnable server.
package app
