// Package http contains the chi HTTP handlers exposing the settlement
// engine: trade resolution, calendar lookups, holiday data, and health.
package http
