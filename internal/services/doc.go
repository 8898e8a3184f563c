// Package services contains the application services sitting between HTTP
// transport and the settlement engine: batch trade resolution with metrics
// and logging, and health reporting.
package services
