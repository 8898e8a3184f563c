// Package config loads application configuration from environment variables
// (prefix LME) layered over an optional YAML file.
package config
