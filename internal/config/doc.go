// Package config loads application configuration from an optional .env file,
// an optional YAML file and ASAHI_-prefixed environment variables, and
// validates the result.
package config
