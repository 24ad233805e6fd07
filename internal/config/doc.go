// Package config loads, validates, and persists the swr TOML configuration.
package config
