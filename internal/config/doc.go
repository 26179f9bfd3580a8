// Package config loads the YAML bootstrap configuration for the
// deepracer-config binary: logging settings, the sync client's timing,
// and the server's initial environment (area, track, agents).
//
// Environment variables in ${VAR_NAME} form are expanded before parsing,
// and duration fields accept Go duration strings ("10s", "1m30s").
package config
