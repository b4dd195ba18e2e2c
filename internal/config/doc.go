// Package config loads skywatch's configuration file.
//
// # Overview
//
// skywatch reads a small TOML file, by default
// ~/.config/skywatch/config.toml:
//
//	api_bind = "127.0.0.1:8000"
//	poll_seconds = 5
//	log_file = "~/.local/share/skywatch/skywatch.log"
//
// All keys are optional. A missing file is not an error; every field falls
// back to its default, so a fresh install works against a local backend
// with zero setup. Paths support ~ expansion and are resolved to absolute
// form at load time.
//
// Command-line flags (see cmd/skywatch) override the file values.
package config
