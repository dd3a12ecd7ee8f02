// Package config provides configuration structures and utilities for wordcrawl.
// It defines the document source settings, query defaults, server settings
// and report preferences, and loads them from a YAML file.
package config
