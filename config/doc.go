// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// A missing file yields the documented defaults; selected environment
// variables override file values.
package config
