// Package config defines the format-agnostic workspace model: a list of named
// equation systems with their input bindings, plus the Loader interface that
// concrete formats (see package hcl) implement.
package config
