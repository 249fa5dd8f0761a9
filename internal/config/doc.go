// Package config defines the format-agnostic project model: where the
// scripts are, how they are parsed and run, where saves go and how the game
// is served. The Loader interface reads it from a concrete format; the HCL
// implementation lives in internal/hcl.
package config
