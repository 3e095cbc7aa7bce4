// Package config loads the run settings: which region to parse, where its
// layout manifest and lookup tables live, and how to log.
//
// Settings come from, in increasing priority: built-in defaults, an optional
// tosparser.yaml, TOSPARSER_* environment variables, and command-line flags
// bound onto the same viper instance.
package config
