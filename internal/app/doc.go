// Package app contains the core application logic. It wires the settings,
// the region layout and the lookup tables into a parsing pipeline and writes
// its documents, decoupled from any specific entrypoint like a CLI.
package app
