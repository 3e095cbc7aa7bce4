// Package ies reads the game client's IES tables after they have been
// exported to delimited text. Each table is a header row followed by data
// rows; every data row is exposed as a Record keyed by column header.
//
// A Source never holds an open file between calls: each call to Records
// opens the file, streams it, and closes it when iteration ends.
package ies
