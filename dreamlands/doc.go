// Package dreamlands reads and writes DREAMLANDS documents.
//
// DREAMLANDS is an indentation-based, typed text format. Every line holds one
// key, a separator and an optional value; leading tabs give the nesting depth.
// A line without a value declares a parent whose children follow one tab
// deeper. The key "-" marks list elements. Values are booleans, integers,
// floats, single characters between single quotes and strings between double
// quotes. A line starting with ">" imports another file in place.
//
//	#!/usr/bin/dreamlands
//	device:
//		name:"Phone"
//		battery:4000.0
//		flags:
//			-:true
//			-:false
//	>common.dl
//
// Reading goes through four stages:
//
//   - Lexer: splits source text into one Record per line, handling comments,
//     character and string literals and escape sequences.
//   - Field parser: turns each Record into an Instruction (depth, key and
//     value, or an import directive).
//   - Import expansion: replaces import directives with the instructions of
//     the referenced files, rejecting cyclic imports.
//   - Tree builder: folds the flat, depth-annotated instructions into nested
//     values.
//
// Documents decode to *Map (ordered) or []any at the root, with bool, int64,
// float64, Char and string scalars. The Encoder performs the inverse
// rendering; comments and blank lines are not preserved.
//
// Usage:
//
//	value, err := dreamlands.Read("device.dl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	text, err := dreamlands.ToText(value)
package dreamlands
