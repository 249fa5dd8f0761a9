// Package parser turns indentation-structured script text into the flat
// instruction sequence of package program.
//
// A script is a series of top-level headers, each followed by a block
// indented one unit deeper:
//
//	[hall (The Great Hall)]
//	    You stand in a hall. A [door] leads north.
//	    if visits > 1:
//	        Dust has settled again.
//	    else:
//	        Dust swirls around you.
//	> door:
//	    jump north
//
// Location headers ([name] or [name (Title)]) and action headers (> name:)
// both produce a Label. Inside a block each line is classified against the
// line grammar in a fixed priority order; a line matching nothing is a plain
// sentence. Nested constructs (if/else and menus) recurse one indentation
// level deeper and are flattened into marker instructions that share the
// source line of the opening construct as their block id.
//
// ParseSetup accepts the restricted setup dialect used by one-shot
// initialization scripts.
package parser
