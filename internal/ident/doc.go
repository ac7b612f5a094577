// Package ident generates identifiers and short keys for load traffic.
//
// Each identifier is a fresh UUIDv4 in its canonical 36-character hyphenated
// form. A short key is the leading prefix of an identifier, truncated to a
// configurable length (4 by default). The truncation deliberately shrinks the
// key space so that reads issued by one simulated user have a realistic chance
// of hitting keys written by another.
//
// # Basic Usage
//
//	gen := ident.NewGenerator(4)
//
//	key, value := gen.Pair() // key = value[:4], value = full UUID
//	readKey := gen.Key()     // 4-character key for a read
//
// The identifier source can be replaced for deterministic tests:
//
//	gen := ident.NewGeneratorWithSource(4, func() string {
//	    return "1234abcd-0000-0000-0000-000000000000"
//	})
package ident
