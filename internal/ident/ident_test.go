package ident

import (
	"testing"
)

func TestGeneratorDefaults(t *testing.T) {
	gen := NewGenerator(0)

	if gen.KeyLength() != DefaultKeyLength {
		t.Errorf("expected key length %d, got %d", DefaultKeyLength, gen.KeyLength())
	}
}

func TestGeneratorNew(t *testing.T) {
	gen := NewGenerator(4)

	id := gen.New()
	if len(id) != CanonicalLength {
		t.Errorf("expected identifier length %d, got %d (%s)", CanonicalLength, len(id), id)
	}

	other := gen.New()
	if id == other {
		t.Error("expected distinct identifiers on successive calls")
	}
}

func TestGeneratorPair(t *testing.T) {
	gen := NewGenerator(4)

	key, value := gen.Pair()

	if len(key) != 4 {
		t.Errorf("expected key length 4, got %d (%s)", len(key), key)
	}
	if len(value) != CanonicalLength {
		t.Errorf("expected value length %d, got %d", CanonicalLength, len(value))
	}
	if value[:4] != key {
		t.Errorf("expected key to be prefix of value: key=%s value=%s", key, value)
	}
}

func TestGeneratorKey(t *testing.T) {
	gen := NewGenerator(4)

	for i := 0; i < 100; i++ {
		if k := gen.Key(); len(k) != 4 {
			t.Fatalf("expected key length 4, got %d (%s)", len(k), k)
		}
	}
}

func TestGeneratorWithSource(t *testing.T) {
	const fixed = "1234abcd-0000-0000-0000-000000000000"
	gen := NewGeneratorWithSource(4, func() string { return fixed })

	key, value := gen.Pair()
	if key != "1234" {
		t.Errorf("expected key '1234', got '%s'", key)
	}
	if value != fixed {
		t.Errorf("expected value '%s', got '%s'", fixed, value)
	}
}

func TestShortKeyShorterThanLength(t *testing.T) {
	gen := NewGeneratorWithSource(8, func() string { return "abc" })

	if k := gen.Key(); k != "abc" {
		t.Errorf("expected full identifier when shorter than key length, got '%s'", k)
	}
}

func TestKeyDistribution(t *testing.T) {
	// Keys should be approximately uniform over their leading hex character.
	// UUIDv4 prefixes are uniformly random, so each of the 16 hex digits
	// should receive roughly 1/16 of the draws.
	gen := NewGenerator(4)

	const draws = 100000
	counts := make(map[byte]int)
	for i := 0; i < draws; i++ {
		counts[gen.Key()[0]]++
	}

	if len(counts) != 16 {
		t.Fatalf("expected 16 distinct leading hex digits, got %d", len(counts))
	}

	expected := draws / 16
	for c, n := range counts {
		// 30% tolerance is far beyond expected sampling noise at this size.
		if n < expected*7/10 || n > expected*13/10 {
			t.Errorf("leading digit %q count %d deviates from expected %d", c, n, expected)
		}
	}
}
