package machine

import "testing"

const reflectorBWiring = "YRUHQSLDPXNGOKMIEBFZCWVJAT"

func TestReflectorInvolution(t *testing.T) {
	r := NewReflector(reflectorBWiring)

	for c := byte('A'); c <= 'Z'; c++ {
		reflected := r.Reflect(c)
		if r.Reflect(reflected) != c {
			t.Errorf("Reflector must be its own inverse: %c -> %c -> %c", c, reflected, r.Reflect(reflected))
		}
		if reflected == c {
			t.Errorf("Reflector must not map %c to itself", c)
		}
	}
}

func TestPlugboardSwapPair(t *testing.T) {
	p := NewPlugboard([]string{"AT"})

	if got := p.Swap('A'); got != 'T' {
		t.Errorf("Expected swap('A') == 'T', got %c", got)
	}
	if got := p.Swap('T'); got != 'A' {
		t.Errorf("Expected swap('T') == 'A', got %c", got)
	}

	// Every unplugged letter maps to itself.
	for c := byte('B'); c <= 'Z'; c++ {
		if c == 'T' {
			continue
		}
		if got := p.Swap(c); got != c {
			t.Errorf("Unplugged letter %c should map to itself, got %c", c, got)
		}
	}
}

func TestPlugboardInvolution(t *testing.T) {
	p := NewPlugboard([]string{"AT", "BS", "DE"})

	for c := byte('A'); c <= 'Z'; c++ {
		if p.Swap(p.Swap(c)) != c {
			t.Errorf("Plugboard must be its own inverse at %c", c)
		}
	}
}

func TestPlugboardSkipsMalformedPairs(t *testing.T) {
	// Pairs that are not exactly two letters are ignored, not an error.
	p := NewPlugboard([]string{"XYZ", "", "Q", "at"})

	if got := p.Swap('X'); got != 'X' {
		t.Errorf("Malformed pair should be skipped, but X maps to %c", got)
	}
	// The lowercase pair is valid after case folding.
	if got := p.Swap('A'); got != 'T' {
		t.Errorf("Lowercase pair should fold to A<->T, got %c", got)
	}
}
