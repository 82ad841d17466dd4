package machine

import "testing"

// Rotor I of the historical machine, notch Q.
const rotorIWiring = "EKMFLGDQVZNTOWYHXUSPAIBRCJ"

func TestRotorEncodeForward(t *testing.T) {
	r := NewRotor(rotorIWiring, 'Q', 0, 0)

	// At neutral position and ring, 'A' enters contact 0 and exits on 'E'.
	if got := r.EncodeForward('A'); got != 'E' {
		t.Errorf("Expected 'A' -> 'E' at neutral state, got %c", got)
	}

	// With the rotor advanced one step the same key hits the next contact.
	r.SetPosition('B')
	if got := r.EncodeForward('A'); got != 'J' {
		t.Errorf("Expected 'A' -> 'J' at position B, got %c", got)
	}
}

func TestRotorEncodeForwardRingSetting(t *testing.T) {
	// Ring setting B shifts the wiring against the rotor body: the
	// historical check is rotor I, ring B, position A, 'A' -> 'K'.
	r := NewRotor(rotorIWiring, 'Q', 1, 0)

	if got := r.EncodeForward('A'); got != 'K' {
		t.Errorf("Expected 'A' -> 'K' with ring setting B, got %c", got)
	}
}

func TestRotorEncodeBackwardInvertsForward(t *testing.T) {
	r := NewRotor(rotorIWiring, 'Q', 3, 7)

	for c := byte('A'); c <= 'Z'; c++ {
		forward := r.EncodeForward(c)
		back := r.EncodeBackward(forward)
		if back != c {
			t.Errorf("Backward pass should invert forward pass: %c -> %c -> %c", c, forward, back)
		}
	}
}

func TestRotorAdvanceReportsNotch(t *testing.T) {
	r := NewRotor(rotorIWiring, 'Q', 0, 0)
	r.SetPosition('P')

	if r.AtNotch() {
		t.Errorf("Rotor at P should not be at notch Q yet")
	}
	if !r.Advance() {
		t.Errorf("Advancing from P should land on notch Q and report it")
	}
	if r.Position() != 'Q' {
		t.Errorf("Expected position Q after advance, got %c", r.Position())
	}
	if r.Advance() {
		t.Errorf("Advancing off the notch should report false")
	}
}

func TestRotorAdvanceWrapsAroundAlphabet(t *testing.T) {
	r := NewRotor(rotorIWiring, 'Q', 0, 0)
	r.SetPosition('Z')

	r.Advance()
	if r.Position() != 'A' {
		t.Errorf("Expected position to wrap Z -> A, got %c", r.Position())
	}
}

func TestRotorSetPositionFoldsCase(t *testing.T) {
	r := NewRotor(rotorIWiring, 'Q', 0, 0)
	r.SetPosition('m')

	if r.Position() != 'M' {
		t.Errorf("Expected lowercase position input to fold to M, got %c", r.Position())
	}
}
