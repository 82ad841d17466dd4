package machine

import "strings"

// Rotor models a single wired rotor: a fixed substitution permutation, a
// notch letter, a ring setting and a mutable rotational position. Position
// is the only field that changes after construction.
type Rotor struct {
	wiring      string
	notch       byte
	ringSetting int
	position    int
}

// NewRotor builds a rotor from a 26-letter wiring permutation. Ring setting
// and initial position are alphabet offsets (0-25); both are normalized
// modulo 26.
func NewRotor(wiring string, notch byte, ringSetting, initialPosition int) Rotor {
	return Rotor{
		wiring:      strings.ToUpper(wiring),
		notch:       upper(notch),
		ringSetting: ((ringSetting % 26) + 26) % 26,
		position:    ((initialPosition % 26) + 26) % 26,
	}
}

// EncodeForward passes a signal through the rotor right-to-left: the entry
// contact is shifted by the current position relative to the ring, mapped
// through the wiring, and shifted back out.
func (r *Rotor) EncodeForward(input byte) byte {
	offset := (letterIndex(input) + r.position - r.ringSetting + 26) % 26
	encoded := r.wiring[offset]
	return indexLetter((letterIndex(encoded) - r.position + r.ringSetting + 26) % 26)
}

// EncodeBackward passes the reflected signal through the rotor left-to-right.
// The inverse mapping is the letter's index within the wiring string.
func (r *Rotor) EncodeBackward(input byte) byte {
	adjusted := (letterIndex(input) + r.position - r.ringSetting + 26) % 26
	wiringIndex := strings.IndexByte(r.wiring, indexLetter(adjusted))
	return indexLetter((wiringIndex - r.position + r.ringSetting + 26) % 26)
}

// Advance rotates the rotor one step and reports whether it now sits at its
// notch, so the stepping logic can chain decisions.
func (r *Rotor) Advance() bool {
	r.position = (r.position + 1) % 26
	return r.AtNotch()
}

// AtNotch reports whether the rotor's visible position equals its notch letter.
func (r *Rotor) AtNotch() bool {
	return indexLetter(r.position) == r.notch
}

// Position returns the rotor's visible position as a letter.
func (r *Rotor) Position() byte {
	return indexLetter(r.position)
}

// SetPosition overwrites the rotor position directly. Used by resets; no
// validation beyond case folding.
func (r *Rotor) SetPosition(pos byte) {
	r.position = letterIndex(pos)
}
