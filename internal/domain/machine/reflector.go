package machine

import "strings"

// Reflector is the fixed involutive permutation at the left end of the rotor
// stack. Real reflectors never map a letter to itself; the machine does not
// enforce that, but the reciprocal cipher property depends on it.
type Reflector struct {
	wiring string
}

// NewReflector builds a reflector from a 26-letter wiring string.
func NewReflector(wiring string) Reflector {
	return Reflector{wiring: strings.ToUpper(wiring)}
}

// Reflect maps a letter through the reflector. Pure table lookup.
func (r *Reflector) Reflect(input byte) byte {
	return r.wiring[letterIndex(input)]
}
