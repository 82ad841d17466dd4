// Package machine implements the rotor cipher engine: an ordered rotor
// stack, a reflector and a plugboard, driven by the double-stepping
// advancement mechanism.
//
// ARCHITECTURAL RULE: this package is PURE domain and must NOT import any
// infrastructure packages (network, events, storage, platform). The engine
// holds all state in memory, does no I/O and uses no locking; callers that
// share a Machine across goroutines must serialize access themselves.
package machine

import "strings"

// Machine is a configured cipher engine. Configuration is immutable after
// construction; rotor positions are the only state that changes, and they
// advance one-directionally with every enciphered letter. "Reset" means
// either ResetPositions or constructing a fresh Machine.
type Machine struct {
	rotors    []Rotor
	reflector Reflector
	plugboard Plugboard
}

// New constructs a machine from raw configuration. Ring settings and initial
// positions are space-separated single letters in rotor array order; missing
// trailing tokens default to 'A'. Wiring strings are not validated as true
// permutations; that is the intake layer's concern.
func New(rotorWirings []string, notches []byte, reflectorWiring string,
	ringSettings, initialPositions string, plugboardPairs []string) *Machine {

	ringParts := strings.Fields(ringSettings)
	posParts := strings.Fields(initialPositions)

	rotors := make([]Rotor, len(rotorWirings))
	for i, wiring := range rotorWirings {
		ring := 0
		if i < len(ringParts) {
			ring = letterIndex(ringParts[i][0])
		}
		pos := 0
		if i < len(posParts) {
			pos = letterIndex(posParts[i][0])
		}
		rotors[i] = NewRotor(wiring, notches[i], ring, pos)
	}

	return &Machine{
		rotors:    rotors,
		reflector: NewReflector(reflectorWiring),
		plugboard: NewPlugboard(plugboardPairs),
	}
}

// Encipher runs text through the machine. Letters are uppercased, stepped
// and substituted; digits, spaces and every other non-letter byte are copied
// through unchanged and never touch rotor state.
func (m *Machine) Encipher(input string) string {
	var result strings.Builder
	result.Grow(len(input))

	for i := 0; i < len(input); i++ {
		c := input[i]
		if isLetter(c) {
			result.WriteByte(m.encipherLetter(upper(c)))
		} else {
			result.WriteByte(c)
		}
	}

	return result.String()
}

// encipherLetter steps the rotors, then runs the full signal path:
// plugboard, rotors right-to-left, reflector, rotors left-to-right,
// plugboard again.
func (m *Machine) encipherLetter(input byte) byte {
	m.step()

	current := m.plugboard.Swap(input)

	for i := len(m.rotors) - 1; i >= 0; i-- {
		current = m.rotors[i].EncodeForward(current)
	}

	current = m.reflector.Reflect(current)

	for i := 0; i < len(m.rotors); i++ {
		current = m.rotors[i].EncodeBackward(current)
	}

	return m.plugboard.Swap(current)
}

// step advances the rotor stack for one keypress. All advance flags are
// computed from the pre-advance notch snapshot before any rotor moves, so a
// rotor's new position can never influence decisions within the same
// keypress.
func (m *Machine) step() {
	n := len(m.rotors)
	if n < 1 {
		return
	}

	shouldAdvance := make([]bool, n)

	// The rightmost rotor always advances.
	shouldAdvance[n-1] = true

	for i := n - 2; i >= 0; i-- {
		if m.rotors[i+1].AtNotch() {
			shouldAdvance[i] = true
			// Double-step: a rotor at its notch that pushes its left
			// neighbor also steps itself.
			if i < n-1 {
				shouldAdvance[i+1] = true
			}
		}
	}

	for i := 0; i < n; i++ {
		if shouldAdvance[i] {
			m.rotors[i].Advance()
		}
	}
}

// Positions returns the current rotor window letters, space-joined in rotor
// array order (leftmost first).
func (m *Machine) Positions() string {
	var positions strings.Builder
	for i := range m.rotors {
		if i > 0 {
			positions.WriteByte(' ')
		}
		positions.WriteByte(m.rotors[i].Position())
	}
	return positions.String()
}

// ResetPositions overwrites rotor positions from a space-separated letter
// sequence in rotor array order. Tokens beyond the rotor count are dropped;
// missing trailing tokens leave those rotors untouched.
func (m *Machine) ResetPositions(positions string) {
	parts := strings.Fields(positions)
	for i := 0; i < len(m.rotors) && i < len(parts); i++ {
		if len(parts[i]) > 0 {
			m.rotors[i].SetPosition(parts[i][0])
		}
	}
}

// RotorCount returns the number of rotors in the stack.
func (m *Machine) RotorCount() int {
	return len(m.rotors)
}
