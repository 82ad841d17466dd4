package machine

// Plugboard is the symmetric letter-pair swap applied at signal entry and
// exit. Unplugged letters map to themselves.
type Plugboard struct {
	connections map[byte]byte
}

// NewPlugboard builds a plugboard from 2-letter pair strings. Pairs that are
// not exactly two characters are skipped; intake validation is the
// configuration layer's job, construction never fails.
func NewPlugboard(pairs []string) Plugboard {
	connections := make(map[byte]byte)
	for _, pair := range pairs {
		if len(pair) != 2 {
			continue
		}
		first := upper(pair[0])
		second := upper(pair[1])
		connections[first] = second
		connections[second] = first
	}
	return Plugboard{connections: connections}
}

// Swap returns the plugged partner of a letter, or the letter itself when
// unplugged. The mapping is its own inverse.
func (p *Plugboard) Swap(input byte) byte {
	c := upper(input)
	if partner, ok := p.connections[c]; ok {
		return partner
	}
	return c
}
