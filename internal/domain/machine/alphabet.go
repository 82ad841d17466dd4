package machine

// letterIndex maps an ASCII letter to its alphabet offset (A=0..Z=25).
// Lowercase input is folded to uppercase.
func letterIndex(c byte) int {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return int(c - 'A')
}

// indexLetter maps an alphabet offset back to an uppercase letter.
// The offset is taken modulo 26.
func indexLetter(i int) byte {
	return byte('A' + (i % 26))
}

// isLetter reports whether c is an ASCII letter. Only letters enter the
// cipher path; everything else passes through without stepping the rotors.
func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// upper folds an ASCII letter to uppercase.
func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
