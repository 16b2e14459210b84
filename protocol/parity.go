package protocol

// parityFolds are the shift widths used to fold a 16-bit word down to one bit.
var parityFolds = [...]uint{8, 4, 2, 1}

// oddParity reports whether word has an odd number of set bits.
//
// The word is folded by XOR-ing its upper half onto its lower half until a
// single bit remains.
func oddParity(word uint16) bool {
	x := word
	for _, shift := range parityFolds {
		x = (x & (1<<shift - 1)) ^ (x >> shift)
	}
	return x == 1
}

// setParity sets ParityBit so the command word carries an even number of
// set bits. The parity is computed over bits 0-14; bit 15 must be clear on
// entry.
func setParity(word uint16) uint16 {
	if oddParity(word) {
		return word | ParityBit
	}
	return word
}

// EvenParity reports whether a 16-bit word, parity bit included, has an even
// number of set bits. Every well-formed command and response word does.
func EvenParity(word uint16) bool {
	return !oddParity(word)
}
