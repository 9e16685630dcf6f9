package bit

// Combine joins a high and a low byte into a 16 bit word.
func Combine(high, low uint8) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// High returns the most significant byte of a word.
func High(value uint16) uint8 {
	return uint8(value >> 8)
}

// Low returns the least significant byte of a word.
func Low(value uint16) uint8 {
	return uint8(value)
}

// IsSet reports whether the bit at index is 1.
func IsSet(index, value uint8) bool {
	return (value>>index)&1 == 1
}

// Set returns value with the bit at index set to 1.
func Set(index, value uint8) uint8 {
	return value | 1<<index
}

// Clear returns value with the bit at index set to 0.
func Clear(index, value uint8) uint8 {
	return value &^ (1 << index)
}

// SetTo sets or clears the bit at index depending on cond.
func SetTo(index, value uint8, cond bool) uint8 {
	if cond {
		return Set(index, value)
	}
	return Clear(index, value)
}

// Value returns the bit at index as 0 or 1.
func Value(index, value uint8) uint8 {
	return (value >> index) & 1
}

// Extract returns bits high..low (inclusive) shifted down to bit 0.
// Extract(0b11010110, 6, 4) == 0b101
func Extract(value uint8, high, low uint8) uint8 {
	width := high - low + 1
	return (value >> low) & uint8(1<<width-1)
}
