package didlog

// Calls to all functions below this point should be inlined by the go compiler
// See output of `go build -gcflags -m` to confirm

// Returns true if a byte is not allowed in a ID from the grammar:
//   idchar = ALPHA / DIGIT / "." / "-"
func isNotValidIDChar(char byte) bool {
	return isNotAlpha(char) && isNotDigit(char) && char != '.' && char != '-'
}

// Returns true if a byte is not a digit between 0-9 in US-ASCII
// https://tools.ietf.org/html/rfc5234#appendix-B.1
func isNotDigit(char byte) bool {
	// '\x30' is digit 0, '\x39' is digit 9
	return char < '\x30' || char > '\x39'
}

// Returns true if a byte is not a big letter between A-Z or small letter between a-z
// https://tools.ietf.org/html/rfc5234#appendix-B.1
func isNotAlpha(char byte) bool {
	return isNotSmallLetter(char) && isNotBigLetter(char)
}

// Returns true if a byte is not a big letter between A-Z in US-ASCII
// https://tools.ietf.org/html/rfc5234#appendix-B.1
func isNotBigLetter(char byte) bool {
	// '\x41' is big letter A, '\x5A' big letter Z
	return char < '\x41' || char > '\x5A'
}

// Returns true if a byte is not a small letter between a-z in US-ASCII
// https://tools.ietf.org/html/rfc5234#appendix-B.1
func isNotSmallLetter(char byte) bool {
	// '\x61' is small letter a, '\x7A' small letter z
	return char < '\x61' || char > '\x7A'
}
