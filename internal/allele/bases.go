package allele

const maxPrintASCII = 126 // '~'

// Lookup tables over printable ASCII. A position is true if that byte is
// acceptable in the corresponding context.
var (
	validBases           [maxPrintASCII + 1]bool
	validContigIDChars   [maxPrintASCII + 1]bool
	validSymbolicIDChars [maxPrintASCII + 1]bool
)

func init() {
	for _, b := range []byte("aAcCgGtTnN") {
		validBases[b] = true
	}
	for b := byte('!'); b <= maxPrintASCII; b++ {
		validContigIDChars[b] = true
		validSymbolicIDChars[b] = true
	}
	for _, b := range []byte(`\,"()'` + "`" + `[]{}<>`) {
		validContigIDChars[b] = false
	}
	validSymbolicIDChars['<'] = false
	validSymbolicIDChars['>'] = false
}

// IsValidBase reports whether b is an acceptable inline base character
// (a, c, g, t, n, upper or lower case).
func IsValidBase(b byte) bool {
	return b <= maxPrintASCII && validBases[b]
}

// AreValidBases reports whether every byte of bases is a valid base
// character. An empty slice is valid.
func AreValidBases(bases []byte) bool {
	for _, b := range bases {
		if !IsValidBase(b) {
			return false
		}
	}
	return true
}

// IsValidContigID reports whether id can name a breakend mate contig.
// Brackets, quotes, commas and backslashes are forbidden everywhere;
// '*' and '=' are additionally forbidden in the first position.
func IsValidContigID(id string) bool {
	if id == "" {
		return false
	}
	first := id[0]
	if first > maxPrintASCII || !validContigIDChars[first] || first == '*' || first == '=' {
		return false
	}
	for i := 1; i < len(id); i++ {
		c := id[i]
		if c > maxPrintASCII || !validContigIDChars[c] {
			return false
		}
	}
	return true
}

// IsValidSymbolicID reports whether id can appear between angle brackets
// as a symbolic allele name.
func IsValidSymbolicID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c > maxPrintASCII || !validSymbolicIDChars[c] {
			return false
		}
	}
	return true
}

// basesEqual compares two base sequences case-insensitively, since bases
// carry no meaning in their case.
func basesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if upperBase(a[i]) != upperBase(b[i]) {
			return false
		}
	}
	return true
}

func upperBase(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
