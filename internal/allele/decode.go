package allele

// Decode parses one REF or ALT column value into its typed allele.
// isRef tags the result as the reference allele, which is only legal for
// inline base sequences.
//
// Decode is the exact inverse of Allele.String for every value it
// accepts. Well-known symbolic IDs come back interned from the default
// registry.
func Decode(encoding []byte, isRef bool) (Allele, error) {
	return DecodeWithRegistry(encoding, isRef, DefaultRegistry())
}

// DecodeString is Decode over a string encoding.
func DecodeString(encoding string, isRef bool) (Allele, error) {
	return Decode([]byte(encoding), isRef)
}

// DecodeWithRegistry is Decode with an explicit symbolic-allele registry,
// for callers that cannot share the process-wide one.
func DecodeWithRegistry(encoding []byte, isRef bool, reg *Registry) (Allele, error) {
	switch len(encoding) {
	case 0:
		return nil, errEmptyEncoding()
	case 1:
		return decodeSingleByte(encoding[0], isRef)
	}

	if AreValidBases(encoding) {
		return NewInline(encoding, isRef)
	}

	var result Allele
	var err error
	switch {
	case encoding[0] == '<':
		result, err = decodeSymbolic(encoding, reg)
	case looksLikeBreakend(encoding):
		result, err = DecodeBreakend(encoding)
	case encoding[len(encoding)-1] == '>':
		result, err = decodeContigInsertion(encoding)
	default:
		return nil, encodingErrorf(string(encoding), "unrecognized allele encoding")
	}
	if err != nil {
		return nil, err
	}
	if isRef {
		return nil, errCannotBeReference(string(encoding))
	}
	return result, nil
}

// decodeSingleByte is the fast path for the five base codes plus the two
// marker alleles.
func decodeSingleByte(b byte, isRef bool) (Allele, error) {
	if IsValidBase(b) {
		return internedSingleBase(b, isRef)
	}
	switch b {
	case '.':
		if isRef {
			return nil, errCannotBeReference(".")
		}
		return NoCall, nil
	case '*':
		if isRef {
			return nil, errCannotBeReference("*")
		}
		return SpanDel, nil
	default:
		return nil, encodingErrorf(string(b), "invalid allele byte")
	}
}

// decodeSymbolic handles encodings starting with '<'. The registry is
// consulted first so well-known symbolics, <*> and <NON_REF> included,
// come back interned.
func decodeSymbolic(enc []byte, reg *Registry) (Allele, error) {
	if enc[len(enc)-1] != '>' {
		return nil, encodingErrorf(string(enc), "opening '<' is never closed")
	}
	id := string(enc[1 : len(enc)-1])
	if a := reg.Lookup(id); a != nil {
		return a, nil
	}
	return NewSymbolic(id)
}

// decodeContigInsertion handles bases<contig> encodings: does not start
// with '<' but ends with '>'.
func decodeContigInsertion(enc []byte) (Allele, error) {
	if len(enc) < 3 {
		return nil, encodingErrorf(string(enc), "contig insertion encoding too short")
	}
	open := -1
	for i := 1; i < len(enc); i++ {
		if enc[i] == '<' {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, encodingErrorf(string(enc), "missing '<' before inserted contig name")
	}
	return NewContigInsertion(enc[:open], string(enc[open+1:len(enc)-1]))
}
