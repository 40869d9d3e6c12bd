package allele

import "fmt"

// EncodingError reports a malformed allele encoding. Decoding is all or
// nothing: no partial allele is ever returned alongside an EncodingError.
type EncodingError struct {
	Encoding string // the offending input, verbatim
	Message  string
}

func (e *EncodingError) Error() string {
	if e.Encoding == "" {
		return fmt.Sprintf("allele encoding error: %s", e.Message)
	}
	return fmt.Sprintf("allele encoding error in %q: %s", e.Encoding, e.Message)
}

func encodingErrorf(encoding, format string, args ...interface{}) error {
	return &EncodingError{Encoding: encoding, Message: fmt.Sprintf(format, args...)}
}

func errEmptyEncoding() error {
	return &EncodingError{Message: "empty encoding"}
}

func errInvalidBases(bases string) error {
	return encodingErrorf(bases, "invalid base characters")
}

func errInvalidContigID(id string) error {
	return encodingErrorf(id, "invalid contig id")
}

func errCannotBeReference(encoding string) error {
	return encodingErrorf(encoding, "allele of this kind cannot be tagged as reference")
}
