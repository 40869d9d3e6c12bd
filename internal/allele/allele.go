// Package allele models VCF REF/ALT alleles as a closed set of typed,
// immutable values, and provides the codec between those values and the
// compact textual wire format shared with VCF: inline base runs, symbolic
// alleles in angle brackets, single and paired breakends, assembly contig
// insertions, the no-call '.' and the spanning deletion '*'.
//
// Decoding is strict: every accepted encoding round-trips exactly
// (String(Decode(s)) == s) and malformed input yields an *EncodingError
// with no partial result.
package allele

import "fmt"

// Allele is the typed in-memory form of one REF or ALT column value.
// Implementations are immutable; the singletons (NoCall, SpanDel, the
// interned single-base inlines and registered symbolics) are comparable by
// identity.
type Allele interface {
	// String returns the exact textual wire encoding of the allele.
	String() string

	// IsReference reports whether this allele is tagged as the reference
	// allele. Only inline alleles may be reference.
	IsReference() bool

	// IsSymbolic reports whether the allele has no fully specified base
	// sequence: symbolic IDs, breakends and contig insertions.
	IsSymbolic() bool

	// NumBases returns the number of literal bases carried by the allele
	// (zero for symbolic IDs and markers).
	NumBases() int

	// BaseAt returns the literal base at index i (0-based). It panics when
	// i is out of range, like a slice access.
	BaseAt(i int) byte

	// Equal reports structural equality with another allele. Base
	// comparison is case-insensitive; reference tagging is significant.
	Equal(other Allele) bool
}

// marker implements the two bare single-character alleles, '.' and '*'.
// Neither may be tagged reference and both are singletons.
type marker struct {
	enc string
}

func (m *marker) String() string      { return m.enc }
func (m *marker) IsReference() bool   { return false }
func (m *marker) IsSymbolic() bool    { return false }
func (m *marker) NumBases() int       { return 0 }
func (m *marker) BaseAt(i int) byte   { panic("allele: BaseAt on marker allele") }
func (m *marker) Equal(o Allele) bool { return m == o }

var (
	// NoCall is the '.' allele: a haplotype that could not be determined.
	NoCall Allele = &marker{enc: "."}
	// SpanDel is the '*' allele: a position overlapped by an upstream
	// deletion.
	SpanDel Allele = &marker{enc: "*"}
)

// Inline is an allele specified by a literal run of bases.
type Inline struct {
	bases []byte
	ref   bool
}

// Interned single-base alleles, returned by NewInline and Decode for
// one-base sequences.
var (
	RefA = &Inline{bases: []byte{'A'}, ref: true}
	AltA = &Inline{bases: []byte{'A'}}
	RefC = &Inline{bases: []byte{'C'}, ref: true}
	AltC = &Inline{bases: []byte{'C'}}
	RefG = &Inline{bases: []byte{'G'}, ref: true}
	AltG = &Inline{bases: []byte{'G'}}
	RefT = &Inline{bases: []byte{'T'}, ref: true}
	AltT = &Inline{bases: []byte{'T'}}
	RefN = &Inline{bases: []byte{'N'}, ref: true}
	AltN = &Inline{bases: []byte{'N'}}
)

// NewInline creates an inline allele from a copy of bases. Single-base
// sequences return the interned constant for that base; the interned
// constants normalize case, longer runs keep the input case verbatim so
// encoding round-trips.
func NewInline(bases []byte, isRef bool) (*Inline, error) {
	if len(bases) == 0 {
		return nil, errEmptyEncoding()
	}
	if len(bases) == 1 {
		return internedSingleBase(bases[0], isRef)
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(bases))
	}
	cp := make([]byte, len(bases))
	copy(cp, bases)
	return &Inline{bases: cp, ref: isRef}, nil
}

func internedSingleBase(b byte, isRef bool) (*Inline, error) {
	switch upperBase(b) {
	case 'A':
		if isRef {
			return RefA, nil
		}
		return AltA, nil
	case 'C':
		if isRef {
			return RefC, nil
		}
		return AltC, nil
	case 'G':
		if isRef {
			return RefG, nil
		}
		return AltG, nil
	case 'T':
		if isRef {
			return RefT, nil
		}
		return AltT, nil
	case 'N':
		if isRef {
			return RefN, nil
		}
		return AltN, nil
	default:
		return nil, errInvalidBases(string(b))
	}
}

func (a *Inline) String() string    { return string(a.bases) }
func (a *Inline) IsReference() bool { return a.ref }
func (a *Inline) IsSymbolic() bool  { return false }
func (a *Inline) NumBases() int     { return len(a.bases) }
func (a *Inline) BaseAt(i int) byte { return a.bases[i] }

// Bases returns a copy of the base sequence.
func (a *Inline) Bases() []byte {
	cp := make([]byte, len(a.bases))
	copy(cp, a.bases)
	return cp
}

func (a *Inline) Equal(other Allele) bool {
	o, ok := other.(*Inline)
	if !ok {
		return false
	}
	return a.ref == o.ref && basesEqual(a.bases, o.bases)
}

// IsPrefixOf reports whether this allele's bases are a prefix of other's,
// ignoring case.
func (a *Inline) IsPrefixOf(other *Inline) bool {
	if len(a.bases) > len(other.bases) {
		return false
	}
	return basesEqual(a.bases, other.bases[:len(a.bases)])
}

// Extend returns a new inline allele with suffix appended to a's bases,
// keeping a's reference tag. Used when left-aligning indels against a
// reference context.
func Extend(a *Inline, suffix []byte) (*Inline, error) {
	if !AreValidBases(suffix) {
		return nil, errInvalidBases(string(suffix))
	}
	joined := make([]byte, 0, len(a.bases)+len(suffix))
	joined = append(joined, a.bases...)
	joined = append(joined, suffix...)
	return NewInline(joined, a.ref)
}

// MustDecode is Decode for statically known-good encodings; it panics on
// error. Intended for tests and package-level constants.
func MustDecode(encoding string, isRef bool) Allele {
	a, err := Decode([]byte(encoding), isRef)
	if err != nil {
		panic(fmt.Sprintf("allele: MustDecode(%q): %v", encoding, err))
	}
	return a
}
