package allele

// Symbolic is a plain symbolic allele: an identifier in angle brackets
// standing in for an unspecified sequence, e.g. <DEL> or <DUP:TANDEM>.
type Symbolic struct {
	id     string
	svType SVType
}

// NewSymbolic creates a symbolic allele for id (without the surrounding
// angle brackets). Its structural variant class is derived from the id.
func NewSymbolic(id string) (*Symbolic, error) {
	if !IsValidSymbolicID(id) {
		return nil, encodingErrorf(id, "invalid symbolic allele id")
	}
	return &Symbolic{id: id, svType: SVTypeFromSymbolicID(id)}, nil
}

func (a *Symbolic) String() string    { return "<" + a.id + ">" }
func (a *Symbolic) IsReference() bool { return false }
func (a *Symbolic) IsSymbolic() bool  { return true }
func (a *Symbolic) NumBases() int     { return 0 }
func (a *Symbolic) BaseAt(i int) byte { panic("allele: BaseAt on symbolic allele") }

// ID returns the symbolic identifier without angle brackets.
func (a *Symbolic) ID() string { return a.id }

// SVType returns the structural variant class derived from the ID, or
// SVNone for non-structural symbolics.
func (a *Symbolic) SVType() SVType { return a.svType }

func (a *Symbolic) Equal(other Allele) bool {
	o, ok := other.(*Symbolic)
	if !ok {
		return false
	}
	return a.id == o.id && a.svType == o.svType
}

// Unspecified is the unspecified alternate allele placeholder used by
// symbolic gVCF-style records: <*> or <NON_REF>.
type Unspecified struct {
	id string
}

func (a *Unspecified) String() string    { return "<" + a.id + ">" }
func (a *Unspecified) IsReference() bool { return false }
func (a *Unspecified) IsSymbolic() bool  { return true }
func (a *Unspecified) NumBases() int     { return 0 }
func (a *Unspecified) BaseAt(i int) byte { panic("allele: BaseAt on unspecified alt allele") }

// ID returns the placeholder identifier, "*" or "NON_REF".
func (a *Unspecified) ID() string { return a.id }

func (a *Unspecified) Equal(other Allele) bool {
	o, ok := other.(*Unspecified)
	if !ok {
		return false
	}
	return a.id == o.id
}

// The two interned unspecified-alt placeholders.
var (
	UnspecifiedAlt Allele = &Unspecified{id: "*"}
	NonRef         Allele = &Unspecified{id: "NON_REF"}
)

// ContigInsertion is the insertion of an entire assembly contig after the
// leading bases, encoded as bases followed by the contig name in angle
// brackets: ACGT<ctg1>.
type ContigInsertion struct {
	bases  []byte
	contig string
}

// NewContigInsertion creates a contig insertion allele from a copy of
// bases and the bare contig name (no angle brackets).
func NewContigInsertion(bases []byte, contig string) (*ContigInsertion, error) {
	if len(bases) == 0 {
		return nil, &EncodingError{Encoding: "<" + contig + ">", Message: "contig insertion requires at least one leading base"}
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(bases))
	}
	if !IsValidContigID(contig) {
		return nil, errInvalidContigID(contig)
	}
	cp := make([]byte, len(bases))
	copy(cp, bases)
	return &ContigInsertion{bases: cp, contig: contig}, nil
}

func (a *ContigInsertion) String() string    { return string(a.bases) + "<" + a.contig + ">" }
func (a *ContigInsertion) IsReference() bool { return false }
func (a *ContigInsertion) IsSymbolic() bool  { return true }
func (a *ContigInsertion) NumBases() int     { return len(a.bases) }
func (a *ContigInsertion) BaseAt(i int) byte { return a.bases[i] }

// Contig returns the inserted contig's name.
func (a *ContigInsertion) Contig() string { return a.contig }

func (a *ContigInsertion) Equal(other Allele) bool {
	o, ok := other.(*ContigInsertion)
	if !ok {
		return false
	}
	return a.contig == o.contig && basesEqual(a.bases, o.bases)
}
