package allele

import (
	"bytes"
	"strconv"
)

// Breakend is a novel adjacency between two genomic locations, in VCF
// breakend notation. A single breakend (t. or .t) has no mate; a paired
// breakend names its mate contig and 1-based position inside matching
// brackets, whose side and orientation encode the adjacency direction.
//
// The before-contig-start insertion form .[ctg:pos[ is represented as a
// RightForward breakend with zero bases.
type Breakend struct {
	typ          BreakendType
	bases        []byte
	mateContig   string // empty for single breakends
	matePos      int    // -1 for single breakends
	mateAssembly bool
}

// NewSingleBreakend creates a single (mate-less) breakend carrying at
// least one base.
func NewSingleBreakend(typ BreakendType, bases []byte) (*Breakend, error) {
	if !typ.IsSingle() {
		return nil, encodingErrorf(string(bases), "breakend type %s is not single", typ)
	}
	if len(bases) == 0 {
		return nil, encodingErrorf("", "single breakend must have at least one base")
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(bases))
	}
	cp := make([]byte, len(bases))
	copy(cp, bases)
	return &Breakend{typ: typ, bases: cp, matePos: -1}, nil
}

// NewPairedBreakend creates a paired breakend. An empty base sequence is
// only legal for RightForward, which yields the before-contig-start form.
func NewPairedBreakend(typ BreakendType, bases []byte, mateContig string, matePos int, mateAssembly bool) (*Breakend, error) {
	if typ.IsSingle() {
		return nil, encodingErrorf(string(bases), "breakend type %s is not paired", typ)
	}
	if !IsValidContigID(mateContig) {
		return nil, errInvalidContigID(mateContig)
	}
	if matePos <= 0 {
		return nil, encodingErrorf(mateContig, "mate position must be positive, got %d", matePos)
	}
	if len(bases) == 0 {
		if typ != RightForward {
			return nil, encodingErrorf(mateContig, "only %s breakends may omit bases", RightForward)
		}
		return &Breakend{typ: typ, mateContig: mateContig, matePos: matePos, mateAssembly: mateAssembly}, nil
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(bases))
	}
	cp := make([]byte, len(bases))
	copy(cp, bases)
	return &Breakend{typ: typ, bases: cp, mateContig: mateContig, matePos: matePos, mateAssembly: mateAssembly}, nil
}

// BeforeContigStart creates the breakend representing sequence inserted
// before the first base of a contig, encoded .[ctg:pos[.
func BeforeContigStart(mateContig string, matePos int, mateAssembly bool) (*Breakend, error) {
	return NewPairedBreakend(RightForward, nil, mateContig, matePos, mateAssembly)
}

// Type returns the breakend's directional type.
func (b *Breakend) Type() BreakendType { return b.typ }

// IsSingle reports whether the breakend has no mate.
func (b *Breakend) IsSingle() bool { return b.typ.IsSingle() }

// IsPaired reports whether the breakend names a mate location.
func (b *Breakend) IsPaired() bool { return b.typ.IsPaired() }

// MateContig returns the mate contig name, or "" for single breakends.
func (b *Breakend) MateContig() string { return b.mateContig }

// MatePosition returns the mate's 1-based position, or -1 for single
// breakends.
func (b *Breakend) MatePosition() int { return b.matePos }

// MateIsAssembly reports whether the mate contig names an assembly
// sequence (written <ctg> inside the brackets) rather than a reference
// contig.
func (b *Breakend) MateIsAssembly() bool { return b.mateAssembly }

func (b *Breakend) IsReference() bool { return false }
func (b *Breakend) IsSymbolic() bool  { return true }
func (b *Breakend) NumBases() int     { return len(b.bases) }
func (b *Breakend) BaseAt(i int) byte { return b.bases[i] }

func (b *Breakend) Equal(other Allele) bool {
	o, ok := other.(*Breakend)
	if !ok {
		return false
	}
	return b.typ == o.typ &&
		b.mateContig == o.mateContig &&
		b.matePos == o.matePos &&
		b.mateAssembly == o.mateAssembly &&
		basesEqual(b.bases, o.bases)
}

// String encodes the breakend in its exact wire form.
func (b *Breakend) String() string {
	if b.typ.IsSingle() {
		if b.typ == SingleFork {
			return string(b.bases) + "."
		}
		return "." + string(b.bases)
	}
	var sb bytes.Buffer
	bracket := byte(']')
	if b.typ.IsRightSide() {
		bracket = '['
	}
	if b.typ.StartsWithBase() {
		b.appendBases(&sb)
	}
	sb.WriteByte(bracket)
	if b.mateAssembly {
		sb.WriteByte('<')
		sb.WriteString(b.mateContig)
		sb.WriteByte('>')
	} else {
		sb.WriteString(b.mateContig)
	}
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(b.matePos))
	sb.WriteByte(bracket)
	if !b.typ.StartsWithBase() {
		b.appendBases(&sb)
	}
	return sb.String()
}

func (b *Breakend) appendBases(sb *bytes.Buffer) {
	if len(b.bases) == 0 {
		// before-contig-start form
		sb.WriteByte('.')
		return
	}
	sb.Write(b.bases)
}

// looksLikeBreakend reports whether enc is plausibly a breakend encoding:
// a leading or trailing '.' (but not both) or a bracket at exactly one
// end. It is a cheap pre-check; DecodeBreakend does the full validation.
func looksLikeBreakend(enc []byte) bool {
	if len(enc) < 2 {
		return false
	}
	first, last := enc[0], enc[len(enc)-1]
	switch {
	case first == '.' && last != '.':
		return true
	case last == '.' && first != '.':
		return true
	case (first == '[' || first == ']') && last != '[' && last != ']':
		return true
	default:
		return first != '[' && first != ']' && (last == '[' || last == ']')
	}
}

// DecodeBreakend parses a breakend from its wire encoding.
func DecodeBreakend(enc []byte) (*Breakend, error) {
	if len(enc) < 2 {
		return nil, encodingErrorf(string(enc), "breakend encoding too short")
	}
	if bytes.IndexByte(enc, '[') >= 0 || bytes.IndexByte(enc, ']') >= 0 {
		return decodePairedBreakend(enc)
	}
	return decodeSingleBreakend(enc)
}

func decodeSingleBreakend(enc []byte) (*Breakend, error) {
	var typ BreakendType
	var bases []byte
	switch {
	case enc[0] == '.' && enc[len(enc)-1] != '.':
		typ = SingleJoin
		bases = enc[1:]
	case enc[len(enc)-1] == '.' && enc[0] != '.':
		typ = SingleFork
		bases = enc[:len(enc)-1]
	default:
		return nil, encodingErrorf(string(enc), "not a single breakend encoding")
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(enc))
	}
	return NewSingleBreakend(typ, bases)
}

func decodePairedBreakend(enc []byte) (*Breakend, error) {
	n := len(enc)
	first, last := enc[0], enc[n-1]
	var bracket byte
	var left, right int
	switch {
	case first == '[' || first == ']':
		bracket = first
		left = 0
		right = bytes.LastIndexByte(enc, bracket)
		if right <= left {
			return nil, encodingErrorf(string(enc), "unterminated bracket pair, missing closing %q", string(bracket))
		}
	case last == '[' || last == ']':
		bracket = last
		right = n - 1
		left = bytes.IndexByte(enc, bracket)
		if left <= 0 || left == right {
			return nil, encodingErrorf(string(enc), "unterminated bracket pair, missing opening %q", string(bracket))
		}
	default:
		return nil, encodingErrorf(string(enc), "paired breakend must start or end with a bracket")
	}

	colon := bytes.LastIndexByte(enc[:right], ':')
	if colon < 0 {
		return nil, encodingErrorf(string(enc), "missing colon in mate location")
	}
	if colon <= left {
		return nil, encodingErrorf(string(enc), "colon appears before the opening bracket")
	}

	mateAssembly := colon-left >= 2 && enc[left+1] == '<' && enc[colon-1] == '>'
	var contig string
	if mateAssembly {
		contig = string(enc[left+2 : colon-1])
	} else {
		contig = string(enc[left+1 : colon])
	}
	if !IsValidContigID(contig) {
		return nil, errInvalidContigID(contig)
	}

	pos, err := parseMatePosition(enc, colon+1, right)
	if err != nil {
		return nil, err
	}

	isLeft := bracket == ']'
	isForward := (bracket == '[' && left > 0) || (bracket == ']' && left == 0)
	typ := PairedType(isLeft, isForward)

	var bases []byte
	if typ.StartsWithBase() {
		bases = enc[:left]
	} else {
		bases = enc[right+1:]
	}
	if len(bases) == 0 {
		return nil, encodingErrorf(string(enc), "no bases in breakend encoding")
	}
	if len(bases) == 1 && bases[0] == '.' {
		if typ != RightForward {
			return nil, encodingErrorf(string(enc), "'.' base placeholder is only legal in %s breakends", RightForward)
		}
		return BeforeContigStart(contig, pos, mateAssembly)
	}
	if !AreValidBases(bases) {
		return nil, errInvalidBases(string(enc))
	}
	return NewPairedBreakend(typ, bases, contig, pos, mateAssembly)
}

func parseMatePosition(enc []byte, from, to int) (int, error) {
	if from >= to {
		return 0, encodingErrorf(string(enc), "mate position is empty")
	}
	for i := from; i < to; i++ {
		if b := enc[i]; b < '0' || b > '9' {
			return 0, encodingErrorf(string(enc), "mate position contains non-digit %q", string(b))
		}
	}
	pos, err := strconv.Atoi(string(enc[from:to]))
	if err != nil {
		return 0, encodingErrorf(string(enc), "mate position out of range")
	}
	if pos <= 0 {
		return 0, encodingErrorf(string(enc), "mate position must be positive")
	}
	return pos, nil
}
