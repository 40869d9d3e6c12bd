package allele

// BreakendType enumerates the two single and four paired breakend shapes.
//
// The paired names follow the VCF spec prose: LEFT/RIGHT says which side of
// the mate position the adjacent sequence extends from, FORWARD/REVERSE
// whether it joins as-is or reverse-complemented.
//
//	SingleFork     t.              adjacency dangles right of t
//	SingleJoin     .t              adjacency dangles left of t
//	RightForward   t[p[            piece right of p joined after t
//	LeftReverse    t]p]            reverse comp piece left of p joined after t
//	LeftForward    ]p]t            piece left of p joined before t
//	RightReverse   [p[t            reverse comp piece right of p joined before t
type BreakendType int

const (
	SingleFork BreakendType = iota
	SingleJoin
	RightForward
	LeftReverse
	LeftForward
	RightReverse
)

var breakendTypeNames = [...]string{
	SingleFork:   "SINGLE_FORK",
	SingleJoin:   "SINGLE_JOIN",
	RightForward: "RIGHT_FORWARD",
	LeftReverse:  "LEFT_REVERSE",
	LeftForward:  "LEFT_FORWARD",
	RightReverse: "RIGHT_REVERSE",
}

func (t BreakendType) String() string {
	if int(t) < len(breakendTypeNames) {
		return breakendTypeNames[t]
	}
	return "UNKNOWN"
}

// IsSingle reports whether t is one of the two single breakend types.
func (t BreakendType) IsSingle() bool {
	return t == SingleFork || t == SingleJoin
}

// IsPaired reports whether t is one of the four paired breakend types.
func (t BreakendType) IsPaired() bool {
	return !t.IsSingle()
}

// IsLeftSide reports whether the adjacent sequence comes from the left
// (upstream) of the mate position. False for single types.
func (t BreakendType) IsLeftSide() bool {
	return t == LeftForward || t == LeftReverse
}

// IsRightSide reports whether the adjacent sequence comes from the right
// (downstream) of the mate position. False for single types.
func (t BreakendType) IsRightSide() bool {
	return t == RightForward || t == RightReverse
}

// IsForward reports whether the adjacent sequence joins from the forward
// strand. False for single types.
func (t BreakendType) IsForward() bool {
	return t == RightForward || t == LeftForward
}

// IsReverse reports whether the adjacent sequence joins reverse
// complemented. False for single types.
func (t BreakendType) IsReverse() bool {
	return t == LeftReverse || t == RightReverse
}

// StartsWithBase reports whether the wire encoding for t leads with the
// reference-aligned bases (as opposed to trailing them).
func (t BreakendType) StartsWithBase() bool {
	switch t {
	case SingleFork, RightForward, LeftReverse:
		return true
	default:
		return false
	}
}

// Mate returns the type of the mate record of a paired breakend, and false
// for single types which have no mate.
func (t BreakendType) Mate() (BreakendType, bool) {
	switch t {
	case LeftForward:
		return RightForward, true
	case RightForward:
		return LeftForward, true
	case LeftReverse:
		return LeftReverse, true
	case RightReverse:
		return RightReverse, true
	default:
		return 0, false
	}
}

// PairedType selects one of the four paired types from its side and strand
// properties.
func PairedType(left, forward bool) BreakendType {
	if left {
		if forward {
			return LeftForward
		}
		return LeftReverse
	}
	if forward {
		return RightForward
	}
	return RightReverse
}
