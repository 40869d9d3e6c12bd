package allele

// SVType classifies the structural variant class a symbolic allele stands
// for, derived from the leading token of its symbolic ID ("DEL:ME" is a
// deletion, "DUP:TANDEM" a duplication, and so on).
type SVType int

const (
	SVNone SVType = iota // not a structural variant symbolic
	SVDel
	SVIns
	SVDup
	SVInv
	SVCnv
	SVBnd
)

var svTypeNames = map[SVType]string{
	SVDel: "DEL",
	SVIns: "INS",
	SVDup: "DUP",
	SVInv: "INV",
	SVCnv: "CNV",
	SVBnd: "BND",
}

func (t SVType) String() string {
	if name, ok := svTypeNames[t]; ok {
		return name
	}
	return ""
}

// SVTypeFromSymbolicID derives the structural variant class from a
// symbolic allele ID. Sub-typed IDs like "DEL:ME:ALU" classify by their
// first colon-separated token.
func SVTypeFromSymbolicID(id string) SVType {
	token := id
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			token = id[:i]
			break
		}
	}
	switch token {
	case "DEL":
		return SVDel
	case "INS":
		return SVIns
	case "DUP":
		return SVDup
	case "INV":
		return SVInv
	case "CNV":
		return SVCnv
	case "BND":
		return SVBnd
	default:
		return SVNone
	}
}
