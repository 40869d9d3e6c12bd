// Package gff decodes GFF3 and GTF annotation files into an in-memory
// feature graph. Records stream in one line at a time and are linked into
// a multi-parent hierarchy (gene, transcript, exon/CDS) as their textual
// Parent or gene_id/transcript_id references resolve, then flushed in
// bounded windows at '###' directives, '##FASTA', or end of input.
package gff

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Strand is the genomic strand column of a record.
type Strand byte

const (
	StrandForward Strand = '+'
	StrandReverse Strand = '-'
	StrandNone    Strand = '.'
	StrandUnknown Strand = '?'
)

// DecodeStrand parses the strand column.
func DecodeStrand(s string) (Strand, error) {
	switch s {
	case "+":
		return StrandForward, nil
	case "-":
		return StrandReverse, nil
	case ".":
		return StrandNone, nil
	case "?":
		return StrandUnknown, nil
	default:
		return 0, fmt.Errorf("unknown strand token %q", s)
	}
}

func (s Strand) String() string { return string(byte(s)) }

// Attributes is the ordered attribute multimap of a record: keys keep
// file order, and so do the values within a key.
type Attributes struct {
	keys   []string
	values map[string][]string
}

// NewAttributes returns an empty attribute map.
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// Add appends a value under key, creating the key at the end of the
// ordering if new.
func (a *Attributes) Add(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = append(a.values[key], value)
}

// Get returns all values for key in file order, or nil.
func (a *Attributes) Get(key string) []string {
	return a.values[key]
}

// Has reports whether key is present.
func (a *Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

// Single returns the sole value for key. It errors when the key holds
// more than one value and returns ok=false when the key is absent.
func (a *Attributes) Single(key string) (value string, ok bool, err error) {
	vs := a.values[key]
	switch len(vs) {
	case 0:
		return "", false, nil
	case 1:
		return vs[0], true, nil
	default:
		return "", true, fmt.Errorf("attribute %q has %d values when only one expected", key, len(vs))
	}
}

// Keys returns the keys in file order.
func (a *Attributes) Keys() []string {
	return a.keys
}

// Len returns the number of distinct keys.
func (a *Attributes) Len() int {
	return len(a.keys)
}

// Remove deletes a key and its values.
func (a *Attributes) Remove(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// Equal reports order-sensitive structural equality.
func (a *Attributes) Equal(other *Attributes) bool {
	if len(a.keys) != len(other.keys) {
		return false
	}
	for i, k := range a.keys {
		if other.keys[i] != k {
			return false
		}
		av, bv := a.values[k], other.values[k]
		if len(av) != len(bv) {
			return false
		}
		for j := range av {
			if av[j] != bv[j] {
				return false
			}
		}
	}
	return true
}

// Well-known GFF3 attribute keys.
const (
	AttrID          = "ID"
	AttrName        = "Name"
	AttrAlias       = "Alias"
	AttrParent      = "Parent"
	AttrDerivesFrom = "Derives_from"
	AttrIsCircular  = "Is_circular"
)

// BaseData is the immutable per-line parsed form of one record: the nine
// tab-separated columns with the attribute column expanded. Start and End
// are 1-based inclusive. Score and Phase use the presence flags since '.'
// means absent on the wire.
type BaseData struct {
	Contig   string
	Source   string
	Type     string
	Start    int
	End      int
	Score    float64
	HasScore bool
	Strand   Strand
	Phase    int // 0..2
	HasPhase bool
	Attrs    *Attributes
}

// ID returns the single-valued ID attribute, or "".
func (b *BaseData) ID() string {
	v, _, _ := b.Attrs.Single(AttrID)
	return v
}

// Name returns the single-valued Name attribute, or "".
func (b *BaseData) Name() string {
	v, _, _ := b.Attrs.Single(AttrName)
	return v
}

// Aliases returns all Alias attribute values.
func (b *BaseData) Aliases() []string {
	return b.Attrs.Get(AttrAlias)
}

// Equal reports structural equality over every field.
func (b *BaseData) Equal(other *BaseData) bool {
	return b.Contig == other.Contig &&
		b.Source == other.Source &&
		b.Type == other.Type &&
		b.Start == other.Start &&
		b.End == other.End &&
		b.HasScore == other.HasScore &&
		(!b.HasScore || b.Score == other.Score) &&
		b.Strand == other.Strand &&
		b.HasPhase == other.HasPhase &&
		(!b.HasPhase || b.Phase == other.Phase) &&
		b.Attrs.Equal(other.Attrs)
}

// key returns a canonical string identifying the record's full contents.
// Graph snapshots use it as a node identity that is stable across
// distinct in-memory graphs.
func (b *BaseData) key() string {
	var sb strings.Builder
	sb.WriteString(b.Contig)
	sb.WriteByte('\t')
	sb.WriteString(b.Source)
	sb.WriteByte('\t')
	sb.WriteString(b.Type)
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(b.Start))
	sb.WriteByte('\t')
	sb.WriteString(strconv.Itoa(b.End))
	sb.WriteByte('\t')
	if b.HasScore {
		sb.WriteString(strconv.FormatFloat(b.Score, 'g', -1, 64))
	} else {
		sb.WriteByte('.')
	}
	sb.WriteByte('\t')
	sb.WriteByte(byte(b.Strand))
	sb.WriteByte('\t')
	if b.HasPhase {
		sb.WriteString(strconv.Itoa(b.Phase))
	} else {
		sb.WriteByte('.')
	}
	for _, k := range b.Attrs.Keys() {
		sb.WriteByte('\t')
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(strings.Join(b.Attrs.Get(k), ","))
	}
	return sb.String()
}

// sortedKeys is a helper for deterministic iteration in snapshots.
func sortedKeys(keys []string) []string {
	cp := make([]string, len(keys))
	copy(cp, keys)
	sort.Strings(cp)
	return cp
}
