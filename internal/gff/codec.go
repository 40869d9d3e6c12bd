package gff

import (
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DecodeDepth selects how much of the feature graph a codec builds.
type DecodeDepth int

const (
	// Deep links every feature to its parents, children and
	// co-features before emitting it.
	Deep DecodeDepth = iota
	// Shallow emits each feature as soon as its line is parsed,
	// without any linking.
	Shallow
)

const numFields = 9

const missingField = "."

// LineSource supplies the codecs with input one line at a time, line
// terminators stripped. Peek returns the next line without consuming
// it, reporting false when the input is exhausted.
type LineSource interface {
	HasNext() bool
	Next() (string, error)
	Peek() (string, bool)
}

// codecState is the bookkeeping shared by the GFF3 and GTF codecs: the
// set of features whose flush window is still open, the emission queue,
// and header commentary keyed by 1-based line number.
type codecState struct {
	depth  DecodeDepth
	logger *zap.Logger

	lineNum int

	active  featureSet
	toFlush []*Feature

	commentLines []int
	commentText  map[int]string

	reachedFasta bool
}

func newCodecState(depth DecodeDepth) codecState {
	return codecState{
		depth:       depth,
		logger:      zap.NewNop(),
		commentText: map[int]string{},
	}
}

func (s *codecState) saveComment(text string) {
	s.commentLines = append(s.commentLines, s.lineNum)
	s.commentText[s.lineNum] = text
}

// Comments returns the plain comment lines seen so far, keyed by
// 1-based line number, in input order.
func (s *codecState) Comments() (lines []int, text map[int]string) {
	lines = make([]int, len(s.commentLines))
	copy(lines, s.commentLines)
	text = make(map[int]string, len(s.commentText))
	for k, v := range s.commentText {
		text[k] = v
	}
	return lines, text
}

func (s *codecState) popFlushed() *Feature {
	if len(s.toFlush) == 0 {
		return nil
	}
	f := s.toFlush[0]
	s.toFlush = s.toFlush[1:]
	return f
}

// parseFields splits and validates the nine tab-separated columns of a
// feature line. Attribute-column handling differs between the two
// dialects and is left to the caller.
func parseFields(lineNum int, line string) ([]string, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != numFields {
		return nil, formatErrorf(lineNum, line, "expected %d tab-separated columns, found %d", numFields, len(fields))
	}
	return fields, nil
}

// parseBaseData interprets the first eight columns, which GFF3 and GTF
// share. Contig and source are percent-decoded.
func parseBaseData(lineNum int, line string, fields []string) (BaseData, error) {
	var d BaseData

	contig, err := decodeText(fields[0])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad contig %q: %v", fields[0], err)
	}
	source, err := decodeText(fields[1])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad source %q: %v", fields[1], err)
	}
	ftype, err := decodeText(fields[2])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad type %q: %v", fields[2], err)
	}
	d.Contig = contig
	d.Source = source
	d.Type = ftype

	d.Start, err = strconv.Atoi(fields[3])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad start position %q", fields[3])
	}
	d.End, err = strconv.Atoi(fields[4])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad end position %q", fields[4])
	}
	if d.Start < 1 || d.End < d.Start {
		return d, formatErrorf(lineNum, line, "invalid interval [%d, %d]", d.Start, d.End)
	}

	if fields[5] != missingField {
		d.Score, err = strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return d, formatErrorf(lineNum, line, "bad score %q", fields[5])
		}
		d.HasScore = true
	}

	d.Strand, err = DecodeStrand(fields[6])
	if err != nil {
		return d, formatErrorf(lineNum, line, "bad strand %q", fields[6])
	}

	if fields[7] != missingField {
		p, err := strconv.Atoi(fields[7])
		if err != nil || p < 0 || p > 2 {
			return d, formatErrorf(lineNum, line, "bad phase %q", fields[7])
		}
		d.Phase = p
		d.HasPhase = true
	}

	return d, nil
}

// decodeText reverses percent-encoding in a column or attribute value.
func decodeText(s string) (string, error) {
	if !strings.ContainsRune(s, '%') {
		return s, nil
	}
	return url.QueryUnescape(s)
}
