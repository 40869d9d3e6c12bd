package gff

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Directives recognized by the GFF3 dialect.
const (
	versionDirective        = "##gff-version"
	sequenceRegionDirective = "##sequence-region"
	flushDirective          = "###"
	fastaDirective          = "##FASTA"
)

var versionPattern = regexp.MustCompile(`^##gff-version\s+3(\.\d+)*$`)

// SequenceRegion describes a ##sequence-region directive: the declared
// coordinate bounds of a contig, 1-based inclusive.
type SequenceRegion struct {
	Contig   string
	Start    int
	End      int
	Circular bool
}

// Gff3Codec streams features out of GFF3 input. In Deep mode features
// are fully linked to their parents, children and co-features before
// they are emitted; emission happens at flush boundaries (the ###
// directive, the start of an embedded FASTA section, or end of input)
// and yields only top-level features, whose subtrees are reachable
// through the links. In Shallow mode every feature line is emitted
// immediately and unlinked.
type Gff3Codec struct {
	codecState
	source LineSource

	versionSeen bool

	byID             map[string][]*Feature
	pendingParents   map[string][]*Feature
	childrenByParent map[string][]*Feature

	sequenceRegions map[string]*SequenceRegion
}

// NewGff3Codec returns a codec reading from source.
func NewGff3Codec(source LineSource, depth DecodeDepth) *Gff3Codec {
	return &Gff3Codec{
		codecState:       newCodecState(depth),
		source:           source,
		byID:             map[string][]*Feature{},
		pendingParents:   map[string][]*Feature{},
		childrenByParent: map[string][]*Feature{},
		sequenceRegions:  map[string]*SequenceRegion{},
	}
}

// SetLogger sets the logger for warning messages.
func (c *Gff3Codec) SetLogger(l *zap.Logger) {
	c.logger = l
}

// SequenceRegions returns the ##sequence-region directives seen so far,
// keyed by contig.
func (c *Gff3Codec) SequenceRegions() map[string]*SequenceRegion {
	out := make(map[string]*SequenceRegion, len(c.sequenceRegions))
	for k, v := range c.sequenceRegions {
		out[k] = v
	}
	return out
}

// Decode returns the next decodable feature, or nil when the input is
// exhausted.
func (c *Gff3Codec) Decode() (*Feature, error) {
	for len(c.toFlush) == 0 {
		if c.reachedFasta || !c.source.HasNext() {
			if c.active.len() > 0 {
				if err := c.flush(); err != nil {
					return nil, err
				}
				continue
			}
			return nil, nil
		}
		line, err := c.source.Next()
		if err != nil {
			return nil, err
		}
		c.lineNum++
		if err := c.processLine(line); err != nil {
			return nil, err
		}
	}
	return c.popFlushed(), nil
}

// Done reports whether every feature has been decoded and emitted.
func (c *Gff3Codec) Done() bool {
	return (c.reachedFasta || !c.source.HasNext()) &&
		len(c.toFlush) == 0 &&
		c.active.len() == 0 &&
		len(c.pendingParents) == 0
}

func (c *Gff3Codec) processLine(line string) error {
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "##"):
		return c.processDirective(line)
	case strings.HasPrefix(line, "#"):
		c.saveComment(line)
		return nil
	case strings.HasPrefix(line, ">"):
		// Artemis-style FASTA section without a ##FASTA directive.
		c.reachedFasta = true
		return nil
	default:
		return c.processFeatureLine(line)
	}
}

func (c *Gff3Codec) processDirective(line string) error {
	switch {
	case strings.HasPrefix(line, versionDirective):
		if !versionPattern.MatchString(line) {
			return formatErrorf(c.lineNum, line, "unsupported gff version")
		}
		c.versionSeen = true
		return nil
	case strings.HasPrefix(line, sequenceRegionDirective):
		return c.processSequenceRegion(line)
	case line == flushDirective:
		return c.flush()
	case line == fastaDirective:
		c.reachedFasta = true
		return nil
	default:
		c.logger.Warn("ignoring unrecognized directive", zap.String("directive", line))
		return nil
	}
}

func (c *Gff3Codec) processSequenceRegion(line string) error {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return formatErrorf(c.lineNum, line, "malformed sequence-region directive")
	}
	contig, err := decodeText(fields[1])
	if err != nil {
		return formatErrorf(c.lineNum, line, "bad contig in sequence-region: %v", err)
	}
	start, err1 := strconv.Atoi(fields[2])
	end, err2 := strconv.Atoi(fields[3])
	if err1 != nil || err2 != nil || start < 1 || end < start {
		return formatErrorf(c.lineNum, line, "bad coordinates in sequence-region")
	}
	if _, dup := c.sequenceRegions[contig]; dup {
		return formatErrorf(c.lineNum, line, "duplicate sequence-region for contig %q", contig)
	}
	c.sequenceRegions[contig] = &SequenceRegion{Contig: contig, Start: start, End: end}
	return nil
}

func (c *Gff3Codec) processFeatureLine(line string) error {
	if !c.versionSeen {
		return formatErrorf(c.lineNum, line, "feature line before ##gff-version directive")
	}
	fields, err := parseFields(c.lineNum, line)
	if err != nil {
		return err
	}
	data, err := parseBaseData(c.lineNum, line, fields)
	if err != nil {
		return err
	}
	data.Attrs, err = parseGff3Attributes(c.lineNum, line, fields[8])
	if err != nil {
		return err
	}

	if region, ok := c.sequenceRegions[data.Contig]; ok {
		if data.Start < region.Start || data.End > region.End {
			return formatErrorf(c.lineNum, line, "feature [%d, %d] outside declared bounds of contig %q [%d, %d]",
				data.Start, data.End, data.Contig, region.Start, region.End)
		}
		circ, ok, err := data.Attrs.Single(AttrIsCircular)
		if err != nil {
			return formatErrorf(c.lineNum, line, "%v", err)
		}
		// Circularity is a property of the whole sequence, so only a
		// feature spanning the declared region can assert it.
		if ok && data.Start == region.Start && data.End == region.End {
			region.Circular = strings.EqualFold(circ, "true")
		}
	}

	f := NewFeature(data)
	if c.depth == Shallow {
		c.toFlush = append(c.toFlush, f)
		return nil
	}
	return c.link(f, line)
}

func (c *Gff3Codec) link(f *Feature, line string) error {
	id := f.ID()
	if id != "" {
		if existing := c.byID[id]; len(existing) > 0 {
			// A repeated ID is another segment of a discontinuous feature.
			if existing[0].Type != f.Type {
				return formatErrorf(c.lineNum, line, "features with ID %q have conflicting types %q and %q",
					id, existing[0].Type, f.Type)
			}
		}
	}

	for _, parentID := range f.Attrs.Get(AttrParent) {
		c.childrenByParent[parentID] = append(c.childrenByParent[parentID], f)
		parents := c.byID[parentID]
		if len(parents) == 0 {
			c.pendingParents[parentID] = append(c.pendingParents[parentID], f)
			continue
		}
		for _, p := range parents {
			f.AddParent(p)
		}
	}

	if id != "" {
		// Children that referenced this ID attach to every segment of a
		// discontinuous feature, whichever order the lines arrived in.
		for _, child := range c.childrenByParent[id] {
			child.AddParent(f)
		}
		delete(c.pendingParents, id)

		for _, existing := range c.byID[id] {
			if err := c.coLinkErr(existing, f); err != nil {
				return err
			}
		}
		c.byID[id] = append(c.byID[id], f)
	}

	c.active.add(f)
	return nil
}

func (c *Gff3Codec) coLinkErr(existing, f *Feature) error {
	if err := existing.AddCoFeature(f); err != nil {
		if fe, ok := err.(*FormatError); ok {
			fe.Line = c.lineNum
		}
		return err
	}
	return nil
}

// flush closes the current window: every referenced parent must have
// been seen, and the top-level features of the window move to the
// emission queue with their subtrees attached.
func (c *Gff3Codec) flush() error {
	if len(c.pendingParents) == 0 {
		for _, f := range c.active.items {
			if f.IsTopLevel() {
				c.toFlush = append(c.toFlush, f)
			}
		}
		c.active = featureSet{}
		c.byID = map[string][]*Feature{}
		c.childrenByParent = map[string][]*Feature{}
		return nil
	}
	missing := make([]string, 0, len(c.pendingParents))
	for id := range c.pendingParents {
		missing = append(missing, id)
	}
	return formatErrorf(c.lineNum, "", "features reference undefined parents %v", missing)
}

func parseGff3Attributes(lineNum int, line, field string) (*Attributes, error) {
	attrs := NewAttributes()
	if field == missingField || field == "" {
		return attrs, nil
	}
	for _, pair := range strings.Split(field, ";") {
		if pair == "" {
			continue
		}
		eq := strings.IndexByte(pair, '=')
		if eq < 0 {
			return nil, formatErrorf(lineNum, line, "attribute %q is not a key=value pair", pair)
		}
		key, err := decodeText(pair[:eq])
		if err != nil {
			return nil, formatErrorf(lineNum, line, "bad attribute key %q: %v", pair[:eq], err)
		}
		for _, raw := range strings.Split(pair[eq+1:], ",") {
			value, err := decodeText(raw)
			if err != nil {
				return nil, formatErrorf(lineNum, line, "bad attribute value %q: %v", raw, err)
			}
			attrs.Add(key, value)
		}
	}
	return attrs, nil
}
