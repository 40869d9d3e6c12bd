package gff

import (
	"strings"

	"go.uber.org/zap"
)

// Feature types and attribute keys with structural meaning in GTF.
const (
	geneType = "gene"

	AttrGeneID       = "gene_id"
	AttrTranscriptID = "transcript_id"
)

// isTranscriptType matches the feature types that act as transcript rows.
func isTranscriptType(ftype string) bool {
	return strings.EqualFold(ftype, "transcript") || strings.EqualFold(ftype, "mRNA")
}

// GtfCodec streams features out of GTF input. GTF carries no Parent
// attribute, so the hierarchy is synthesized from gene_id and
// transcript_id: transcripts become children of their gene, and every
// other feature becomes a child of its transcript. Linking is deferred
// to end of input, when all lines of a gene are guaranteed to have been
// seen, and emission then covers every feature, not just genes. Shallow
// mode emits each line immediately and unlinked.
type GtfCodec struct {
	codecState
	source LineSource

	id2gene       map[string]*Feature
	id2transcript map[string]*Feature
	id2components map[string][]*Feature
}

// NewGtfCodec returns a codec reading from source.
func NewGtfCodec(source LineSource, depth DecodeDepth) *GtfCodec {
	return &GtfCodec{
		codecState:    newCodecState(depth),
		source:        source,
		id2gene:       map[string]*Feature{},
		id2transcript: map[string]*Feature{},
		id2components: map[string][]*Feature{},
	}
}

// SetLogger sets the logger for warning messages.
func (c *GtfCodec) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Decode returns the next decodable feature, or nil when the input is
// exhausted.
func (c *GtfCodec) Decode() (*Feature, error) {
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
func (c *GtfCodec) Done() bool {
	return (c.reachedFasta || !c.source.HasNext()) &&
		len(c.toFlush) == 0 &&
		c.active.len() == 0
}

func (c *GtfCodec) processLine(line string) error {
	switch {
	case line == "":
		return nil
	case strings.HasPrefix(line, "#"):
		c.saveComment(line)
		return nil
	case strings.HasPrefix(line, ">"):
		c.reachedFasta = true
		return nil
	default:
		return c.processFeatureLine(line)
	}
}

func (c *GtfCodec) processFeatureLine(line string) error {
	fields, err := parseFields(c.lineNum, line)
	if err != nil {
		return err
	}
	data, err := parseBaseData(c.lineNum, line, fields)
	if err != nil {
		return err
	}
	data.Attrs, err = c.parseGtfAttributes(line, fields[8])
	if err != nil {
		return err
	}

	f := NewFeature(data)
	if c.depth == Shallow {
		c.toFlush = append(c.toFlush, f)
		return nil
	}
	return c.register(f, line)
}

func (c *GtfCodec) register(f *Feature, line string) error {
	geneID, _, err := f.Attrs.Single(AttrGeneID)
	if err != nil {
		return formatErrorf(c.lineNum, line, "%v", err)
	}
	transcriptID, _, err := f.Attrs.Single(AttrTranscriptID)
	if err != nil {
		return formatErrorf(c.lineNum, line, "%v", err)
	}

	switch {
	case f.Type == geneType:
		if geneID == "" {
			return formatErrorf(c.lineNum, line, "gene feature without gene_id")
		}
		if _, dup := c.id2gene[geneID]; dup {
			return formatErrorf(c.lineNum, line, "duplicate gene %q", geneID)
		}
		c.id2gene[geneID] = f
	case isTranscriptType(f.Type):
		if geneID == "" || transcriptID == "" {
			return formatErrorf(c.lineNum, line, "transcript feature without gene_id or transcript_id")
		}
		if _, dup := c.id2transcript[transcriptID]; dup {
			return formatErrorf(c.lineNum, line, "duplicate transcript %q", transcriptID)
		}
		c.id2transcript[transcriptID] = f
	default:
		if transcriptID == "" {
			return formatErrorf(c.lineNum, line, "%s feature without transcript_id", f.Type)
		}
		c.id2components[transcriptID] = append(c.id2components[transcriptID], f)
	}
	c.active.add(f)
	return nil
}

// flush runs the deferred linkage: transcripts under their genes,
// everything else under its transcript, then queues every feature of
// the window for emission.
func (c *GtfCodec) flush() error {
	for transcriptID, t := range c.id2transcript {
		geneID, _, _ := t.Attrs.Single(AttrGeneID)
		gene, ok := c.id2gene[geneID]
		if !ok {
			return formatErrorf(c.lineNum, "", "transcript %q references undefined gene %q", transcriptID, geneID)
		}
		t.AddParent(gene)
	}
	for transcriptID, components := range c.id2components {
		t, ok := c.id2transcript[transcriptID]
		if !ok {
			return formatErrorf(c.lineNum, "", "features reference undefined transcript %q", transcriptID)
		}
		tGene, _, _ := t.Attrs.Single(AttrGeneID)
		for _, comp := range components {
			compGene, _, _ := comp.Attrs.Single(AttrGeneID)
			if compGene != tGene {
				return formatErrorf(c.lineNum, "", "%s feature in transcript %q has gene_id %q, transcript has %q",
					comp.Type, transcriptID, compGene, tGene)
			}
			comp.AddParent(t)
		}
	}

	c.toFlush = append(c.toFlush, c.active.items...)
	c.active = featureSet{}
	c.id2gene = map[string]*Feature{}
	c.id2transcript = map[string]*Feature{}
	c.id2components = map[string][]*Feature{}
	return nil
}

// parseGtfAttributes lexes the `key "value"; key2 "v2";` attribute
// column. Values may be quoted, with backslash escapes for quotes,
// tabs and newlines; unrecognized escapes are dropped with a warning.
// Bare unquoted values end at the next semicolon. A key with no value
// at all is kept with an empty value and logged.
func (c *GtfCodec) parseGtfAttributes(line, field string) (*Attributes, error) {
	attrs := NewAttributes()
	if field == missingField || field == "" {
		return attrs, nil
	}

	i := 0
	n := len(field)
	for i < n {
		for i < n && (field[i] == ' ' || field[i] == ';') {
			i++
		}
		if i >= n {
			break
		}

		keyStart := i
		for i < n && field[i] != ' ' && field[i] != ';' {
			if field[i] == '=' {
				return nil, formatErrorf(c.lineNum, line, "key=value attribute syntax is not valid here")
			}
			i++
		}
		key := field[keyStart:i]
		for i < n && field[i] == ' ' {
			i++
		}
		if i >= n || field[i] == ';' {
			c.logger.Warn("attribute has no value",
				zap.String("key", key),
				zap.Int("line", c.lineNum))
			attrs.Add(key, "")
			continue
		}

		var value string
		if quote := field[i]; quote == '"' || quote == '\'' {
			i++
			var b strings.Builder
			closed := false
			for i < n {
				ch := field[i]
				if ch == '\\' {
					if i+1 >= n {
						break
					}
					i++
					switch field[i] {
					case '"', '\'', '\\':
						b.WriteByte(field[i])
					case 't':
						b.WriteByte('\t')
					case 'n':
						b.WriteByte('\n')
					default:
						c.logger.Warn("dropping unrecognized escape sequence",
							zap.String("escape", `\`+string(field[i])),
							zap.Int("line", c.lineNum))
					}
					i++
					continue
				}
				if ch == quote {
					closed = true
					i++
					break
				}
				b.WriteByte(ch)
				i++
			}
			if !closed {
				return nil, formatErrorf(c.lineNum, line, "attribute %q has an unterminated quoted value", key)
			}
			for i < n && field[i] == ' ' {
				i++
			}
			if i < n && field[i] != ';' {
				return nil, formatErrorf(c.lineNum, line, "attribute %q is not terminated by ';'", key)
			}
			value = b.String()
		} else {
			valStart := i
			for i < n && field[i] != ';' {
				i++
			}
			value = strings.TrimRight(field[valStart:i], " ")
		}
		attrs.Add(key, value)
	}
	return attrs, nil
}
