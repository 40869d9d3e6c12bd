package gff

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Version written at the top of every GFF3 output file.
const gff3Version = "3.1.25"

// Gff3Writer writes features in GFF3 format. The version directive is
// written when the writer is created, before any feature.
type Gff3Writer struct {
	w         *bufio.Writer
	headerErr error
}

// NewGff3Writer creates a writer and emits the ##gff-version directive.
func NewGff3Writer(w io.Writer) *Gff3Writer {
	gw := &Gff3Writer{w: bufio.NewWriter(w)}
	_, gw.headerErr = fmt.Fprintf(gw.w, "%s %s\n", versionDirective, gff3Version)
	return gw
}

// WriteComment writes a plain comment line. A leading # is added when
// text does not already carry one.
func (gw *Gff3Writer) WriteComment(text string) error {
	if gw.headerErr != nil {
		return gw.headerErr
	}
	if !strings.HasPrefix(text, "#") {
		text = "#" + text
	}
	_, err := fmt.Fprintln(gw.w, text)
	return err
}

// WriteSequenceRegion writes a ##sequence-region directive.
func (gw *Gff3Writer) WriteSequenceRegion(r *SequenceRegion) error {
	if gw.headerErr != nil {
		return gw.headerErr
	}
	_, err := fmt.Fprintf(gw.w, "%s %s %d %d\n",
		sequenceRegionDirective, escapeGff3Column(r.Contig), r.Start, r.End)
	return err
}

// WriteFlushMarker writes the ### directive closing the current group
// of features.
func (gw *Gff3Writer) WriteFlushMarker() error {
	if gw.headerErr != nil {
		return gw.headerErr
	}
	_, err := fmt.Fprintln(gw.w, flushDirective)
	return err
}

// Write writes one feature line.
func (gw *Gff3Writer) Write(f *Feature) error {
	if gw.headerErr != nil {
		return gw.headerErr
	}
	_, err := fmt.Fprintf(gw.w, "%s\t%s\t%s\t%d\t%d\t%s\t%c\t%s\t%s\n",
		escapeGff3Column(f.Contig),
		escapeGff3Column(f.Source),
		escapeGff3Column(f.Type),
		f.Start, f.End,
		formatScore(&f.BaseData),
		f.Strand,
		formatPhase(&f.BaseData),
		formatGff3Attributes(f.Attrs))
	return err
}

// WriteAll writes f and its whole subtree, one line per feature.
func (gw *Gff3Writer) WriteAll(f *Feature) error {
	for _, node := range f.Flatten() {
		if err := gw.Write(node); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (gw *Gff3Writer) Flush() error {
	return gw.w.Flush()
}

func formatScore(d *BaseData) string {
	if !d.HasScore {
		return missingField
	}
	return strconv.FormatFloat(d.Score, 'g', -1, 64)
}

func formatPhase(d *BaseData) string {
	if !d.HasPhase {
		return missingField
	}
	return strconv.Itoa(d.Phase)
}

func formatGff3Attributes(attrs *Attributes) string {
	if attrs == nil || attrs.Len() == 0 {
		return missingField
	}
	var b strings.Builder
	for i, key := range attrs.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(escapeGff3Attribute(key))
		b.WriteByte('=')
		for j, v := range attrs.Get(key) {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeGff3Attribute(v))
		}
	}
	return b.String()
}

// escapeGff3Column percent-encodes the characters that would break the
// tab-separated layout.
func escapeGff3Column(s string) string {
	return percentEscape(s, "\t\n\r%")
}

// escapeGff3Attribute additionally encodes the attribute-column
// structural characters.
func escapeGff3Attribute(s string) string {
	return percentEscape(s, "\t\n\r%;=,&")
}

func percentEscape(s, reserved string) string {
	if !strings.ContainsAny(s, reserved) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(reserved, s[i]) >= 0 {
			fmt.Fprintf(&b, "%%%02X", s[i])
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// GtfWriter writes features in GTF format.
type GtfWriter struct {
	w *bufio.Writer
}

// NewGtfWriter creates a GTF output writer.
func NewGtfWriter(w io.Writer) *GtfWriter {
	return &GtfWriter{w: bufio.NewWriter(w)}
}

// WriteComment writes a plain comment line.
func (gw *GtfWriter) WriteComment(text string) error {
	if !strings.HasPrefix(text, "#") {
		text = "#" + text
	}
	_, err := fmt.Fprintln(gw.w, text)
	return err
}

// Write writes one feature line.
func (gw *GtfWriter) Write(f *Feature) error {
	_, err := fmt.Fprintf(gw.w, "%s\t%s\t%s\t%d\t%d\t%s\t%c\t%s\t%s\n",
		f.Contig, f.Source, f.Type,
		f.Start, f.End,
		formatScore(&f.BaseData),
		f.Strand,
		formatPhase(&f.BaseData),
		formatGtfAttributes(f.Attrs))
	return err
}

// WriteAll writes f and its whole subtree, one line per feature.
func (gw *GtfWriter) WriteAll(f *Feature) error {
	for _, node := range f.Flatten() {
		if err := gw.Write(node); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (gw *GtfWriter) Flush() error {
	return gw.w.Flush()
}

func formatGtfAttributes(attrs *Attributes) string {
	if attrs == nil || attrs.Len() == 0 {
		return missingField
	}
	var b strings.Builder
	for _, key := range attrs.Keys() {
		for _, v := range attrs.Get(key) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(key)
			b.WriteString(` "`)
			b.WriteString(escapeGtfValue(v))
			b.WriteString(`";`)
		}
	}
	return b.String()
}

func escapeGtfValue(s string) string {
	if !strings.ContainsAny(s, "\"\\\t\n") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
