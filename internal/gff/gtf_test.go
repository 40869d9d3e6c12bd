package gff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAllGtf(t *testing.T, c *GtfCodec) []*Feature {
	t.Helper()
	var out []*Feature
	for {
		f, err := c.Decode()
		require.NoError(t, err)
		if f == nil {
			return out
		}
		out = append(out, f)
	}
}

func gtfLine(ftype, attrs string) string {
	return "chr1\thavana\t" + ftype + "\t1000\t9000\t.\t+\t.\t" + attrs
}

func TestGtfHierarchySynthesis(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1"; gene_name "GENE1";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("exon", `gene_id "g1"; transcript_id "t1"; exon_number "1";`),
		gtfLine("CDS", `gene_id "g1"; transcript_id "t1";`),
	), Deep)

	features := decodeAllGtf(t, c)
	require.Len(t, features, 4, "every feature is emitted")

	byType := map[string]*Feature{}
	for _, f := range features {
		byType[f.Type] = f
	}
	gene, transcript := byType["gene"], byType["transcript"]
	require.NotNil(t, gene)
	require.NotNil(t, transcript)

	assert.Equal(t, []*Feature{gene}, transcript.Parents())
	assert.ElementsMatch(t, []*Feature{byType["exon"], byType["CDS"]}, transcript.Children())
	assert.Equal(t, []*Feature{gene}, byType["exon"].TopLevelFeatures())
	assert.Len(t, gene.Flatten(), 4)
	assert.True(t, c.Done())
}

func TestGtfLinkingIsDeferred(t *testing.T) {
	// Components may precede their transcript, and transcripts their
	// gene; nothing is emitted until end of input.
	c := NewGtfCodec(sourceOf(
		gtfLine("exon", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("gene", `gene_id "g1";`),
	), Deep)

	features := decodeAllGtf(t, c)
	require.Len(t, features, 3)
	for _, f := range features {
		if f.Type == "exon" {
			require.Len(t, f.Parents(), 1)
			assert.Equal(t, "transcript", f.Parents()[0].Type)
		}
	}
}

func TestGtfAcceptsMRNAAsTranscript(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("mRNA", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("exon", `gene_id "g1"; transcript_id "t1";`),
	), Deep)

	features := decodeAllGtf(t, c)
	require.Len(t, features, 3)
	for _, f := range features {
		if f.Type == "exon" {
			require.Len(t, f.Parents(), 1)
			assert.Equal(t, "mRNA", f.Parents()[0].Type)
		}
	}
}

func TestGtfDuplicateGeneIsFatal(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("gene", `gene_id "g1";`),
	), Deep)
	_, err := c.Decode()
	assert.Error(t, err)
}

func TestGtfDuplicateTranscriptIsFatal(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
	), Deep)
	_, err := c.Decode()
	assert.Error(t, err)
}

func TestGtfUndefinedGeneIsFatal(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("transcript", `gene_id "missing"; transcript_id "t1";`),
	), Deep)
	_, err := c.Decode()
	assert.Error(t, err)
}

func TestGtfUndefinedTranscriptIsFatal(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("exon", `gene_id "g1"; transcript_id "missing";`),
	), Deep)
	_, err := c.Decode()
	assert.Error(t, err)
}

func TestGtfGeneIDMismatchIsFatal(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("gene", `gene_id "g2";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
		gtfLine("exon", `gene_id "g2"; transcript_id "t1";`),
	), Deep)
	_, err := c.Decode()
	assert.Error(t, err)
}

func TestGtfComments(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		"#!genome-build GRCh38",
		gtfLine("gene", `gene_id "g1";`),
	), Deep)

	decodeAllGtf(t, c)
	lines, text := c.Comments()
	assert.Equal(t, []int{1}, lines)
	assert.Equal(t, "#!genome-build GRCh38", text[1])
}

func TestGtfShallow(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("exon", `gene_id "g1"; transcript_id "missing";`),
	), Shallow)

	features := decodeAllGtf(t, c)
	require.Len(t, features, 1, "no linkage checks in shallow mode")
	assert.Empty(t, features[0].Parents())
}

func TestGtfValuelessAttributeKey(t *testing.T) {
	c := NewGtfCodec(sourceOf(
		gtfLine("gene", `gene_id "g1"; tag;`),
	), Deep)

	features := decodeAllGtf(t, c)
	require.Len(t, features, 1)
	assert.Equal(t, []string{""}, features[0].Attrs.Get("tag"))
}

func TestGtfAttributeLexer(t *testing.T) {
	c := NewGtfCodec(nil, Deep)

	cases := []struct {
		name  string
		field string
		check func(t *testing.T, attrs *Attributes)
	}{
		{
			name:  "quoted values",
			field: `gene_id "g1"; gene_name "GENE ONE";`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"g1"}, attrs.Get("gene_id"))
				assert.Equal(t, []string{"GENE ONE"}, attrs.Get("gene_name"))
			},
		},
		{
			name:  "bare values",
			field: `exon_number 7; level 2;`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"7"}, attrs.Get("exon_number"))
				assert.Equal(t, []string{"2"}, attrs.Get("level"))
			},
		},
		{
			name:  "repeated keys accumulate",
			field: `tag "basic"; tag "CCDS";`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"basic", "CCDS"}, attrs.Get("tag"))
			},
		},
		{
			name:  "escaped quote and semicolon inside quotes",
			field: `note "say \"hi\"; twice";`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{`say "hi"; twice`}, attrs.Get("note"))
			},
		},
		{
			name:  "tab and newline escapes",
			field: `note "a\tb\nc";`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"a\tb\nc"}, attrs.Get("note"))
			},
		},
		{
			name:  "unknown escape dropped",
			field: `note "a\qb";`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"ab"}, attrs.Get("note"))
			},
		},
		{
			name:  "single-quoted values",
			field: `gene_id 'g1'; note 'hello world';`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"g1"}, attrs.Get("gene_id"))
				assert.Equal(t, []string{"hello world"}, attrs.Get("note"))
			},
		},
		{
			name:  "valueless key kept with empty value",
			field: `gene_id "g1"; tag;`,
			check: func(t *testing.T, attrs *Attributes) {
				assert.Equal(t, []string{"g1"}, attrs.Get("gene_id"))
				assert.Equal(t, []string{""}, attrs.Get("tag"))
			},
		},
		{
			name:  "no attributes",
			field: ".",
			check: func(t *testing.T, attrs *Attributes) {
				assert.Zero(t, attrs.Len())
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attrs, err := c.parseGtfAttributes("", tc.field)
			require.NoError(t, err)
			tc.check(t, attrs)
		})
	}
}

func TestGtfAttributeLexerErrors(t *testing.T) {
	c := NewGtfCodec(nil, Deep)

	cases := []struct {
		name  string
		field string
	}{
		{"equals sign syntax", `gene_id=g1`},
		{"unterminated quote", `gene_id "g1`},
		{"missing pair separator", `gene_id "g1" note "x";`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.parseGtfAttributes("", tc.field)
			assert.Error(t, err)
		})
	}
}
