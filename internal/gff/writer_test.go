package gff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGff3WriterEmitsVersion(t *testing.T) {
	var sb strings.Builder
	w := NewGff3Writer(&sb)
	require.NoError(t, w.Flush())

	assert.Equal(t, "##gff-version 3.1.25\n", sb.String())
}

func TestGff3WriterFeatureLine(t *testing.T) {
	attrs := NewAttributes()
	attrs.Add("ID", "g1")
	attrs.Add("Alias", "a")
	attrs.Add("Alias", "b")
	f := NewFeature(BaseData{
		Contig: "chr1", Source: "havana", Type: "gene",
		Start: 1000, End: 9000,
		Score: 0.5, HasScore: true,
		Strand: StrandForward,
		Phase:  2, HasPhase: true,
		Attrs: attrs,
	})

	var sb strings.Builder
	w := NewGff3Writer(&sb)
	require.NoError(t, w.Write(f))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "chr1\thavana\tgene\t1000\t9000\t0.5\t+\t2\tID=g1;Alias=a,b", lines[1])
}

func TestGff3WriterEscapesReservedCharacters(t *testing.T) {
	attrs := NewAttributes()
	attrs.Add("Note", "a,b;c=d")
	f := NewFeature(BaseData{
		Contig: "chr1", Source: "src", Type: "gene",
		Start: 1, End: 10, Strand: StrandNone,
		Attrs: attrs,
	})

	var sb strings.Builder
	w := NewGff3Writer(&sb)
	require.NoError(t, w.Write(f))
	require.NoError(t, w.Flush())

	assert.Contains(t, sb.String(), "Note=a%2Cb%3Bc%3Dd")
}

func TestGff3WriterMissingFields(t *testing.T) {
	f := NewFeature(BaseData{
		Contig: "chr1", Source: ".", Type: "gene",
		Start: 1, End: 10, Strand: StrandNone,
		Attrs: NewAttributes(),
	})

	var sb strings.Builder
	w := NewGff3Writer(&sb)
	require.NoError(t, w.Write(f))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Equal(t, "chr1\t.\tgene\t1\t10\t.\t.\t.\t.", lines[1])
}

func TestGff3WriterDirectives(t *testing.T) {
	var sb strings.Builder
	w := NewGff3Writer(&sb)
	require.NoError(t, w.WriteComment("genome-build GRCh38"))
	require.NoError(t, w.WriteSequenceRegion(&SequenceRegion{Contig: "chr1", Start: 1, End: 1000}))
	require.NoError(t, w.WriteFlushMarker())
	require.NoError(t, w.Flush())

	want := "##gff-version 3.1.25\n" +
		"#genome-build GRCh38\n" +
		"##sequence-region chr1 1 1000\n" +
		"###\n"
	assert.Equal(t, want, sb.String())
}

func TestGff3RoundTrip(t *testing.T) {
	input := []string{
		"##gff-version 3",
		"chr1\thavana\tgene\t1000\t9000\t.\t+\t.\tID=g1;Name=GENE1",
		"chr1\thavana\tmRNA\t1050\t8000\t.\t+\t.\tID=t1;Parent=g1",
		"chr1\thavana\texon\t1050\t1500\t.\t+\t.\tID=e1;Parent=t1",
	}
	c := NewGff3Codec(sourceOf(input...), Deep)

	var sb strings.Builder
	w := NewGff3Writer(&sb)
	for {
		f, err := c.Decode()
		require.NoError(t, err)
		if f == nil {
			break
		}
		require.NoError(t, w.WriteAll(f))
	}
	require.NoError(t, w.Flush())

	got := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, got, 4)
	assert.Equal(t, input[1:], got[1:], "feature lines survive the round trip")
}

func TestGtfWriterFeatureLine(t *testing.T) {
	attrs := NewAttributes()
	attrs.Add("gene_id", "g1")
	attrs.Add("transcript_id", "t1")
	f := NewFeature(BaseData{
		Contig: "chr1", Source: "havana", Type: "transcript",
		Start: 1000, End: 9000, Strand: StrandReverse,
		Attrs: attrs,
	})

	var sb strings.Builder
	w := NewGtfWriter(&sb)
	require.NoError(t, w.Write(f))
	require.NoError(t, w.Flush())

	assert.Equal(t,
		"chr1\thavana\ttranscript\t1000\t9000\t.\t-\t.\tgene_id \"g1\"; transcript_id \"t1\";\n",
		sb.String())
}

func TestGtfWriterEscapesQuotes(t *testing.T) {
	attrs := NewAttributes()
	attrs.Add("gene_id", "g1")
	attrs.Add("note", `say "hi"`)
	f := NewFeature(BaseData{
		Contig: "chr1", Source: ".", Type: "gene",
		Start: 1, End: 10, Strand: StrandNone,
		Attrs: attrs,
	})

	var sb strings.Builder
	w := NewGtfWriter(&sb)
	require.NoError(t, w.Write(f))
	require.NoError(t, w.Flush())

	assert.Contains(t, sb.String(), `note "say \"hi\"";`)
}

func TestGtfRoundTrip(t *testing.T) {
	input := []string{
		gtfLine("gene", `gene_id "g1";`),
		gtfLine("transcript", `gene_id "g1"; transcript_id "t1";`),
	}
	c := NewGtfCodec(sourceOf(input...), Shallow)

	var sb strings.Builder
	w := NewGtfWriter(&sb)
	for {
		f, err := c.Decode()
		require.NoError(t, err)
		if f == nil {
			break
		}
		require.NoError(t, w.Write(f))
	}
	require.NoError(t, w.Flush())

	got := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Equal(t, input, got)
}
