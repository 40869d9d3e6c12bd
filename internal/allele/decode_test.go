package allele

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSingleBaseInterning(t *testing.T) {
	a, err := DecodeString("A", false)
	require.NoError(t, err)
	assert.Same(t, AltA, a)

	r, err := DecodeString("A", true)
	require.NoError(t, err)
	assert.Same(t, RefA, r)
	assert.True(t, r.IsReference())

	// Lowercase normalizes to the interned uppercase constant.
	l, err := DecodeString("g", false)
	require.NoError(t, err)
	assert.Same(t, AltG, l)
}

func TestDecodeMultiBase(t *testing.T) {
	a, err := DecodeString("AcGt", false)
	require.NoError(t, err)
	assert.Equal(t, "AcGt", a.String())
	assert.Equal(t, 4, a.NumBases())
	assert.Equal(t, byte('c'), a.BaseAt(1))
	assert.False(t, a.IsSymbolic())

	b, err := DecodeString("ACGT", false)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "base comparison is case-insensitive")
}

func TestDecodeMarkers(t *testing.T) {
	nc, err := DecodeString(".", false)
	require.NoError(t, err)
	assert.Same(t, NoCall, nc)

	sd, err := DecodeString("*", false)
	require.NoError(t, err)
	assert.Same(t, SpanDel, sd)

	_, err = DecodeString(".", true)
	assert.Error(t, err)
	_, err = DecodeString("*", true)
	assert.Error(t, err)
}

func TestDecodeSymbolic(t *testing.T) {
	a, err := DecodeString("<DEL>", false)
	require.NoError(t, err)
	sym, ok := a.(*Symbolic)
	require.True(t, ok)
	assert.True(t, sym.IsSymbolic())
	assert.Equal(t, SVDel, sym.SVType())
	assert.Equal(t, "<DEL>", sym.String())

	// SV type comes from the first colon-separated token of the ID.
	b, err := DecodeString("<DUP:TANDEM>", false)
	require.NoError(t, err)
	assert.Equal(t, SVDup, b.(*Symbolic).SVType())

	c, err := DecodeString("<MYCUSTOM>", false)
	require.NoError(t, err)
	assert.Equal(t, SVNone, c.(*Symbolic).SVType())
}

func TestDecodeUnspecified(t *testing.T) {
	a, err := DecodeString("<*>", false)
	require.NoError(t, err)
	assert.Same(t, UnspecifiedAlt, a)

	b, err := DecodeString("<NON_REF>", false)
	require.NoError(t, err)
	assert.Same(t, NonRef, b)

	assert.False(t, a.Equal(b), "the two spellings are distinct alleles")
}

func TestDecodeContigInsertion(t *testing.T) {
	a, err := DecodeString("G<ctg1>", false)
	require.NoError(t, err)
	ci, ok := a.(*ContigInsertion)
	require.True(t, ok)
	assert.Equal(t, "ctg1", ci.Contig())
	assert.Equal(t, 1, ci.NumBases())
	assert.Equal(t, "G<ctg1>", ci.String())
}

func TestDecodeRejectsNonInlineReference(t *testing.T) {
	for _, enc := range []string{"<DEL>", "<*>", "G<ctg1>", "A[2:321682["} {
		_, err := DecodeString(enc, true)
		assert.Error(t, err, enc)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []string{
		"",
		"AXGT",
		"<>",
		"<DE L>",
		"ACGT<",
	}
	for _, enc := range cases {
		_, err := DecodeString(enc, false)
		assert.Error(t, err, "encoding %q", enc)
		if err != nil {
			var ee *EncodingError
			assert.ErrorAs(t, err, &ee, "encoding %q", enc)
		}
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	encodings := []string{
		"A", "ACGT", "acgt",
		"<DEL>", "<INS:ME:ALU>", "<CUSTOM>",
		"<*>", "<NON_REF>",
		"G<ctg1>", "AT<chr7>",
		"A[2:321682[", "C]17:198982]", "]13:123456]T", "[17:198983[A",
		"G.", ".G",
		"A[<ctg1>:7[",
		".[13:1[",
	}
	for _, enc := range encodings {
		a, err := DecodeString(enc, false)
		require.NoError(t, err, enc)
		assert.Equal(t, enc, a.String(), "round trip of %q", enc)
	}
}

func TestMustDecodePanics(t *testing.T) {
	assert.Panics(t, func() { MustDecode("not an allele!", false) })
	assert.NotPanics(t, func() { MustDecode("ACGT", false) })
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	a, err := DecodeWithRegistry([]byte("<DEL>"), false, reg)
	require.NoError(t, err)
	b, err := DecodeWithRegistry([]byte("<DEL>"), false, reg)
	require.NoError(t, err)
	assert.Same(t, a, b, "registry interns symbolic alleles")
}

func TestInlinePrefixAndExtend(t *testing.T) {
	a := MustDecode("AC", false).(*Inline)
	b := MustDecode("ACGT", false).(*Inline)
	assert.True(t, a.IsPrefixOf(b))
	assert.False(t, b.IsPrefixOf(a))

	ext, err := Extend(a, []byte("GT"))
	require.NoError(t, err)
	assert.True(t, ext.Equal(b))
}
