package gff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mkFeature builds a minimal node for graph tests. attrs alternates
// key, value pairs.
func mkFeature(t *testing.T, ftype, id string, attrs ...string) *Feature {
	t.Helper()
	require.Zero(t, len(attrs)%2, "attrs must be key/value pairs")
	a := NewAttributes()
	if id != "" {
		a.Add(AttrID, id)
	}
	for i := 0; i < len(attrs); i += 2 {
		a.Add(attrs[i], attrs[i+1])
	}
	return NewFeature(BaseData{
		Contig: "chr1", Source: "test", Type: ftype,
		Start: 1, End: 1000, Strand: StrandForward,
		Attrs: a,
	})
}

func TestAddParentLinksBothSides(t *testing.T) {
	gene := mkFeature(t, "gene", "g1")
	mrna := mkFeature(t, "mRNA", "t1")

	mrna.AddParent(gene)

	assert.Equal(t, []*Feature{gene}, mrna.Parents())
	assert.Equal(t, []*Feature{mrna}, gene.Children())
	assert.True(t, gene.IsTopLevel())
	assert.False(t, mrna.IsTopLevel())
	assert.Equal(t, []*Feature{gene}, mrna.TopLevelFeatures())
	assert.Equal(t, []*Feature{gene}, gene.TopLevelFeatures())
}

func TestAddParentPropagatesToDescendants(t *testing.T) {
	gene := mkFeature(t, "gene", "g1")
	mrna := mkFeature(t, "mRNA", "t1")
	exon := mkFeature(t, "exon", "e1")

	// Children attach before the gene arrives.
	exon.AddParent(mrna)
	assert.Equal(t, []*Feature{mrna}, exon.TopLevelFeatures())

	mrna.AddParent(gene)

	assert.Equal(t, []*Feature{gene}, mrna.TopLevelFeatures())
	assert.Equal(t, []*Feature{gene}, exon.TopLevelFeatures(),
		"existing descendants inherit the new ancestor")
}

func TestMultipleParents(t *testing.T) {
	gene1 := mkFeature(t, "gene", "g1")
	gene2 := mkFeature(t, "gene", "g2")
	exon := mkFeature(t, "exon", "e1")

	exon.AddParent(gene1)
	exon.AddParent(gene2)

	assert.ElementsMatch(t, []*Feature{gene1, gene2}, exon.Parents())
	assert.ElementsMatch(t, []*Feature{gene1, gene2}, exon.TopLevelFeatures())
}

func TestDerivesFromRestrictsAncestry(t *testing.T) {
	geneA := mkFeature(t, "gene", "geneA")
	geneB := mkFeature(t, "gene", "geneB")
	mrnaA := mkFeature(t, "mRNA", "mrnaA")
	mrnaB := mkFeature(t, "mRNA", "mrnaB")
	mrnaA.AddParent(geneA)
	mrnaB.AddParent(geneB)

	// A polycistronic product shared by both transcripts, pinned to
	// one lineage.
	cds := mkFeature(t, "CDS", "cds1", AttrDerivesFrom, "mrnaA")
	cds.AddParent(mrnaA)
	cds.AddParent(mrnaB)

	assert.Equal(t, []*Feature{geneA}, cds.TopLevelFeatures(),
		"only the Derives_from lineage contributes ancestors")
	assert.NotContains(t, geneA.Descendants(), mrnaB)
	assert.Contains(t, flatten(geneA), cds)
	assert.NotContains(t, flatten(geneB), cds,
		"the excluded lineage does not reach the derived feature")
}

func flatten(f *Feature) []*Feature { return f.Flatten() }

func TestDescendantsNoDuplicates(t *testing.T) {
	gene := mkFeature(t, "gene", "g1")
	mrna1 := mkFeature(t, "mRNA", "t1")
	mrna2 := mkFeature(t, "mRNA", "t2")
	exon := mkFeature(t, "exon", "e1")

	mrna1.AddParent(gene)
	mrna2.AddParent(gene)
	exon.AddParent(mrna1)
	exon.AddParent(mrna2)

	desc := gene.Descendants()
	assert.Len(t, desc, 3, "shared exon appears once")
	assert.Len(t, gene.Flatten(), 4)
}

func TestAncestors(t *testing.T) {
	gene := mkFeature(t, "gene", "g1")
	mrna := mkFeature(t, "mRNA", "t1")
	exon := mkFeature(t, "exon", "e1")
	mrna.AddParent(gene)
	exon.AddParent(mrna)

	assert.ElementsMatch(t, []*Feature{mrna, gene}, exon.Ancestors())
	assert.Empty(t, gene.Ancestors())
}

func TestCoFeatureClique(t *testing.T) {
	gene := mkFeature(t, "gene", "g1")
	seg1 := mkFeature(t, "CDS", "cds1")
	seg2 := mkFeature(t, "CDS", "cds1")
	seg3 := mkFeature(t, "CDS", "cds1")
	seg1.AddParent(gene)
	seg2.AddParent(gene)
	seg3.AddParent(gene)

	require.NoError(t, seg1.AddCoFeature(seg2))
	require.NoError(t, seg1.AddCoFeature(seg3))

	// Every segment sees every other, including ones it was never
	// directly linked with.
	assert.ElementsMatch(t, []*Feature{seg2, seg3}, seg1.CoFeatures())
	assert.ElementsMatch(t, []*Feature{seg1, seg3}, seg2.CoFeatures())
	assert.ElementsMatch(t, []*Feature{seg1, seg2}, seg3.CoFeatures())
}

func TestCoFeatureRequiresSameParents(t *testing.T) {
	gene1 := mkFeature(t, "gene", "g1")
	gene2 := mkFeature(t, "gene", "g2")
	seg1 := mkFeature(t, "CDS", "cds1")
	seg2 := mkFeature(t, "CDS", "cds1")
	seg1.AddParent(gene1)
	seg2.AddParent(gene2)

	assert.Error(t, seg1.AddCoFeature(seg2))
}

func TestCoFeatureRequiresSameID(t *testing.T) {
	a := mkFeature(t, "CDS", "cds1")
	b := mkFeature(t, "CDS", "cds2")
	assert.Error(t, a.AddCoFeature(b))
}

func TestFeatureEqualComparesGraphs(t *testing.T) {
	build := func() *Feature {
		gene := mkFeature(t, "gene", "g1")
		mrna := mkFeature(t, "mRNA", "t1")
		exon := mkFeature(t, "exon", "e1")
		mrna.AddParent(gene)
		exon.AddParent(mrna)
		return gene
	}
	a, b := build(), build()
	assert.True(t, a.Equal(b), "identical graphs compare equal")

	// Same node data, different structure.
	c := mkFeature(t, "gene", "g1")
	assert.False(t, a.Equal(c))

	// Extending one graph breaks equality even though the compared
	// nodes themselves are unchanged.
	extra := mkFeature(t, "exon", "e2")
	extra.AddParent(b.Children()[0])
	assert.False(t, a.Equal(b))
}
