package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/annotkit/annotkit/internal/allele"
)

func newAlleleCmd() *cobra.Command {
	var asRef bool

	cmd := &cobra.Command{
		Use:   "allele <encoding>...",
		Short: "Decode VCF allele encodings",
		Long: `Decode one or more VCF REF/ALT allele encodings and print their
classification: sequence alleles, symbolic alleles, breakends, spanning
deletions and no-calls.`,
		Example: `  annotkit allele A CGT '<DEL>' '*'
  annotkit allele 'A[2:321682[' 'C]17:198982]'
  annotkit allele --ref ACGT`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAllele(args, asRef)
		},
	}

	cmd.Flags().BoolVar(&asRef, "ref", false, "Decode as reference alleles")

	return cmd
}

func runAllele(encodings []string, asRef bool) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ENCODING\tKIND\tDETAIL")
	for _, enc := range encodings {
		a, err := allele.DecodeString(enc, asRef)
		if err != nil {
			return fmt.Errorf("decode %q: %w", enc, err)
		}
		kind, detail := describeAllele(a)
		fmt.Fprintf(w, "%s\t%s\t%s\n", a.String(), kind, detail)
	}
	return w.Flush()
}

func describeAllele(a allele.Allele) (kind, detail string) {
	switch v := a.(type) {
	case *allele.Inline:
		return "sequence", fmt.Sprintf("%d base(s)", v.NumBases())
	case *allele.Breakend:
		if v.IsSingle() {
			return "breakend", fmt.Sprintf("single, %v", v.Type())
		}
		mate := v.MateContig()
		if v.MateIsAssembly() {
			mate = "<" + mate + ">"
		}
		return "breakend", fmt.Sprintf("%v, mate %s:%d", v.Type(), mate, v.MatePosition())
	case *allele.Symbolic:
		if v.SVType() != allele.SVNone {
			return "symbolic", fmt.Sprintf("structural variant %v", v.SVType())
		}
		return "symbolic", "unrecognized ID"
	case *allele.Unspecified:
		return "unspecified", "matches any alternate"
	case *allele.ContigInsertion:
		return "contig insertion", "inserted contig " + v.Contig()
	default:
		switch {
		case a == allele.NoCall:
			return "no-call", "missing"
		case a == allele.SpanDel:
			return "spanning deletion", "overlapped by upstream deletion"
		}
		return "unknown", ""
	}
}
