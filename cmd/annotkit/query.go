package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annotkit/annotkit/internal/gff"
	"github.com/annotkit/annotkit/internal/store"
)

func newQueryCmd() *cobra.Command {
	var (
		dbPath string
		ftype  string
	)

	cmd := &cobra.Command{
		Use:   "query <contig[:start-end]>",
		Short: "Query loaded annotations by region",
		Long: `Query a database built with 'annotkit load'. Matching records are
written as GFF3 lines. Positions are 1-based inclusive.`,
		Example: `  annotkit query chr1:1000000-2000000 --db annotations.duckdb
  annotkit query chr1 --type gene --db annotations.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(args[0], databasePath(dbPath), ftype)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: config key database.path)")
	cmd.Flags().StringVar(&ftype, "type", "", "Restrict to one feature type")

	return cmd
}

func parseRegion(arg string) (contig string, start, end int, err error) {
	colon := strings.LastIndexByte(arg, ':')
	if colon < 0 {
		return arg, 1, int(^uint(0) >> 1), nil
	}
	contig = arg[:colon]
	span := arg[colon+1:]
	dash := strings.IndexByte(span, '-')
	if dash < 0 {
		return "", 0, 0, fmt.Errorf("malformed region %q (want contig:start-end)", arg)
	}
	start, err1 := strconv.Atoi(strings.ReplaceAll(span[:dash], ",", ""))
	end, err2 := strconv.Atoi(strings.ReplaceAll(span[dash+1:], ",", ""))
	if err1 != nil || err2 != nil || start < 1 || end < start {
		return "", 0, 0, fmt.Errorf("malformed region %q (want contig:start-end)", arg)
	}
	return contig, start, end, nil
}

func runQuery(region, dbPath, ftype string) error {
	if dbPath == "" {
		return fmt.Errorf("no database path: pass --db or set database.path in config")
	}
	contig, start, end, err := parseRegion(region)
	if err != nil {
		return err
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	var features []*gff.Feature
	if ftype != "" && start == 1 && end == int(^uint(0)>>1) {
		features, err = s.QueryType(contig, ftype)
	} else {
		features, err = s.QueryRegion(contig, start, end)
	}
	if err != nil {
		return err
	}

	w := gff.NewGff3Writer(os.Stdout)
	for _, f := range features {
		if ftype != "" && f.Type != ftype {
			continue
		}
		if err := w.Write(f); err != nil {
			return err
		}
	}
	return w.Flush()
}
