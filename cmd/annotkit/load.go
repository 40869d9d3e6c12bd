package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/annotkit/annotkit/internal/gff"
	"github.com/annotkit/annotkit/internal/store"
)

const batchSize = 10000

func newLoadCmd() *cobra.Command {
	var (
		inFormat string
		dbPath   string
		clear    bool
	)

	cmd := &cobra.Command{
		Use:   "load <file>",
		Short: "Load an annotation file into a DuckDB database",
		Long: `Stream a GFF3 or GTF file into a DuckDB database so regions can be
queried without re-parsing the file. Records are stored flattened.`,
		Example: `  annotkit load annotations.gff3 --db annotations.duckdb
  annotkit load --clear annotations.gtf.gz --db annotations.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args[0], inFormat, databasePath(dbPath), clear)
		},
	}

	cmd.Flags().StringVar(&inFormat, "format", "auto", "Input format: auto, gff3, gtf")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: config key database.path)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear previously loaded records first")

	return cmd
}

// databasePath resolves the database location from the flag or config.
func databasePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString("database.path")
}

func runLoad(path, inFormat, dbPath string, clear bool) error {
	if dbPath == "" {
		return fmt.Errorf("no database path: pass --db or set database.path in config")
	}

	dec, src, err := openDecoder(path, inFormat, gff.Shallow)
	if err != nil {
		return err
	}
	defer src.Close()

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if clear {
		if err := s.Clear(); err != nil {
			return err
		}
	}

	var total int64
	batch := make([]*gff.Feature, 0, batchSize)
	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.WriteFeatures(batch); err != nil {
			return err
		}
		total += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for {
		f, err := dec.Decode()
		if err != nil {
			return err
		}
		if f == nil {
			break
		}
		batch = append(batch, f)
		if len(batch) == batchSize {
			if err := flushBatch(); err != nil {
				return err
			}
		}
	}
	if err := flushBatch(); err != nil {
		return err
	}

	logger.Info("load complete",
		zap.String("file", path),
		zap.String("db", dbPath),
		zap.Int64("features", total))
	fmt.Printf("Loaded %d features from %s into %s\n", total, path, dbPath)
	return nil
}
