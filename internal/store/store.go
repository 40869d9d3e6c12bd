// Package store persists flattened annotation records in DuckDB so
// region queries do not require re-parsing the source file.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/annotkit/annotkit/internal/gff"
)

// Store manages a DuckDB connection holding loaded annotation records.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS features (
		contig VARCHAR,
		source VARCHAR,
		type VARCHAR,
		start_pos BIGINT,
		end_pos BIGINT,
		score DOUBLE,
		has_score BOOLEAN,
		strand VARCHAR,
		phase INTEGER,
		has_phase BOOLEAN,
		feature_id VARCHAR,
		feature_name VARCHAR,
		parent_ids VARCHAR,
		attributes VARCHAR
	)`)
	return err
}

// WriteFeatures batch-inserts records using the Appender API.
func (s *Store) WriteFeatures(features []*gff.Feature) error {
	if len(features) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "features")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, f := range features {
		if err := appender.AppendRow(
			f.Contig, f.Source, f.Type,
			int64(f.Start), int64(f.End),
			f.Score, f.HasScore,
			f.Strand.String(),
			int32(f.Phase), f.HasPhase,
			f.ID(), f.Name(),
			strings.Join(f.Attrs.Get(gff.AttrParent), ","),
			encodeAttributes(f.Attrs),
		); err != nil {
			return fmt.Errorf("append feature: %w", err)
		}
	}

	return appender.Flush()
}

// Clear removes all stored records.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM features")
	return err
}

// Count returns the number of stored records.
func (s *Store) Count() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM features").Scan(&n)
	return n, err
}

// QueryRegion returns every record overlapping [start, end] on contig,
// ordered by position. Attribute values survive the round trip; graph
// links do not, the result rows are unlinked.
func (s *Store) QueryRegion(contig string, start, end int) ([]*gff.Feature, error) {
	rows, err := s.db.Query(`SELECT
		contig, source, type, start_pos, end_pos,
		score, has_score, strand, phase, has_phase, attributes
		FROM features
		WHERE contig=? AND start_pos<=? AND end_pos>=?
		ORDER BY start_pos, end_pos`,
		contig, end, start)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	var out []*gff.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}

// QueryType returns every record of the given feature type on contig.
func (s *Store) QueryType(contig, ftype string) ([]*gff.Feature, error) {
	rows, err := s.db.Query(`SELECT
		contig, source, type, start_pos, end_pos,
		score, has_score, strand, phase, has_phase, attributes
		FROM features
		WHERE contig=? AND type=?
		ORDER BY start_pos, end_pos`,
		contig, ftype)
	if err != nil {
		return nil, fmt.Errorf("query type: %w", err)
	}
	defer rows.Close()

	var out []*gff.Feature
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}

func scanFeature(rows *sql.Rows) (*gff.Feature, error) {
	var (
		d        gff.BaseData
		start    int64
		end      int64
		strand   string
		phase    int32
		attrText string
	)
	if err := rows.Scan(
		&d.Contig, &d.Source, &d.Type, &start, &end,
		&d.Score, &d.HasScore, &strand, &phase, &d.HasPhase, &attrText,
	); err != nil {
		return nil, fmt.Errorf("scan feature: %w", err)
	}
	d.Start = int(start)
	d.End = int(end)
	d.Phase = int(phase)
	st, err := gff.DecodeStrand(strand)
	if err != nil {
		return nil, err
	}
	d.Strand = st
	d.Attrs, err = decodeAttributes(attrText)
	if err != nil {
		return nil, err
	}
	return gff.NewFeature(d), nil
}
