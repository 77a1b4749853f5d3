package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjaltalin/caselink/internal/model"
)

// RecordStore loads the persisted record set at the start of a run and
// fully replaces it at the end.
type RecordStore interface {
	Load() ([]model.Record, error)
	Save(records []model.Record) error
}

var csvHeader = []string{
	"supreme_case_number",
	"supreme_case_link",
	"appeals_case_number",
	"appeals_case_link",
	"source_type",
}

// CSVStore persists records as a UTF-8 CSV file with a header row
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the given file path
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads all records from disk. A missing file is an empty store, not
// an error. Columns are resolved by header name and a leading UTF-8 BOM on
// the header is tolerated.
func (s *CSVStore) Load() ([]model.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range csvHeader {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", s.path, name)
		}
	}

	field := func(row []string, name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.Record
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		src, err := model.ParseSourceType(field(row, "source_type"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", s.path, line, err)
		}

		records = append(records, model.Record{
			SupremeCaseNumber: field(row, "supreme_case_number"),
			SupremeCaseLink:   field(row, "supreme_case_link"),
			AppealsCaseNumber: field(row, "appeals_case_number"),
			AppealsCaseLink:   field(row, "appeals_case_link"),
			SourceType:        src,
		})
	}

	return records, nil
}

// Save replaces the on-disk record set. The file is written to a temporary
// path and renamed into place, so a failed run never leaves a partial file.
func (s *CSVStore) Save(records []model.Record) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err = w.Write(csvHeader); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.SupremeCaseNumber,
			r.SupremeCaseLink,
			r.AppealsCaseNumber,
			r.AppealsCaseLink,
			string(r.SourceType),
		}
		if err = w.Write(row); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flush: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	return nil
}
