package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/dunbrack"
)

// ErrNotFound is returned for an unknown run id.
var ErrNotFound = errors.New("storage: run not found")

// Store keeps saved runs as directories under a base directory.
type Store struct {
	baseDir string
}

// New returns a store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved run of queries.
type RunMetadata struct {
	ID        string             `json:"id"`
	Command   string             `json:"command"`
	Kinds     []string           `json:"kinds"`
	Timestamp time.Time          `json:"timestamp"`
	Library   string             `json:"library"`
	Backend   string             `json:"backend"`
	Seed      uint64             `json:"seed,omitempty"`
	Queries   int                `json:"queries"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Record is the answer to one query.
type Record struct {
	Kind     dunbrack.Kind      `json:"kind"`
	Phi      float64            `json:"phi"`
	Psi      float64            `json:"psi"`
	Rotamers []dunbrack.Rotamer `json:"rotamers"`
}

// NewRecord copies a query result.
func NewRecord(k dunbrack.Kind, phi, psi float64, set dunbrack.Rotamers) Record {
	return Record{Kind: k, Phi: phi, Psi: psi, Rotamers: set.Slice()}
}

var header = []string{
	"query", "res", "phi", "psi", "r1", "r2", "r3", "r4", "prob",
	"chi1", "chi2", "chi3", "chi4", "sig1", "sig2", "sig3", "sig4",
}

// Save writes meta and records under a fresh run id and returns the id.
// ID, Timestamp, Queries and Kinds of meta are filled in. A failed save
// leaves no run directory behind.
func (s *Store) Save(meta RunMetadata, records []Record) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now().UTC()
	meta.Queries = len(records)
	meta.Kinds = kindsOf(records)

	if err := writeRun(runDir, meta, records); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, records []Record) error {
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "rotamers.csv"))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, records); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

// WriteCSV writes one row per rotamer of every record.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for q, rec := range records {
		for _, r := range rec.Rotamers {
			row[0] = strconv.Itoa(q)
			row[1] = rec.Kind.String()
			row[2] = strconv.FormatFloat(rec.Phi, 'f', -1, 64)
			row[3] = strconv.FormatFloat(rec.Psi, 'f', -1, 64)
			for c := 0; c < dunbrack.MaxChi; c++ {
				row[4+c] = strconv.Itoa(int(r.Bins[c]))
				row[9+c] = formatFloat32(r.ChiMean[c])
				row[13+c] = formatFloat32(r.ChiSigma[c])
			}
			row[8] = formatFloat32(r.Prob)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func kindsOf(records []Record) []string {
	var kinds []string
	for _, r := range records {
		if tag := r.Kind.String(); !slices.Contains(kinds, tag) {
			kinds = append(kinds, tag)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// List returns the metadata of every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

// Load returns the metadata of runID, or ErrNotFound.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := uuid.Validate(runID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, runID)
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads back the records of a run.
func (s *Store) LoadRecords(runID string) ([]Record, error) {
	if err := uuid.Validate(runID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, runID)
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, "rotamers.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV is the inverse of WriteCSV.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []Record{}, nil
	}

	var records []Record
	for i, row := range rows[1:] {
		q, err := strconv.Atoi(row[0])
		if err != nil || q < len(records)-1 || q > len(records) {
			return nil, fmt.Errorf("storage: line %d: bad query index %q", i+2, row[0])
		}
		if q == len(records) {
			k, err := dunbrack.ParseKind(row[1])
			if err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", i+2, err)
			}
			rec := Record{Kind: k}
			if rec.Phi, err = strconv.ParseFloat(row[2], 64); err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", i+2, err)
			}
			if rec.Psi, err = strconv.ParseFloat(row[3], 64); err != nil {
				return nil, fmt.Errorf("storage: line %d: %w", i+2, err)
			}
			records = append(records, rec)
		}
		rec := &records[q]
		rot, err := parseRotamer(row, rec.Kind.NChi())
		if err != nil {
			return nil, fmt.Errorf("storage: line %d: %w", i+2, err)
		}
		rec.Rotamers = append(rec.Rotamers, rot)
	}
	return records, nil
}

func parseRotamer(row []string, nChi int) (dunbrack.Rotamer, error) {
	r := dunbrack.Rotamer{NChi: uint8(nChi)}
	p, err := strconv.ParseFloat(row[8], 32)
	if err != nil {
		return r, err
	}
	r.Prob = float32(p)
	for c := 0; c < dunbrack.MaxChi; c++ {
		b, err := strconv.ParseUint(row[4+c], 10, 8)
		if err != nil {
			return r, err
		}
		m, err := strconv.ParseFloat(row[9+c], 32)
		if err != nil {
			return r, err
		}
		sd, err := strconv.ParseFloat(row[13+c], 32)
		if err != nil {
			return r, err
		}
		r.Bins[c], r.ChiMean[c], r.ChiSigma[c] = uint8(b), float32(m), float32(sd)
	}
	return r, nil
}
