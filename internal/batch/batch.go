// Package batch answers a file of rotamer queries in parallel.
//
// A job file is YAML:
//
//	name: helix scan
//	queries:
//	  - residue: VAL
//	    phi: -60
//	    psi: -40
//	  - residue: ARG
//	    preset: alpha
//
// A query names its backbone either by angles or by a preset from
// internal/config. Results come back in file order and are identical to
// answering the queries one by one.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/config"
	"github.com/san-kum/dunbrack/internal/parallel"
	"github.com/san-kum/dunbrack/internal/storage"
)

// ErrInvalidQuery is wrapped by every Resolve failure.
var ErrInvalidQuery = errors.New("batch: invalid query")

// Source answers rotamer queries.
type Source interface {
	Rotamers(k dunbrack.Kind, phi, psi float64) dunbrack.Rotamers
}

// Job is a named list of queries.
type Job struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Queries     []Query `yaml:"queries"`
}

// Query is one entry of a job file.
type Query struct {
	Residue *dunbrack.Kind `yaml:"residue"`
	Phi     *float64       `yaml:"phi,omitempty"`
	Psi     *float64       `yaml:"psi,omitempty"`
	Preset  string         `yaml:"preset,omitempty"`
}

// Resolve returns the backbone angles of q.
func (q Query) Resolve() (phi, psi float64, err error) {
	switch {
	case q.Residue == nil:
		return 0, 0, fmt.Errorf("%w: missing residue", ErrInvalidQuery)
	case q.Preset != "" && (q.Phi != nil || q.Psi != nil):
		return 0, 0, fmt.Errorf("%w: preset %q and explicit angles", ErrInvalidQuery, q.Preset)
	case q.Preset != "":
		b, ok := config.FindPreset(q.Preset)
		if !ok {
			return 0, 0, fmt.Errorf("%w: unknown preset %q", ErrInvalidQuery, q.Preset)
		}
		return b.Phi, b.Psi, nil
	case q.Phi == nil || q.Psi == nil:
		return 0, 0, fmt.Errorf("%w: %v needs phi and psi or a preset", ErrInvalidQuery, *q.Residue)
	}
	return *q.Phi, *q.Psi, nil
}

// LoadJob reads and checks the job file at path.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJob(data)
}

// ParseJob decodes a YAML job and resolves every query.
func ParseJob(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	for i, q := range job.Queries {
		if _, _, err := q.Resolve(); err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}
	}
	return &job, nil
}

// Run answers every query of job using up to workers goroutines.
func Run(ctx context.Context, src Source, job *Job, workers int) ([]storage.Record, error) {
	type resolved struct {
		phi, psi float64
	}
	angles := make([]resolved, len(job.Queries))
	for i, q := range job.Queries {
		phi, psi, err := q.Resolve()
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i+1, err)
		}
		angles[i] = resolved{phi, psi}
	}

	records := make([]storage.Record, len(job.Queries))
	err := parallel.ForContext(ctx, len(job.Queries), 16, workers, func(start, end int) {
		for i := start; i < end; i++ {
			k, a := *job.Queries[i].Residue, angles[i]
			records[i] = storage.NewRecord(k, a.phi, a.psi, src.Rotamers(k, a.phi, a.psi))
		}
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
