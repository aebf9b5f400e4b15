// Package storage keeps evaluated curves on disk, one directory per run
// holding metadata.json and rv.csv.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nashmit/TwoBody-1/internal/export"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one saved curve. The samples themselves live in
// rv.csv next to it.
type RunMetadata struct {
	ID               string         `json:"id"`
	Kind             string         `json:"kind"`
	Timestamp        time.Time      `json:"timestamp"`
	Params           map[string]any `json:"params"`
	Unit             string         `json:"unit"`
	T0               float64        `json:"t0_mjd"`
	A1SiniAU         float64        `json:"a1sini_au"`
	MassFunctionMsun float64        `json:"mass_function_msun"`
	Samples          int            `json:"samples"`
	Start            float64        `json:"start_mjd"`
	End              float64        `json:"end_mjd"`
}

// Save writes c as a new run and returns its ID.
func (s *Store) Save(c *export.Curve) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(c.Kind, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:               runID,
		Kind:             c.Kind,
		Timestamp:        now,
		Params:           c.Params,
		Unit:             c.Unit,
		T0:               c.T0,
		A1SiniAU:         c.A1SiniAU,
		MassFunctionMsun: c.MassFunctionMsun,
		Samples:          len(c.Times),
	}
	if len(c.Times) > 0 {
		meta.Start = c.Times[0]
		meta.End = c.Times[len(c.Times)-1]
	}

	if err := writeRun(runDir, meta, c); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta RunMetadata, c *export.Curve) error {
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := metaFile.Close(); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return export.ExportCSV(filepath.Join(runDir, "rv.csv"), c)
}

// List returns every readable run, oldest first. Directories without valid
// metadata are skipped.
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

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	dir, err := s.runDir(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadCurve rebuilds the saved curve from metadata.json and rv.csv.
func (s *Store) LoadCurve(runID string) (*export.Curve, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	dir, _ := s.runDir(runID)

	file, err := os.Open(filepath.Join(dir, "rv.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	times, values, unit, err := export.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}

	return &export.Curve{
		Kind:             meta.Kind,
		Params:           meta.Params,
		Unit:             unit,
		T0:               meta.T0,
		A1SiniAU:         meta.A1SiniAU,
		MassFunctionMsun: meta.MassFunctionMsun,
		Samples:          len(times),
		Times:            times,
		RV:               values,
	}, nil
}

// newRunDir creates a fresh run directory, suffixing the ID if two saves
// land on the same clock reading.
func (s *Store) newRunDir(kind string, now time.Time) (string, string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", kind, now.UnixNano())
	runID := base
	for i := 1; ; i++ {
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func (s *Store) runDir(runID string) (string, error) {
	if runID == "" || runID != filepath.Base(runID) || strings.HasPrefix(runID, ".") {
		return "", fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}
	return filepath.Join(s.baseDir, runID), nil
}
