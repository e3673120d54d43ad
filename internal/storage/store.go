// Package storage archives finished runs on disk so they can be listed,
// re-plotted, and analyzed later. Layout: one directory per run under the
// base dir, holding metadata.json, run.json, and trace.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/atmodyn/internal/export"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Steps     int                `json:"steps"`
	State     string             `json:"state"`
	GridNX    int                `json:"grid_nx"`
	GridNY    int                `json:"grid_ny"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save archives one run and returns its generated id.
func (s *Store) Save(data *export.RunData) (string, error) {
	runID := fmt.Sprintf("%s_%d", data.Scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  data.Scenario,
		Timestamp: time.Now(),
		Steps:     data.Steps,
		State:     data.FinalState,
		Metrics:   data.Metrics,
	}
	if data.Snapshot != nil {
		meta.GridNX = data.Snapshot.NX
		meta.GridNY = data.Snapshot.NY
	}

	if err := export.WriteJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := export.WriteJSON(filepath.Join(runDir, "run.json"), data); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, "trace.csv"), data.KineticEnergy); err != nil {
		return "", err
	}
	return runID, nil
}

// writeTrace stores the per-step kinetic energy series as CSV for external
// plotting tools.
func writeTrace(path string, ke []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"step", "kinetic_energy"}); err != nil {
		return err
	}
	for i, v := range ke {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(v, 'g', -1, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns metadata for all archived runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.loadMeta(entry.Name())
		if err != nil {
			continue // skip corrupt entries
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) loadMeta(runID string) (RunMetadata, error) {
	var meta RunMetadata
	raw, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(raw, &meta)
	return meta, err
}

// Load reads back a full archived run.
func (s *Store) Load(runID string) (*export.RunData, error) {
	raw, err := os.ReadFile(filepath.Join(s.baseDir, runID, "run.json"))
	if err != nil {
		return nil, err
	}
	var data export.RunData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
