// Package export serializes run output to JSON for downstream plotting and
// analysis tools.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/atmodyn/internal/grid"
	"github.com/san-kum/atmodyn/internal/sim"
	"github.com/san-kum/atmodyn/internal/thermo"
)

// FieldData is one scalar field in row-major order, surface row first.
type FieldData struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// SnapshotData is a full state dump at one instant.
type SnapshotData struct {
	NX     int         `json:"nx"`
	NY     int         `json:"ny"`
	DX     float64     `json:"dx"`
	DY     float64     `json:"dy"`
	Time   float64     `json:"time"`
	Step   int         `json:"step"`
	Fields []FieldData `json:"fields"`
}

// ReportData is the serialized form of a column diagnostics report.
type ReportData struct {
	Column      int     `json:"column"`
	CAPE        float64 `json:"cape"`
	CIN         float64 `json:"cin"`
	LiftedIndex float64 `json:"lifted_index"`
	Class       string  `json:"class"`
	Inhibition  string  `json:"inhibition"`
}

// RunData bundles everything a finished run produced.
type RunData struct {
	Scenario       string             `json:"scenario"`
	Steps          int                `json:"steps"`
	FinalState     string             `json:"final_state"`
	KineticEnergy  []float64          `json:"kinetic_energy"`
	Warnings       []string           `json:"warnings,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
	Diagnostics    []ReportData       `json:"diagnostics,omitempty"`
	Snapshot       *SnapshotData      `json:"snapshot,omitempty"`
}

// FromSnapshot flattens a grid snapshot for serialization.
func FromSnapshot(s *grid.Snapshot, c sim.Clock) *SnapshotData {
	return &SnapshotData{
		NX:   s.NX,
		NY:   s.NY,
		DX:   s.DX,
		DY:   s.DY,
		Time: c.Time,
		Step: c.Step,
		Fields: []FieldData{
			{Name: "u", Values: s.U},
			{Name: "v", Values: s.V},
			{Name: "p", Values: s.P},
			{Name: "t", Values: s.T},
			{Name: "q", Values: s.Q},
		},
	}
}

// FromReports converts diagnostics reports for serialization.
func FromReports(reports []thermo.Report) []ReportData {
	out := make([]ReportData, len(reports))
	for i, r := range reports {
		out[i] = ReportData{
			Column:      r.Column,
			CAPE:        r.CAPE,
			CIN:         r.CIN,
			LiftedIndex: r.LiftedIndex,
			Class:       r.Class.String(),
			Inhibition:  r.Inhibition.String(),
		}
	}
	return out
}

// CollectRun assembles the export bundle from a finished engine.
func CollectRun(scenario string, e *sim.Engine, status sim.FinalStatus, reports []thermo.Report) *RunData {
	warnings := make([]string, len(status.Warnings))
	for i, w := range status.Warnings {
		warnings[i] = w.Message
	}
	return &RunData{
		Scenario:      scenario,
		Steps:         status.StepsCompleted,
		FinalState:    status.State.String(),
		KineticEnergy: e.KineticEnergyTrace(),
		Warnings:      warnings,
		Metrics:       status.Metrics,
		Diagnostics:   FromReports(reports),
		Snapshot:      FromSnapshot(e.Snapshot(), e.Clock()),
	}
}

// WriteJSON writes v to path, indented.
func WriteJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encode(f, v)
}

// WriteJSONTo streams v to an arbitrary writer (stdout in the CLI).
func WriteJSONTo(w io.Writer, v any) error {
	return encode(w, v)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
