package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/shipsim/internal/dynamo"
)

type ExportData struct {
	Craft      string             `json:"craft"`
	Parts      []string           `json:"parts"`
	Mass       float64            `json:"mass"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Snapshots  []ExportSnapshot   `json:"snapshots"`
	Metrics    map[string]float64 `json:"metrics"`
}

type ExportSnapshot struct {
	Step     int        `json:"step"`
	Time     float64    `json:"time"`
	Altitude float64    `json:"altitude"`
	Airspeed float64    `json:"airspeed"`
	Pitch    float64    `json:"pitch"`
	Throttle float64    `json:"throttle"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
}

func NewExportData(info RunInfo, result *dynamo.Result) ExportData {
	data := ExportData{
		Craft:      info.Craft,
		Parts:      info.Parts,
		Mass:       info.Mass,
		Integrator: info.Integrator,
		Controller: info.Controller,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Steps:      result.StepsTaken,
		Snapshots:  make([]ExportSnapshot, len(result.Snapshots)),
		Metrics:    result.Metrics,
	}

	for i, s := range result.Snapshots {
		data.Snapshots[i] = ExportSnapshot{
			Step:     s.Step,
			Time:     s.Time,
			Altitude: s.Altitude,
			Airspeed: s.Airspeed,
			Pitch:    s.Pitch,
			Throttle: s.Throttle,
			Position: s.Position,
			Velocity: s.Velocity,
		}
	}
	return data
}

func ExportJSON(w io.Writer, info RunInfo, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(info, result))
}

func ExportJSONFile(path string, info RunInfo, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, info, result)
}
