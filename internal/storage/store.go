package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/shipsim/internal/dynamo"
	"github.com/san-kum/shipsim/internal/telemetry"
)

const (
	metadataFile  = "metadata.json"
	telemetryFile = "telemetry.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes how a run was configured. Save turns it into the
// persisted RunMetadata.
type RunInfo struct {
	Craft      string
	Parts      []string
	Mass       float64
	Dt         float64
	Duration   float64
	Integrator string
	Controller string
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Craft      string             `json:"craft"`
	Parts      []string           `json:"parts"`
	Mass       float64            `json:"mass"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Integrator string             `json:"integrator"`
	Controller string             `json:"controller"`
	FinalAlt   float64            `json:"final_altitude"`
	Metrics    map[string]float64 `json:"metrics"`
}

func runName(craft string) string {
	name := strings.ToLower(strings.TrimSpace(craft))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if name == "" {
		return "run"
	}
	return name
}

func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nothing to save")
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(info.Craft), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Craft:      info.Craft,
		Parts:      info.Parts,
		Mass:       info.Mass,
		Timestamp:  now,
		Dt:         info.Dt,
		Duration:   info.Duration,
		Steps:      result.StepsTaken,
		Integrator: info.Integrator,
		Controller: info.Controller,
		FinalAlt:   result.Final.Altitude(),
		Metrics:    result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, telemetryFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := telemetry.WriteCSV(csvFile, result.Snapshots); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, newest first. Directories without valid
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadTelemetry(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, telemetryFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	snaps, err := telemetry.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return snaps, nil
}
