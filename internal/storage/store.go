package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/layout"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	statsFile    = "stats.csv"
	snapshotFile = "layout.json"
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
	ID         string             `json:"id"`
	Timestamp  time.Time          `json:"timestamp"`
	Graph      graph.Spec         `json:"graph"`
	Params     layout.Params      `json:"params"`
	Steps      int                `json:"steps"`
	Converged  bool               `json:"converged"`
	Energy     float64            `json:"energy"`
	ElapsedSec float64            `json:"elapsed_sec"`
	Metrics    map[string]float64 `json:"metrics"`
}

var statsHeader = []string{
	"step", "energy", "bodies", "springs", "tree_nodes", "tree_depth",
	"merged", "degenerate", "invalid_mass", "stable", "elapsed_us",
}

// Save writes a run directory holding its metadata, per-step stats and the
// final layout of g, and returns the run ID.
func (s *Store) Save(spec graph.Spec, params layout.Params, result *layout.Result, g layout.Graph) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", spec.Kind, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  now,
		Graph:      spec,
		Params:     params,
		Steps:      result.StepsTaken,
		Converged:  result.Converged,
		Energy:     result.Final.TotalKineticEnergy,
		ElapsedSec: result.Elapsed.Seconds(),
		Metrics:    result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeStats(filepath.Join(runDir, statsFile), result.History); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, snapshotFile), SnapshotOf(g.Bodies(), g.Springs())); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStats(path string, history []layout.Stats) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(statsHeader); err != nil {
		return err
	}
	for i, st := range history {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(st.TotalKineticEnergy, 'g', -1, 64),
			strconv.Itoa(st.Bodies),
			strconv.Itoa(st.Springs),
			strconv.Itoa(st.TreeNodes),
			strconv.FormatUint(uint64(st.TreeDepth), 10),
			strconv.Itoa(st.Merged),
			strconv.Itoa(st.Degenerate),
			strconv.Itoa(st.InvalidMass),
			strconv.FormatBool(st.Stable),
			strconv.FormatInt(st.Elapsed.Microseconds(), 10),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadStats reads back the per-step stats of a run. Bounds are not stored.
func (s *Store) LoadStats(runID string) ([]layout.Stats, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(statsHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) < 2 {
		return []layout.Stats{}, nil
	}

	out := make([]layout.Stats, 0, len(records)-1)
	for _, rec := range records[1:] {
		st, err := parseStats(rec)
		if err != nil {
			return nil, fmt.Errorf("run %s step %s: %w", runID, rec[0], err)
		}
		out = append(out, st)
	}
	return out, nil
}

func parseStats(rec []string) (layout.Stats, error) {
	var (
		st   layout.Stats
		errs []error
	)
	atoi := func(s string) int {
		n, err := strconv.Atoi(s)
		errs = append(errs, err)
		return n
	}

	energy, err := strconv.ParseFloat(rec[1], 64)
	errs = append(errs, err)
	st.TotalKineticEnergy = energy
	st.Bodies = atoi(rec[2])
	st.Springs = atoi(rec[3])
	st.TreeNodes = atoi(rec[4])
	st.TreeDepth = uint32(atoi(rec[5]))
	st.Merged = atoi(rec[6])
	st.Degenerate = atoi(rec[7])
	st.InvalidMass = atoi(rec[8])
	stable, err := strconv.ParseBool(rec[9])
	errs = append(errs, err)
	st.Stable = stable
	st.Elapsed = time.Duration(atoi(rec[10])) * time.Microsecond

	return st, errors.Join(errs...)
}

func (s *Store) LoadSnapshot(runID string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &snap, nil
}
