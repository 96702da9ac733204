package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LaboratoryZero/matrixrain/internal/config"
)

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Seed:       42,
		Width:      1280,
		Height:     720,
		FPS:        60,
		Duration:   10,
		Transition: "glitch",
		Frames:     600,
		Output:     "out.gif",
		Rain:       config.RainConfig{TailColor: "#00c030"},
		Metrics: map[string]float64{
			"mean_speed": 8.5,
		},
	})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.ID != runID {
		t.Errorf("expected id %q, got %q", runID, meta.ID)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Transition != "glitch" {
		t.Errorf("expected transition glitch, got %q", meta.Transition)
	}
	if meta.Rain.TailColor != "#00c030" {
		t.Errorf("expected tail color #00c030, got %q", meta.Rain.TailColor)
	}
	if meta.Metrics["mean_speed"] != 8.5 {
		t.Errorf("expected mean_speed 8.5, got %f", meta.Metrics["mean_speed"])
	}
	if meta.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if _, err := st.Save(RunMetadata{Transition: "none", Frames: 60}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(RunMetadata{Transition: "drain", Frames: 120}); err != nil {
		t.Fatal(err)
	}

	// Junk entries are skipped.
	if err := os.MkdirAll(filepath.Join(tmpDir, "empty_dir"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "stray.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissing(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	runs := []RunMetadata{{ID: "none_1", Frames: 60}}
	if err := ExportJSON(path, runs); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}
