package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("registers default sections", func(t *testing.T) {
		m, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if BrowserOf(m) == nil || LoggingOf(m) == nil {
			t.Fatal("default sections not registered")
		}
		if BrowserOf(m).Settings().Engine != EnginePlaywright {
			t.Error("expected default engine")
		}
	})

	t.Run("loads existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{"version":"1.0","sections":{"browser":{"engine":"static","headless":false},"logging":{"level":"debug"}}}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		m, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if b := BrowserOf(m).Settings(); b.Engine != EngineStatic || b.Headless {
			t.Errorf("browser section not loaded: %+v", b)
		}
		if LoggingOf(m).Settings().Level != "debug" {
			t.Error("logging section not loaded")
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("sections:\n  browser:\n    engine: lynx\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(path); err == nil {
			t.Fatal("expected validation error")
		}
	})

	t.Run("save and reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		m, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		BrowserOf(m).SetEngine(EngineChromedp)
		if err := m.SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}

		reloaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if BrowserOf(reloaded).Settings().Engine != EngineChromedp {
			t.Error("saved engine not reloaded")
		}
	})
}

func TestSectionLookup_MissingSection(t *testing.T) {
	m := NewManager(newMemoryStore())
	if BrowserOf(m) != nil || LoggingOf(m) != nil {
		t.Error("lookups on an empty manager should return nil")
	}
}
