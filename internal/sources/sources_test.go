package sources

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
progressive:
  - id: eldiario
    name: elDiario.es
    url: https://www.eldiario.es
    feedUrl: https://www.eldiario.es/rss/
  - id: publico
    name: Público
    url: https://www.publico.es
    feedUrl: https://www.publico.es/rss/
centrist:
  - id: rtve
    name: RTVE Noticias
    url: https://www.rtve.es/noticias
    feedUrl: https://api2.rtve.es/rss/temas_noticias.xml
conservative:
  - id: abc
    name: ABC
    url: https://www.abc.es
    feedUrl: https://www.abc.es/rss/2.0/portada/
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRegistry(t *testing.T) {
	reg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	prog := reg.ForBias(BiasProgressive)
	if len(prog) != 2 {
		t.Fatalf("expected 2 progressive sources, got %d", len(prog))
	}
	if prog[0].ID != "eldiario" || prog[0].FeedURL != "https://www.eldiario.es/rss/" {
		t.Errorf("unexpected first progressive source: %+v", prog[0])
	}

	if got := len(reg.ForBias(BiasCentrist)); got != 1 {
		t.Errorf("expected 1 centrist source, got %d", got)
	}
	if reg.Count() != 4 {
		t.Errorf("expected 4 sources total, got %d", reg.Count())
	}
}

func TestForBiasUnknownCategory(t *testing.T) {
	reg, err := Load(writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := reg.ForBias(Bias("anarchist")); len(got) != 0 {
		t.Errorf("expected empty list for unknown bias, got %d sources", len(got))
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadEmptyCategory(t *testing.T) {
	reg, err := Load(writeConfig(t, "progressive:\ncentrist:\nconservative:\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, b := range AllBiases() {
		if len(reg.ForBias(b)) != 0 {
			t.Errorf("expected no sources for %s", b)
		}
	}
}
