package configfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/linqs/psl-runtime-go/value"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_FormatsAgree(t *testing.T) {
	dir := t.TempDir()

	jsonPath := writeFile(t, dir, "job.json", `{
		"rules": ["1.0: Friends(A, B) -> Likes(A)"],
		"options": {"inference": true, "iterations": 100}
	}`)

	yamlPath := writeFile(t, dir, "job.yaml", `
rules:
  - "1.0: Friends(A, B) -> Likes(A)"
options:
  inference: true
  iterations: 100
`)

	tomlPath := writeFile(t, dir, "job.toml", `
rules = ["1.0: Friends(A, B) -> Likes(A)"]

[options]
inference = true
iterations = 100
`)

	want := value.Mapping{
		"rules": value.Sequence{value.String("1.0: Friends(A, B) -> Likes(A)")},
		"options": value.Mapping{
			"inference":  value.Bool(true),
			"iterations": value.Number(100),
		},
	}

	for _, path := range []string{jsonPath, yamlPath, tomlPath} {
		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s): %v", path, err)
		}
		if !value.Equal(got, want) {
			t.Errorf("Load(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestLoad_UnknownExtensionIsJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "job.config", `{"a": 1}`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !value.Equal(got, value.Mapping{"a": value.Number(1)}) {
		t.Errorf("Load = %v", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", "rules: [unclosed")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoad_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", "{")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed json")
	}
}
