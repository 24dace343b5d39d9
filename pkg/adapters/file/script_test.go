package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/stackcalc/pkg/adapters/file"
	"github.com/aretw0/stackcalc/pkg/ports/tests"
)

func TestScript_Contract(t *testing.T) {
	dir := t.TempDir()
	content := "# cube\ndup\ndup\n\n*\n*\n"
	if err := os.WriteFile(filepath.Join(dir, "cube.txt"), []byte(content), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	source := file.Resolver(dir)("cube.txt")
	tests.ScriptSourceContractTest(t, source, []string{"# cube", "dup", "dup", "", "*", "*"})
}

func TestScript_Missing(t *testing.T) {
	source := file.Resolver(t.TempDir())("missing.txt")
	tests.MissingScriptContractTest(t, source)
}

func TestResolver_ConfinedToDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scripts")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	secret := filepath.Join(root, "secret.txt")
	if err := os.WriteFile(secret, []byte("db_password=hunter2\n"), 0644); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	resolve := file.Resolver(dir)
	for _, name := range []string{secret, "../secret.txt", "sub/../../secret.txt", ""} {
		if source := resolve(name); source != nil {
			t.Errorf("Resolver(%q) = %v, want nil", name, source)
		}
	}
}

func TestScript_SymlinkOutsideDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scripts")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	secret := filepath.Join(root, "secret.txt")
	if err := os.WriteFile(secret, []byte("1\n"), 0644); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	if err := os.Symlink(secret, filepath.Join(dir, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	source := file.Resolver(dir)("link.txt")
	tests.MissingScriptContractTest(t, source)
}

func TestScript_NestedName(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib", "one.txt"), []byte("1\n"), 0644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	source := file.Resolver(dir)("lib/../lib/one.txt")
	tests.ScriptSourceContractTest(t, source, []string{"1"})
}
