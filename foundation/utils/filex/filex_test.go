package filex

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindByExt(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.jack"), "class Main {}")
	writeFile(t, filepath.Join(dir, "sub", "Ball.JACK"), "class Ball {}")
	writeFile(t, filepath.Join(dir, "sub", "Ball.xml"), "<class/>")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	got, err := FindByExt(dir, "jack")
	if err != nil {
		t.Fatalf("FindByExt() error = %v", err)
	}
	want := []string{
		filepath.Join(dir, "Main.jack"),
		filepath.Join(dir, "sub", "Ball.JACK"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindByExt() = %v, want %v", got, want)
	}

	single, err := FindByExt(filepath.Join(dir, "Main.jack"), ".jack")
	if err != nil || len(single) != 1 {
		t.Errorf("FindByExt(file) = %v, %v", single, err)
	}

	none, err := FindByExt(filepath.Join(dir, "notes.txt"), ".jack")
	if err != nil || len(none) != 0 {
		t.Errorf("FindByExt(other file) = %v, %v", none, err)
	}

	if _, err := FindByExt(filepath.Join(dir, "missing"), ".jack"); err == nil {
		t.Error("FindByExt(missing) should fail")
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path, suffix, ext, want string
	}{
		{"src/Main.jack", "", ".xml", "src/Main.xml"},
		{"src/Main.jack", "T", "xml", "src/MainT.xml"},
		{"noext", "", ".xml", "noext.xml"},
	}
	for _, tt := range tests {
		if got := ReplaceExt(tt.path, tt.suffix, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q, %q) = %q, want %q", tt.path, tt.suffix, tt.ext, got, tt.want)
		}
	}
}

func TestSHA256Bytes(t *testing.T) {
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := SHA256Bytes([]byte("abc")); got != want {
		t.Errorf("SHA256Bytes() = %s, want %s", got, want)
	}
}

func TestNormalizeExt(t *testing.T) {
	for in, want := range map[string]string{"jack": ".jack", ".XML": ".xml", " ": "", ".jack": ".jack"} {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExistenceChecks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	writeFile(t, path, "")

	if !Exists(path) || !IsFile(path) || IsDir(path) {
		t.Error("file checks failed")
	}
	if !IsDir(dir) || IsFile(dir) {
		t.Error("dir checks failed")
	}
	if Exists(filepath.Join(dir, "nope")) {
		t.Error("Exists() = true for missing path")
	}
}
