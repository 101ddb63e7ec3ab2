package fwdeforge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func TestHashFile(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "dm.bin")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Digest(blake3.Sum256(content)); got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
	if got != HashBytes(content) {
		t.Error("HashFile and HashBytes disagree")
	}
}

func TestHashFile_Nonexistent(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
}

func TestDigest_String(t *testing.T) {
	d := HashBytes(nil)
	if s := d.String(); len(s) != 64 {
		t.Errorf("len(String()) = %d, want 64", len(s))
	}
}
