package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDirStoreRoundTrip(t *testing.T) {
	s, err := NewDirStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}

	key := "CIK0000320193-000032019324000123-aapl-20240928.htm"

	if s.Has(key) {
		t.Error("Has on empty store should be false")
	}
	if _, ok := s.Get(key); ok {
		t.Error("Get on empty store should miss")
	}

	if err := s.Put(key, "filing text"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !s.Has(key) {
		t.Error("Has after Put should be true")
	}
	got, ok := s.Get(key)
	if !ok || got != "filing text" {
		t.Errorf("Get = %q, %v; want filing text, true", got, ok)
	}
}

func TestDirStorePlainTextFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	if err := s.Put("key", "héllo"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "key.txt"))
	if err != nil {
		t.Fatalf("entry not written as <key>.txt: %v", err)
	}
	if string(data) != "héllo" {
		t.Errorf("file content = %q, want héllo", data)
	}
}

func TestDirStoreFlattensSeparators(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirStore(dir)
	if err != nil {
		t.Fatalf("NewDirStore: %v", err)
	}
	if err := s.Put("xsl/primary_doc.xml", "x"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "xsl_primary_doc.xml.txt")); err != nil {
		t.Errorf("expected flattened filename: %v", err)
	}
	if got, ok := s.Get("xsl/primary_doc.xml"); !ok || got != "x" {
		t.Errorf("Get with separator key = %q, %v", got, ok)
	}
}
