package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite(t *testing.T) {
	cfg := NewConfig("/data/hub")
	cfg.Blob = BlobConfig{
		Type:       "sqlite",
		Key:        "items.json",
		SQLitePath: "/data/hub/blobs.db",
	}
	cfg.Encryption.Enabled = true

	m := &Manager{}

	var buf bytes.Buffer
	if err := m.Write(&buf, cfg); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.ListenAddr != cfg.ListenAddr {
		t.Errorf("ListenAddr = %q, want %q", got.ListenAddr, cfg.ListenAddr)
	}
	if got.Blob != cfg.Blob {
		t.Errorf("Blob = %+v, want %+v", got.Blob, cfg.Blob)
	}
	if got.Encryption != cfg.Encryption {
		t.Errorf("Encryption = %+v, want %+v", got.Encryption, cfg.Encryption)
	}
}

func TestManager_ReadDefaultsKey(t *testing.T) {
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(`
listen_addr = ":8080"

[blob]
type = "memory"
`))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Blob.Key != "items.json" {
		t.Errorf("Blob.Key = %q, want items.json default", cfg.Blob.Key)
	}
}

func TestManager_ReadInvalid(t *testing.T) {
	m := &Manager{}
	if _, err := m.Read(strings.NewReader("this is { not toml")); err == nil {
		t.Error("Read() error = nil, want decode error")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "hub.toml")
	cfg := NewConfig("/data/hub")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.Blob.Type != "filesystem" {
		t.Errorf("Blob.Type = %q, want filesystem default", got.Blob.Type)
	}

	// Initializing twice must fail rather than overwrite.
	if err := Init(path, cfg); err == nil {
		t.Error("second Init() error = nil, want error")
	}
}

func TestReadFromFile_Missing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("ReadFromFile() error = nil, want error")
	}
}
