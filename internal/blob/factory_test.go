package blob

import (
	"context"
	"path/filepath"
	"testing"

	"hub-go/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.BlobConfig
		wantErr bool
	}{
		{
			name: "memory store",
			cfg:  config.BlobConfig{Type: "memory"},
		},
		{
			name: "filesystem store",
			cfg:  config.BlobConfig{Type: "filesystem", FSRoot: filepath.Join(tmpDir, "fs")},
		},
		{
			name:    "filesystem store without root",
			cfg:     config.BlobConfig{Type: "filesystem"},
			wantErr: true,
		},
		{
			name: "sqlite store",
			cfg:  config.BlobConfig{Type: "sqlite", SQLitePath: filepath.Join(tmpDir, "blobs.db")},
		},
		{
			name:    "sqlite store without path",
			cfg:     config.BlobConfig{Type: "sqlite"},
			wantErr: true,
		},
		{
			name:    "redis store without addr",
			cfg:     config.BlobConfig{Type: "redis"},
			wantErr: true,
		},
		{
			name:    "s3 store without bucket",
			cfg:     config.BlobConfig{Type: "s3"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			cfg:     config.BlobConfig{Type: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStoreFromConfig(context.Background(), tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStoreFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if store == nil {
				t.Fatal("NewStoreFromConfig() returned nil store")
			}
			store.Close()
		})
	}
}
