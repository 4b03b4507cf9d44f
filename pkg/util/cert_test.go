package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrGenerateCert(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "tls.crt")
	keyPath := filepath.Join(dir, "tls.key")

	cert, err := LoadOrGenerateCert(certPath, keyPath)
	if err != nil {
		t.Fatalf("LoadOrGenerateCert() failed: %v", err)
	}

	if _, err := os.Stat(certPath); os.IsNotExist(err) {
		t.Errorf("expected certificate file %s to exist", certPath)
	}
	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		t.Errorf("expected key file %s to exist", keyPath)
	}

	if len(cert.Certificate) == 0 {
		t.Errorf("generated certificate has no data")
	}
	if cert.PrivateKey == nil {
		t.Errorf("generated certificate has no private key")
	}
}

func TestLoadOrGenerateCertReusesExisting(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "tls.crt")
	keyPath := filepath.Join(dir, "tls.key")

	if _, err := LoadOrGenerateCert(certPath, keyPath); err != nil {
		t.Fatalf("LoadOrGenerateCert() failed: %v", err)
	}

	first, err := os.ReadFile(certPath)
	if err != nil {
		t.Fatalf("reading generated certificate: %v", err)
	}

	// A second call must load the existing pair, not regenerate it.
	if _, err := LoadOrGenerateCert(certPath, keyPath); err != nil {
		t.Fatalf("LoadOrGenerateCert() on existing files failed: %v", err)
	}

	second, err := os.ReadFile(certPath)
	if err != nil {
		t.Fatalf("re-reading certificate: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("existing certificate was regenerated")
	}
}

func TestLoadOrGenerateCertCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	certPath := filepath.Join(dir, "nested", "tls.crt")
	keyPath := filepath.Join(dir, "nested", "tls.key")

	if _, err := LoadOrGenerateCert(certPath, keyPath); err != nil {
		t.Fatalf("LoadOrGenerateCert() failed: %v", err)
	}

	if _, err := os.Stat(filepath.Dir(certPath)); os.IsNotExist(err) {
		t.Errorf("expected directory %s to exist", filepath.Dir(certPath))
	}
}

func TestLoadCertFromFilesInvalidPath(t *testing.T) {
	dir := t.TempDir()
	_, err := loadCertFromFiles(filepath.Join(dir, "missing.crt"), filepath.Join(dir, "missing.key"))
	if err == nil {
		t.Error("expected error loading certificate from missing paths, got nil")
	}
}
