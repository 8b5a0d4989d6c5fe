package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileVaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	vault := NewFileVault(path, "secret")

	if _, err := vault.Read(); err != ErrEmptyVault {
		t.Fatalf("Read on missing file = %v, want ErrEmptyVault", err)
	}

	want := []byte(`{"token":"tok","user":{"id":"u1"}}`)
	if err := vault.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := vault.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Read = %q, want %q", got, want)
	}

	// The file on disk must not contain the plaintext token.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(raw) == string(want) {
		t.Error("session persisted unsealed")
	}

	if err := vault.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := vault.Read(); err != ErrEmptyVault {
		t.Errorf("Read after Clear = %v, want ErrEmptyVault", err)
	}
	if err := vault.Clear(); err != nil {
		t.Errorf("second Clear = %v, want nil", err)
	}
}

func TestFileVaultWrongKeyReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := NewFileVault(path, "secret-a").Write([]byte("data")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := NewFileVault(path, "secret-b").Read(); err != ErrEmptyVault {
		t.Errorf("Read with wrong key = %v, want ErrEmptyVault", err)
	}
}

func TestFileVaultCorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := NewFileVault(path, "secret").Read(); err != ErrEmptyVault {
		t.Errorf("Read of corrupt file = %v, want ErrEmptyVault", err)
	}
}
