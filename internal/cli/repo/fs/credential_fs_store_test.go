package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/cli/repo"
)

func TestCredentialFSStore_SaveLoad_TrimsWhitespace(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pwd.hash")
	st := CredentialFSStore{Path: p}
	hash := crypto.HashPassword("abcd")
	if err := st.Save(hash); err != nil {
		t.Fatalf("save hash: %v", err)
	}
	// Дозапишем вручную лишние пробелы в конец файла, чтобы проверить trim
	f, _ := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	_, _ = f.WriteString("  \r\n")
	_ = f.Close()

	got, err := st.Load()
	if err != nil {
		t.Fatalf("load hash: %v", err)
	}
	if got != hash {
		t.Fatalf("hash not trimmed, got %q", got)
	}
	if !crypto.VerifyPassword("abcd", got) {
		t.Fatalf("stored hash does not verify")
	}
}

func TestCredentialFSStore_Load_MissingOrEmpty(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pwd.hash")
	st := CredentialFSStore{Path: p}
	// отсутствует файл
	if _, err := st.Load(); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing file, got %v", err)
	}
	// пустой файл
	_ = os.WriteFile(p, []byte("\n"), 0o600)
	if _, err := st.Load(); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty file, got %v", err)
	}
}

func TestCredentialFSStore_SaveEmptyError(t *testing.T) {
	st := CredentialFSStore{Path: filepath.Join(t.TempDir(), "pwd.hash")}
	if err := st.Save(""); err == nil {
		t.Fatalf("expected error for empty hash")
	}
}

func TestCredentialFSStore_Delete(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pwd.hash")
	st := CredentialFSStore{Path: p}
	// удаление отсутствующего файла не ошибка
	if err := st.Delete(); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := st.Save(crypto.HashPassword("abcd")); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := st.Delete(); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		t.Fatalf("file still exists: %v", err)
	}
}

func TestSecretFSStore_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "api.enc")
	st := NewSecretFSStore(p, nil)
	if _, err := st.Load(); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before save, got %v", err)
	}
	if err := st.Save("sk-test-123"); err != nil {
		t.Fatalf("save secret: %v", err)
	}
	raw, _ := os.ReadFile(p)
	if string(raw) == "sk-test-123" {
		t.Fatalf("secret stored in plaintext")
	}
	// файл читается кодеком ключа по умолчанию
	plain, err := crypto.NewPasswordCodec(crypto.DefaultPassword).Decrypt(string(raw))
	if err != nil || string(plain) != "sk-test-123" {
		t.Fatalf("secret not encrypted with default key: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("load secret: %v", err)
	}
	if got != "sk-test-123" {
		t.Fatalf("unexpected secret %q", got)
	}
}

func TestSecretFSStore_UndecryptableIsNotFound(t *testing.T) {
	p := filepath.Join(t.TempDir(), "api.enc")
	text, _ := crypto.NewPasswordCodec("wxyz").Encrypt([]byte("other"))
	_ = os.WriteFile(p, []byte(text), 0o600)
	st := NewSecretFSStore(p, nil)
	if _, err := st.Load(); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
