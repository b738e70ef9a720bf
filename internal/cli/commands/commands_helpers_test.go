package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"SecureMemo/internal/config"
)

// withTempConfig возвращает конфиг, все артефакты которого (заметки/индекс/пароль/токен)
// создаются во временном каталоге; ввод паролей по умолчанию пустой.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	withInput(t, "")
	return &config.Config{
		Home:           dir,
		StoreDir:       filepath.Join(dir, "memos"),
		IndexPath:      filepath.Join(dir, "index.sqlite"),
		CredentialFile: filepath.Join(dir, "pwd.hash"),
		SecretFile:     filepath.Join(dir, "api.enc"),
		TokenFile:      filepath.Join(dir, ".memo_token"),
		BaseURL:        "localhost:8081",
	}
}

// withInput подменяет источник ввода паролей.
func withInput(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run выполняет команду через Dispatch и возвращает вывод и код выхода.
func run(t *testing.T, cfg *config.Config, args ...string) (string, int) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return out, code
}

var createdID = regexp.MustCompile(`id:\s+(\S+)`)

// mustCreate создаёт заметку командой new и возвращает её id.
func mustCreate(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	out, code := run(t, cfg, append([]string{"new"}, args...)...)
	if code != 0 {
		t.Fatalf("new failed (%d): %s", code, out)
	}
	m := createdID.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in output: %s", out)
	}
	return m[1]
}
