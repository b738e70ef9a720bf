package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SecureMemo/internal/cli/crypto"
	"SecureMemo/internal/cli/model"
	fsrepo "SecureMemo/internal/cli/repo/fs"
	"SecureMemo/internal/cli/repo/sqlite"
)

// testEnv — сервисы поверх настоящего файлового хранилища и индекса в temp‑каталоге.
type testEnv struct {
	home  string
	store *fsrepo.MemoFSStore
	index *sqlite.PartitionIndexSQLite
	auth  AuthService
	memos *MemoServiceLocal
}

func openEnv(t *testing.T, home string) *testEnv {
	t.Helper()
	idx, err := sqlite.Open(filepath.Join(home, "index.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	store := fsrepo.NewMemoFSStore(fsrepo.NewOSFS(filepath.Join(home, "store")), idx, nil)
	creds := fsrepo.CredentialFSStore{Path: filepath.Join(home, "pwd.hash")}
	return &testEnv{
		home:  home,
		store: store,
		index: idx,
		auth:  NewAuthService(store, creds, idx, nil),
		memos: NewMemoServiceLocal(store, nil),
	}
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	return openEnv(t, t.TempDir())
}

func saveMemo(t *testing.T, env *testEnv, id model.Identity, memoID, title string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, env.store.Save(context.Background(), id, model.Memo{ID: memoID, Title: title, CreatedAt: now, UpdatedAt: now}))
}

func TestAuth_FreshInstall_NoCredential(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()

	st, infos, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateNoCredential, st)
	assert.Empty(t, infos)

	id, err := env.auth.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPartition, id.Partition)

	_, err = env.auth.Login(ctx, "abcd")
	assert.ErrorIs(t, err, ErrWrongState)
	_, _, err = env.auth.MergeLogin(ctx, "abcd")
	assert.ErrorIs(t, err, ErrWrongState)
}

func TestAuth_EndToEnd_SetPasswordThenLogin(t *testing.T) {
	home := t.TempDir()
	ctx := context.Background()

	env := openEnv(t, home)
	def, err := env.auth.Bootstrap(ctx)
	require.NoError(t, err)
	id, err := env.auth.SetPassword(ctx, def, "abcd")
	require.NoError(t, err)
	assert.Equal(t, crypto.HashPassword("abcd"), id.Partition)
	saveMemo(t, env, id, "n1", "Hello")
	require.NoError(t, env.index.Close())

	// новая сессия
	env = openEnv(t, home)
	st, _, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateSingleCredential, st)

	id, err = env.auth.Login(ctx, "abcd")
	require.NoError(t, err)
	got, err := env.memos.Get(ctx, id, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	_, err = env.auth.Login(ctx, "wxyz")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = env.auth.Login(ctx, "")
	assert.ErrorIs(t, err, crypto.ErrWeakPassword)
}

type mockCredStore struct{ mock.Mock }

func (m *mockCredStore) Save(hash string) error { return m.Called(hash).Error(0) }
func (m *mockCredStore) Load() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}
func (m *mockCredStore) Delete() error { return m.Called().Error(0) }

func TestAuth_WrongPassword_FailsBeforeAnyLoad(t *testing.T) {
	store := new(mockMemoStore)
	creds := new(mockCredStore)
	h := crypto.HashPassword("abcd")
	creds.On("Load").Return(h, nil)
	store.On("ListPartitions").Return([]string{h}, nil)
	store.On("CountRecords", h).Return(1, nil)

	svc := NewAuthService(store, creds, nil, nil)
	_, err := svc.Login(context.Background(), "wxyz")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	store.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "LoadAll", mock.Anything)
}

func TestAuth_SetPassword_MovesRecords(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	def := model.DefaultIdentity()
	saveMemo(t, env, def, "a", "first")
	saveMemo(t, env, def, "b", "second")

	_, err := env.auth.SetPassword(ctx, def, "ab")
	assert.ErrorIs(t, err, crypto.ErrWeakPassword)
	_, err = env.auth.SetPassword(ctx, model.Identity{}, "abcd")
	assert.ErrorIs(t, err, ErrWrongState)

	id, err := env.auth.SetPassword(ctx, def, "abcd")
	require.NoError(t, err)

	res, err := env.memos.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, res.Memos, 2)

	parts, err := env.store.ListPartitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id.Partition}, parts)

	st, infos, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateSingleCredential, st)
	require.Len(t, infos, 1)
	assert.Equal(t, 2, infos[0].Records)

	// смена пароля ещё раз
	id2, err := env.auth.SetPassword(ctx, id, "wxyz")
	require.NoError(t, err)
	res, err = env.memos.List(ctx, id2)
	require.NoError(t, err)
	assert.Len(t, res.Memos, 2)
	_, err = env.auth.Login(ctx, "abcd")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestAuth_DisablePassword(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	id, err := env.auth.SetPassword(ctx, model.DefaultIdentity(), "abcd")
	require.NoError(t, err)
	saveMemo(t, env, id, "n1", "Hello")

	def, err := env.auth.DisablePassword(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPartition, def.Partition)

	st, _, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateNoCredential, st)

	got, err := env.memos.Get(ctx, def, "n1")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

// seedMulti: два раздела с паролями abcd и wxyz, сохранён хеш abcd.
func seedMulti(t *testing.T, env *testEnv) (h1, h2 model.Identity) {
	t.Helper()
	ctx := context.Background()
	h1, err := env.auth.SetPassword(ctx, model.DefaultIdentity(), "abcd")
	require.NoError(t, err)
	h2 = model.NewIdentity(crypto.HashPassword("wxyz"), "wxyz")
	saveMemo(t, env, h1, "a", "a1")
	saveMemo(t, env, h1, "b", "b1")
	saveMemo(t, env, h2, "b", "b2")
	saveMemo(t, env, h2, "c", "c2")
	return h1, h2
}

func TestAuth_MultiCredential_MergeLogin(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	_, h2 := seedMulti(t, env)

	st, infos, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMultiCredential, st)
	assert.Len(t, infos, 2)

	_, err = env.auth.Login(ctx, "abcd")
	assert.ErrorIs(t, err, ErrWrongState)

	_, _, err = env.auth.MergeLogin(ctx, "qwer")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	// входим паролем второго раздела: он становится целевым
	id, report, err := env.auth.MergeLogin(ctx, "wxyz")
	require.NoError(t, err)
	assert.Equal(t, h2.Partition, id.Partition)
	assert.Equal(t, 2, report.Moved)
	assert.Len(t, report.Renamed, 1)

	st, infos, err = env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateSingleCredential, st)
	require.Len(t, infos, 1)
	assert.Equal(t, 4, infos[0].Records)

	// перенесённые записи остаются под ключом abcd, пока их не перешифровать
	res, err := env.memos.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, res.Memos, 2)
	assert.Len(t, res.Skipped, 2)

	adopted, err := env.memos.Adopt(ctx, id, "abcd")
	require.NoError(t, err)
	assert.Len(t, adopted.Adopted, 2)
	res, err = env.memos.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, res.Memos, 4)

	_, err = env.auth.Login(ctx, "wxyz")
	assert.NoError(t, err)
}

func TestAuth_MultiCredential_Select(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	h1, h2 := seedMulti(t, env)

	_, err := env.auth.Select(ctx, h1.Partition, "wxyz")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	_, err = env.auth.Select(ctx, "unknown", "abcd")
	assert.ErrorIs(t, err, ErrInvalidCredential)

	id, err := env.auth.Select(ctx, h2.Partition, "wxyz")
	require.NoError(t, err)
	res, err := env.memos.List(ctx, id)
	require.NoError(t, err)
	assert.Len(t, res.Memos, 2)

	// без слияния состояние не меняется
	st, _, err := env.auth.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateMultiCredential, st)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "multi-credential", StateMultiCredential.String())
	assert.Equal(t, "state(9)", State(9).String())
}
