package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/repo"
)

// RecordExt — расширение файла зашифрованной записи.
const RecordExt = ".enc"

// MemoFSStore — файловое хранилище заметок: <root>/<partition>/<id>.enc.
// Каждая операция над разделом выполняется под мьютексом этого раздела.
type MemoFSStore struct {
	fsys   absfs.FileSystem
	index  repo.PartitionIndex
	logger *zap.SugaredLogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ repo.MemoStore = (*MemoFSStore)(nil)

// NewMemoFSStore создаёт хранилище поверх fsys. index может быть nil.
func NewMemoFSStore(fsys absfs.FileSystem, index repo.PartitionIndex, logger *zap.SugaredLogger) *MemoFSStore {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MemoFSStore{
		fsys:   fsys,
		index:  index,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func partitionDir(partition string) string {
	return path.Join("/", partition)
}

func recordPath(partition, memoID string) string {
	return path.Join("/", partition, memoID+RecordExt)
}

// lock захватывает мьютексы разделов в отсортированном порядке и возвращает функцию освобождения.
func (s *MemoFSStore) lock(partitions ...string) func() {
	names := make([]string, 0, len(partitions))
	seen := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		if !seen[p] {
			seen[p] = true
			names = append(names, p)
		}
	}
	sort.Strings(names)

	s.mu.Lock()
	held := make([]*sync.Mutex, 0, len(names))
	for _, p := range names {
		m, ok := s.locks[p]
		if !ok {
			m = &sync.Mutex{}
			s.locks[p] = m
		}
		held = append(held, m)
	}
	s.mu.Unlock()

	for _, m := range held {
		m.Lock()
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func checkIdentity(id model.Identity) error {
	if id.IsZero() {
		return repo.ErrNoIdentity
	}
	return ValidateName(id.Partition)
}

// Save шифрует заметку кодеком идентичности и атомарно записывает её в раздел.
func (s *MemoFSStore) Save(ctx context.Context, id model.Identity, memo model.Memo) error {
	if err := checkIdentity(id); err != nil {
		return err
	}
	if err := ValidateName(memo.ID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(memo)
	if err != nil {
		return fmt.Errorf("marshal memo: %w", err)
	}
	text, err := id.Codec.Encrypt(payload)
	if err != nil {
		return err
	}

	unlock := s.lock(id.Partition)
	defer unlock()

	dir := partitionDir(id.Partition)
	if err := s.fsys.MkdirAll(dir, 0o700); err != nil {
		return newStorageError("mkdir", dir, err)
	}
	if err := s.writeAtomic(recordPath(id.Partition, memo.ID), []byte(text)); err != nil {
		return err
	}
	s.touchIndex(ctx, id.Partition)
	return nil
}

// Load читает одну запись. Отсутствие файла и ошибки расшифровки дают (nil, nil).
func (s *MemoFSStore) Load(ctx context.Context, id model.Identity, memoID string) (*model.Memo, error) {
	if err := checkIdentity(id); err != nil {
		return nil, err
	}
	if err := ValidateName(memoID); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.lock(id.Partition)
	defer unlock()

	p := recordPath(id.Partition, memoID)
	data, err := s.readFile(p)
	if err != nil {
		if !isNotExist(err) {
			s.logger.Warnw("memo read failed", "partition", id.Partition, "id", memoID, "error", err)
		}
		return nil, nil
	}
	memo, err := decodeRecord(id, memoID, data)
	if err != nil {
		s.logger.Warnw("memo skipped", "partition", id.Partition, "id", memoID, "error", err)
		return nil, nil
	}
	return memo, nil
}

// LoadAll читает все записи раздела. Нечитаемые записи не прерывают перечисление.
func (s *MemoFSStore) LoadAll(ctx context.Context, id model.Identity) (model.LoadResult, error) {
	var res model.LoadResult
	if err := checkIdentity(id); err != nil {
		return res, err
	}

	unlock := s.lock(id.Partition)
	defer unlock()

	files, err := s.listRecordFiles(partitionDir(id.Partition))
	if err != nil {
		return res, err
	}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		memoID := strings.TrimSuffix(name, RecordExt)
		data, err := s.readFile(path.Join(partitionDir(id.Partition), name))
		if err == nil {
			var memo *model.Memo
			memo, err = decodeRecord(id, memoID, data)
			if err == nil {
				res.Memos = append(res.Memos, *memo)
				continue
			}
		}
		s.logger.Warnw("memo skipped", "partition", id.Partition, "file", name, "error", err)
		res.Skipped = append(res.Skipped, model.SkippedRecord{File: name, Reason: err.Error()})
	}
	sort.SliceStable(res.Memos, func(i, j int) bool {
		return res.Memos[i].UpdatedAt.After(res.Memos[j].UpdatedAt)
	})
	return res, nil
}

// Delete удаляет запись, если она есть.
func (s *MemoFSStore) Delete(ctx context.Context, id model.Identity, memoID string) error {
	if err := checkIdentity(id); err != nil {
		return err
	}
	if err := ValidateName(memoID); err != nil {
		return err
	}

	unlock := s.lock(id.Partition)
	defer unlock()

	p := recordPath(id.Partition, memoID)
	if err := s.fsys.Remove(p); err != nil {
		if isNotExist(err) {
			return nil
		}
		return newStorageError("remove", p, err)
	}
	s.touchIndex(ctx, id.Partition)
	return nil
}

// ListPartitions возвращает имена каталогов‑разделов под корнем хранилища.
func (s *MemoFSStore) ListPartitions(ctx context.Context) ([]string, error) {
	infos, err := s.readDir("/")
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, newStorageError("list", "/", err)
	}
	var res []string
	for _, fi := range infos {
		if fi.IsDir() && fi.Name() != "" {
			res = append(res, fi.Name())
		}
	}
	sort.Strings(res)
	return res, nil
}

// CountRecords считает файлы записей раздела без расшифровки.
func (s *MemoFSStore) CountRecords(ctx context.Context, partition string) (int, error) {
	if err := ValidateName(partition); err != nil {
		return 0, err
	}
	unlock := s.lock(partition)
	defer unlock()
	files, err := s.listRecordFiles(partitionDir(partition))
	return len(files), err
}

// RecordIDs возвращает id всех записей раздела.
func (s *MemoFSStore) RecordIDs(ctx context.Context, partition string) ([]string, error) {
	if err := ValidateName(partition); err != nil {
		return nil, err
	}
	unlock := s.lock(partition)
	defer unlock()
	files, err := s.listRecordFiles(partitionDir(partition))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(files))
	for _, name := range files {
		ids = append(ids, strings.TrimSuffix(name, RecordExt))
	}
	return ids, nil
}

// ReadRaw возвращает шифртекст записи без расшифровки.
func (s *MemoFSStore) ReadRaw(ctx context.Context, partition, memoID string) (string, error) {
	if err := ValidateName(partition); err != nil {
		return "", err
	}
	if err := ValidateName(memoID); err != nil {
		return "", err
	}
	unlock := s.lock(partition)
	defer unlock()
	p := recordPath(partition, memoID)
	data, err := s.readFile(p)
	if err != nil {
		if isNotExist(err) {
			return "", repo.ErrNotFound
		}
		return "", newStorageError("read", p, err)
	}
	return string(data), nil
}

// RemovePartition удаляет каталог раздела, только если он пуст.
func (s *MemoFSStore) RemovePartition(ctx context.Context, partition string) error {
	if err := ValidateName(partition); err != nil {
		return err
	}
	unlock := s.lock(partition)
	defer unlock()
	dir := partitionDir(partition)
	if err := s.fsys.Remove(dir); err != nil && !isNotExist(err) {
		return newStorageError("remove", dir, err)
	}
	if s.index != nil {
		if err := s.index.Remove(ctx, partition); err != nil {
			s.logger.Warnw("partition index update failed", "partition", partition, "error", err)
		}
	}
	return nil
}

// Scan перечисляет разделы с количеством записей; используется для сверки индекса.
func (s *MemoFSStore) Scan(ctx context.Context) ([]model.PartitionInfo, error) {
	names, err := s.ListPartitions(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]model.PartitionInfo, 0, len(names))
	for _, name := range names {
		if ValidateName(name) != nil {
			s.logger.Warnw("unexpected directory in store root", "name", name)
			continue
		}
		n, err := s.CountRecords(ctx, name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, model.PartitionInfo{Hash: name, Records: n})
	}
	return infos, nil
}

// decodeRecord расшифровывает и десериализует запись. Имя файла считается
// авторитетным id: после переименования при слиянии JSON хранит старый id.
func decodeRecord(id model.Identity, memoID string, data []byte) (*model.Memo, error) {
	plain, err := id.Codec.Decrypt(string(data))
	if err != nil {
		return nil, err
	}
	var memo model.Memo
	if err := json.Unmarshal(plain, &memo); err != nil {
		return nil, fmt.Errorf("unmarshal memo: %w", err)
	}
	memo.ID = memoID
	return &memo, nil
}

// touchIndex обновляет счётчик записей раздела в индексе. Вызывается под блокировкой раздела.
func (s *MemoFSStore) touchIndex(ctx context.Context, partition string) {
	if s.index == nil {
		return
	}
	files, err := s.listRecordFiles(partitionDir(partition))
	if err == nil {
		err = s.index.Upsert(ctx, partition, len(files))
	}
	if err != nil {
		s.logger.Warnw("partition index update failed", "partition", partition, "error", err)
	}
}

func (s *MemoFSStore) readFile(p string) ([]byte, error) {
	f, err := s.fsys.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *MemoFSStore) readDir(dir string) ([]os.FileInfo, error) {
	f, err := s.fsys.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdir(-1)
}

func (s *MemoFSStore) exists(p string) (bool, error) {
	_, err := s.fsys.Stat(p)
	if err == nil {
		return true, nil
	}
	if isNotExist(err) {
		return false, nil
	}
	return false, err
}

// listRecordFiles возвращает отсортированные имена *.enc файлов каталога.
// Отсутствующий каталог даёт пустой список.
func (s *MemoFSStore) listRecordFiles(dir string) ([]string, error) {
	infos, err := s.readDir(dir)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, newStorageError("list", dir, err)
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), RecordExt) {
			continue
		}
		names = append(names, fi.Name())
	}
	sort.Strings(names)
	return names, nil
}

// writeAtomic пишет данные во временный файл и переименовывает его в целевой.
func (s *MemoFSStore) writeAtomic(p string, data []byte) (err error) {
	tmp := p + ".tmp-" + uuid.NewString()
	f, err := s.fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return newStorageError("write", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = s.fsys.Remove(tmp)
		}
	}()
	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return newStorageError("write", tmp, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return newStorageError("sync", tmp, err)
	}
	if err = f.Close(); err != nil {
		return newStorageError("close", tmp, err)
	}
	if err = s.fsys.Rename(tmp, p); err != nil {
		return newStorageError("rename", p, err)
	}
	return nil
}

// isNotExist учитывает обёрнутые ошибки.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
