package fs

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	"SecureMemo/internal/cli/model"
)

// Merge переносит записи из разделов sources в раздел target.
// Шифртекст не расшифровывается: файлы перемещаются как есть. При совпадении
// имени запись получает новый уникальный id, существующие записи target не перезаписываются.
// Повторный запуск с теми же аргументами ничего не меняет.
func (s *MemoFSStore) Merge(ctx context.Context, sources []string, target string) (model.MergeReport, error) {
	report := model.MergeReport{Target: target}
	if err := ValidateName(target); err != nil {
		return report, err
	}
	for _, src := range sources {
		if err := ValidateName(src); err != nil {
			return report, err
		}
	}

	unlock := s.lock(append([]string{target}, sources...)...)
	defer unlock()

	targetDir := partitionDir(target)
	var removed []string
	for _, src := range sources {
		if src == target {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		srcDir := partitionDir(src)
		ok, err := s.exists(srcDir)
		if err != nil {
			return report, newStorageError("stat", srcDir, err)
		}
		if !ok {
			report.SkippedSources = append(report.SkippedSources, src)
			removed = append(removed, src)
			continue
		}
		if err := s.fsys.MkdirAll(targetDir, 0o700); err != nil {
			return report, newStorageError("mkdir", targetDir, err)
		}

		files, err := s.listRecordFiles(srcDir)
		if err != nil {
			return report, err
		}
		for _, name := range files {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			dst := path.Join(targetDir, name)
			taken, err := s.exists(dst)
			if err != nil {
				return report, newStorageError("stat", dst, err)
			}
			if taken {
				newID, err := s.freshID(target)
				if err != nil {
					return report, err
				}
				dst = recordPath(target, newID)
				report.Renamed = append(report.Renamed, model.Rename{
					Source: src,
					From:   strings.TrimSuffix(name, RecordExt),
					To:     newID,
				})
			}
			from := path.Join(srcDir, name)
			if err := s.fsys.Rename(from, dst); err != nil {
				return report, newStorageError("rename", from, err)
			}
			report.Moved++
		}

		// каталог может быть непустым из‑за посторонних файлов — это не ошибка
		if err := s.fsys.Remove(srcDir); err != nil {
			s.logger.Warnw("source partition not removed after merge", "partition", src, "error", err)
			report.LeftoverSources = append(report.LeftoverSources, src)
			continue
		}
		removed = append(removed, src)
	}

	if s.index != nil {
		files, err := s.listRecordFiles(targetDir)
		if err == nil {
			err = s.index.ApplyMerge(ctx, target, len(files), removed)
		}
		if err != nil {
			s.logger.Warnw("partition index update failed", "partition", target, "error", err)
		}
	}
	s.logger.Infow("partitions merged",
		"target", target,
		"moved", report.Moved,
		"renamed", len(report.Renamed),
		"leftover", len(report.LeftoverSources),
	)
	return report, nil
}

// freshID подбирает id, под которым в разделе ещё нет записи.
func (s *MemoFSStore) freshID(partition string) (string, error) {
	for {
		id := uuid.NewString()
		p := recordPath(partition, id)
		taken, err := s.exists(p)
		if err != nil {
			return "", newStorageError("stat", p, err)
		}
		if !taken {
			return id, nil
		}
	}
}
