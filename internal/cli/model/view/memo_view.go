package view

import (
	"time"

	"SecureMemo/internal/cli/model"
)

// MemoView — DTO для отображения заметки в CLI и в ответах локального API.
type MemoView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	AudioPath string `json:"audio_path,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// FromMemo строит DTO из модели.
func FromMemo(m model.Memo) MemoView {
	v := MemoView{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if m.AudioPath != nil {
		v.AudioPath = *m.AudioPath
	}
	return v
}

// PartitionView — DTO раздела хранилища.
type PartitionView struct {
	Hash    string `json:"hash"`
	Records int    `json:"records"`
	Active  bool   `json:"active"`
}
