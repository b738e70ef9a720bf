package model

import "time"

// DefaultTitle — заголовок новой заметки по умолчанию.
const DefaultTitle = "New memo"

// Memo - base memo model. Сериализуется в JSON перед шифрованием.
type Memo struct {
	ID        string    `json:"Id"`
	Title     string    `json:"Title"`
	Content   string    `json:"Content"`
	AudioPath *string   `json:"AudioPath,omitempty"` // путь к связанной аудиозаписи
	CreatedAt time.Time `json:"CreatedAt"`
	UpdatedAt time.Time `json:"UpdatedAt"`
}

// SkippedRecord — запись, которую не удалось прочитать при перечислении раздела.
type SkippedRecord struct {
	File   string
	Reason string
}

// LoadResult — результат LoadAll: прочитанные заметки и пропущенные записи.
type LoadResult struct {
	Memos   []Memo
	Skipped []SkippedRecord
}
