package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/model/view"
	"SecureMemo/internal/cli/repo"
	"SecureMemo/internal/cli/service"
	"SecureMemo/internal/middleware"
)

// MemoHandler обслуживает заметки разблокированного раздела.
type MemoHandler struct {
	Memos    service.MemoService
	Auth     service.AuthService
	Identity model.Identity
	Logger   *zap.SugaredLogger
}

// NewMemoHandler создаёт хендлер заметок
func NewMemoHandler(memos service.MemoService, auth service.AuthService, id model.Identity, logger *zap.SugaredLogger) *MemoHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MemoHandler{Memos: memos, Auth: auth, Identity: id, Logger: logger}
}

// MemoRequest — тело POST/PUT. Отсутствующее поле в PUT не меняется.
type MemoRequest struct {
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	AudioPath *string `json:"audio_path,omitempty"`
}

// ListResponse — ответ GET /api/memos.
type ListResponse struct {
	Memos   []view.MemoView `json:"memos"`
	Skipped int             `json:"skipped"`
}

// requireSession пропускает только запросы с токеном, выпущенным для активного раздела.
func (h *MemoHandler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := middleware.GetSubjectFromContext(r.Context())
		if !ok || sub != h.Identity.Partition {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// List отдаёт все читаемые заметки, новые сверху
func (h *MemoHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.Memos.List(r.Context(), h.Identity)
	if err != nil {
		h.fail(w, "List", err)
		return
	}
	resp := ListResponse{Memos: make([]view.MemoView, 0, len(res.Memos)), Skipped: len(res.Skipped)}
	for _, m := range res.Memos {
		resp.Memos = append(resp.Memos, view.FromMemo(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get отдаёт одну заметку
func (h *MemoHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.Memos.Get(r.Context(), h.Identity, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Get", err)
		return
	}
	writeJSON(w, http.StatusOK, view.FromMemo(m))
}

// Create создаёт заметку
func (h *MemoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	var title, content string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Content != nil {
		content = *req.Content
	}
	m, err := h.Memos.Create(r.Context(), h.Identity, title, content)
	if err != nil {
		h.fail(w, "Create", err)
		return
	}
	if req.AudioPath != nil && *req.AudioPath != "" {
		if m, err = h.Memos.Update(r.Context(), h.Identity, m.ID, service.MemoPatch{AudioPath: req.AudioPath}); err != nil {
			h.fail(w, "Create", err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, view.FromMemo(m))
}

// Update применяет частичное изменение
func (h *MemoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req MemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Update: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	patch := service.MemoPatch{Title: req.Title, Content: req.Content, AudioPath: req.AudioPath}
	m, err := h.Memos.Update(r.Context(), h.Identity, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.fail(w, "Update", err)
		return
	}
	writeJSON(w, http.StatusOK, view.FromMemo(m))
}

// Delete удаляет заметку
func (h *MemoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Memos.Delete(r.Context(), h.Identity, chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MemoHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, repo.ErrInvalidName):
		http.Error(w, "invalid id", http.StatusBadRequest)
	default:
		h.Logger.Errorw(op+": service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
