package handlers

import (
	"net/http"

	"SecureMemo/internal/cli/model/view"
)

// StatusResponse — ответ GET /api/status.
type StatusResponse struct {
	State      string `json:"state"`
	Partition  string `json:"partition"`
	Records    int    `json:"records"`
	Partitions int    `json:"partitions"`
}

// Status отдаёт состояние входа и активный раздел
func (h *MemoHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, infos, err := h.Auth.State(r.Context())
	if err != nil {
		h.fail(w, "Status", err)
		return
	}
	resp := StatusResponse{State: st.String(), Partition: h.Identity.Partition, Partitions: len(infos)}
	for _, in := range infos {
		if in.Hash == h.Identity.Partition {
			resp.Records = in.Records
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Partitions отдаёт известные разделы, активный помечен
func (h *MemoHandler) Partitions(w http.ResponseWriter, r *http.Request) {
	_, infos, err := h.Auth.State(r.Context())
	if err != nil {
		h.fail(w, "Partitions", err)
		return
	}
	out := make([]view.PartitionView, 0, len(infos))
	for _, in := range infos {
		out = append(out, view.PartitionView{Hash: in.Hash, Records: in.Records, Active: in.Hash == h.Identity.Partition})
	}
	writeJSON(w, http.StatusOK, out)
}
