package http

import (
	"net/http"
	"time"

	"github.com/Yordi314/lanomina/internal/metrics"
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.projector.Snapshot(r.Context(), s.accountID(r), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	metrics.SnapshotsTotal.Inc()
	writeJSON(w, http.StatusOK, viewSnapshot(snap))
}
