package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/csvfetch/internal/core"
	"github.com/JonMunkholm/csvfetch/internal/logging"
)

// handleFetch returns the whole configured CSV file as a JSON array of
// header-keyed objects. The body is only written once every row has been
// decoded; any failure goes to the error stage with nothing sent.
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) error {
	start := time.Now()

	res, err := s.service.Fetch(r.Context())
	if err != nil {
		s.metrics.ObserveError(core.MapError(err).Code, time.Since(start))
		return err
	}

	body, err := encodeJSON(res.Rows)
	if err != nil {
		s.metrics.ObserveError("ERR000", time.Since(start))
		return fmt.Errorf("encode fetch response: %w", err)
	}

	elapsed := time.Since(start)
	s.metrics.ObserveSuccess(len(res.Rows), res.BytesRead, elapsed)
	logging.WithFields(r.Context(), "source", s.service.SourcePath()).Debug("fetch served",
		"rows", len(res.Rows),
		"columns", len(res.Columns),
		"bytes_read", res.BytesRead,
		"duration_ms", elapsed.Milliseconds(),
	)

	writeBody(w, http.StatusOK, body)
	return nil
}
