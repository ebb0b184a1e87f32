package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"burokasa/internal/core"
	applog "burokasa/internal/log"
)

// maxRecordBody bounds record payloads; a bookkeeping entry is small.
const maxRecordBody = 1 << 20

// collectionKinds maps URL collection segments to source kinds.
var collectionKinds = map[string]core.SourceKind{
	"case-files":           core.KindCaseFile,
	"institution-files":    core.KindInstitutionFile,
	"office-expenses":      core.KindOfficeExpense,
	"institution-expenses": core.KindInstitutionExpense,
	"case-expenses":        core.KindCaseExpense,
}

// handleRecords dispatches /api/records/{collection} writes:
// POST creates a record, DELETE /{collection}/{id} removes one.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/records/"), "/")
	parts := strings.Split(rest, "/")

	kind, ok := collectionKinds[parts[0]]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection "+parts[0])
		return
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 1:
		s.handleCreateRecord(w, r, kind)
	case r.Method == http.MethodDelete && len(parts) == 2 && parts[1] != "":
		s.handleDeleteRecord(w, r, kind, parts[1])
	default:
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request, kind core.SourceKind) {
	var raw core.RawRecord
	body := http.MaxBytesReader(w, r.Body, maxRecordBody)
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "record must not be empty")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, err := s.reports.CreateRecord(ctx, kind, raw)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Record create failed",
			applog.FieldError, err, applog.FieldSourceKind, kind)
		writeError(w, http.StatusInternalServerError, "failed to create record")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, kind core.SourceKind, id string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := s.reports.DeleteRecord(ctx, kind, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		applog.FromContext(ctx).ErrorContext(ctx, "Record delete failed",
			applog.FieldError, err, applog.FieldSourceKind, kind, applog.FieldRecordID, id)
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
