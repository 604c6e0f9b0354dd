package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

type bulkUpdateRequest struct {
	IDs     []string               `json:"ids" validate:"required,min=1,dive,required"`
	Changes revision.UpdateRequest `json:"changes"`
}

type duplicateRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type revisionsResponse struct {
	Revisions []revision.Revision `json:"revisions"`
}

func (s *Server) queryRevisions(w http.ResponseWriter, r *http.Request, ownerID string) {
	v, err := parseView(r.URL.Query(), s.defaultPageSize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, snap, err := s.services.Query.Run(r.Context(), ownerID, v)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newQueryResponse(res, snap))
}

func (s *Server) createRevision(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req revision.CreateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rev, err := s.services.Revisions.Create(r.Context(), ownerID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rev)
}

func (s *Server) getRevision(w http.ResponseWriter, r *http.Request, ownerID string) {
	rev, err := s.services.Revisions.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) updateRevision(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req revision.UpdateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rev, err := s.services.Revisions.Update(r.Context(), ownerID, chi.URLParam(r, "id"), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (s *Server) deleteRevision(w http.ResponseWriter, r *http.Request, ownerID string) {
	if err := s.services.Revisions.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) nextNumber(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	group := revision.GroupKey{
		VentureID:    q.Get("venture_id"),
		WorkID:       q.Get("work_id"),
		DisciplineID: q.Get("discipline_id"),
		DesignerID:   q.Get("designer_id"),
	}
	n, err := s.services.Revisions.NextNumber(r.Context(), ownerID, group)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"next_number": n})
}

func (s *Server) bulkUpdate(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req bulkUpdateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	revs, err := s.services.Revisions.BulkUpdate(r.Context(), ownerID, req.IDs, req.Changes)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, revisionsResponse{Revisions: nonNil(revs)})
}

func (s *Server) duplicate(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req duplicateRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	revs, err := s.services.Revisions.Duplicate(r.Context(), ownerID, req.IDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, revisionsResponse{Revisions: nonNil(revs)})
}

// importCSV takes the file as the raw request body. dry_run=true validates
// the file without saving it.
func (s *Server) importCSV(w http.ResponseWriter, r *http.Request, ownerID string) {
	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.fail(w, r, badRequest("invalid dry_run %q", raw))
			return
		}
		dryRun = v
	}

	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	res, err := s.services.Importer.Import(r.Context(), ownerID, body, dryRun)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, &APIError{
				Code:    "FILE_TOO_LARGE",
				Message: "import file exceeds " + strconv.Itoa(maxImportBytes>>20) + " MiB",
			})
			return
		}
		s.fail(w, r, err)
		return
	}

	status := http.StatusCreated
	if dryRun {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request, ownerID string) {
	q := r.URL.Query()
	opts := activity.ListOptions{}
	if id := q.Get("revision_id"); id != "" {
		opts.RevisionID = &id
	}
	if typ := q.Get("type"); typ != "" {
		t := activity.Type(typ)
		opts.Type = &t
	}
	var err error
	if opts.Limit, err = intParam(q.Get("limit")); err != nil {
		s.fail(w, r, badRequest("invalid limit: %v", err))
		return
	}
	if opts.Offset, err = intParam(q.Get("offset")); err != nil {
		s.fail(w, r, badRequest("invalid offset: %v", err))
		return
	}

	entries, err := s.services.Activity.Recent(r.Context(), ownerID, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": nonNil(entries)})
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
