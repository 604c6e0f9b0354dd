package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JRocha1994/archi-track/internal/domain/catalog"
)

var catalogPaths = map[string]catalog.Kind{
	"ventures":    catalog.KindVenture,
	"works":       catalog.KindWork,
	"disciplines": catalog.KindDiscipline,
	"designers":   catalog.KindDesigner,
}

type catalogResponse struct {
	Ventures    []catalog.Venture    `json:"ventures"`
	Works       []catalog.Work       `json:"works"`
	Disciplines []catalog.Discipline `json:"disciplines"`
	Designers   []catalog.Designer   `json:"designers"`
}

// updateCatalogRequest renames an entity and, for disciplines, changes the lead time.
type updateCatalogRequest struct {
	Name                    *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	AverageAnalysisLeadDays *int    `json:"average_analysis_lead_days,omitempty" validate:"omitempty,min=0"`
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request, ownerID string) {
	snap, err := s.services.Catalog.Snapshot(r.Context(), ownerID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, catalogResponse{
		Ventures:    nonNil(snap.Ventures()),
		Works:       nonNil(snap.Works()),
		Disciplines: nonNil(snap.Disciplines()),
		Designers:   nonNil(snap.Designers()),
	})
}

func (s *Server) createVenture(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req catalog.CreateVentureRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.services.Catalog.CreateVenture(r.Context(), ownerID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) createWork(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req catalog.CreateWorkRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	work, err := s.services.Catalog.CreateWork(r.Context(), ownerID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, work)
}

func (s *Server) createDiscipline(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req catalog.CreateDisciplineRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.services.Catalog.CreateDiscipline(r.Context(), ownerID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) createDesigner(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req catalog.CreateDesignerRequest
	if err := s.decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	d, err := s.services.Catalog.CreateDesigner(r.Context(), ownerID, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) updateCatalogEntity(kind catalog.Kind) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, ownerID string) {
		id := chi.URLParam(r, "id")
		var req updateCatalogRequest
		if err := s.decode(r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
		if req.Name == nil && req.AverageAnalysisLeadDays == nil {
			s.fail(w, r, badRequest("nothing to update"))
			return
		}
		if req.AverageAnalysisLeadDays != nil && kind != catalog.KindDiscipline {
			s.fail(w, r, badRequest("average_analysis_lead_days applies to disciplines only"))
			return
		}

		if req.Name != nil {
			if err := s.services.Catalog.Rename(r.Context(), ownerID, kind, id, *req.Name); err != nil {
				s.fail(w, r, err)
				return
			}
		}
		if req.AverageAnalysisLeadDays != nil {
			d, err := s.services.Catalog.SetDisciplineLeadDays(r.Context(), ownerID, id, *req.AverageAnalysisLeadDays)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, d)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) deleteCatalogEntity(kind catalog.Kind) func(http.ResponseWriter, *http.Request, string) {
	return func(w http.ResponseWriter, r *http.Request, ownerID string) {
		if err := s.services.Catalog.Delete(r.Context(), ownerID, kind, chi.URLParam(r, "id")); err != nil {
			s.fail(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
