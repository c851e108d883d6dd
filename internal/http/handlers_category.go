package http

import (
	"net/http"

	"bizspese/internal/core"
	applog "bizspese/internal/log"
	"bizspese/internal/services"
)

// handleListCategories returns active categories, or all with ?all=true.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	all, err := boolParam(r.URL.Query(), "all")
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	cats, err := s.svc.Categories.List(r.Context(), all)
	if err != nil {
		writeError(w, r, applog.OpList, err)
		return
	}
	if cats == nil {
		cats = []core.Category{}
	}
	NewJSONResponse().Body(cats).Write(w)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in services.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	in.Name = sanitizeInput(in.Name)
	in.Description = sanitizeInput(in.Description)

	c, err := s.svc.Categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, applog.OpCreate, err)
		return
	}
	s.mutated()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/categories/"+c.ID).
		Body(c).
		Write(w)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Categories.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, applog.OpRead, err)
		return
	}
	NewJSONResponse().Body(c).Write(w)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var u core.CategoryUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	u.Name = sanitizePtr(u.Name)
	u.Description = sanitizePtr(u.Description)

	c, err := s.svc.Categories.Update(r.Context(), r.PathValue("id"), u)
	if err != nil {
		writeError(w, r, applog.OpUpdate, err)
		return
	}
	s.mutated()
	NewJSONResponse().Body(c).Write(w)
}

// handleDeleteCategory deactivates the category; it is never removed.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Categories.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, applog.OpDelete, err)
		return
	}
	s.mutated()
	NoContent().Write(w)
}
