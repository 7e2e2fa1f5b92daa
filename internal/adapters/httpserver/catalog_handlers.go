package httpserver

import (
	"net/http"

	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.categories.List(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPost:
		var in usecase.CategoryInput
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, r, err)
			return
		}
		c, err := s.categories.Create(r.Context(), in)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 201, c)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiCategoryByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := pathUint(r, "/api/category/")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		c, err := s.categories.Get(r.Context(), id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodPatch, http.MethodPut:
		var patch usecase.CategoryPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeErr(w, r, err)
			return
		}
		c, err := s.categories.Update(r.Context(), id, patch)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, c)
	case http.MethodDelete:
		if err := s.categories.Delete(r.Context(), id); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "category deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiSubcategories(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var in usecase.SubcategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, r, err)
		return
	}
	sc, err := s.subcategories.Create(r.Context(), in)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, 201, sc)
}

// GET lists by parent category id; PATCH/DELETE address the subcategory id.
func (s *Server) apiSubcategoryByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := pathUint(r, "/api/subcategories/")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.subcategories.ListByCategory(r.Context(), id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPatch, http.MethodPut:
		var patch usecase.SubcategoryPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeErr(w, r, err)
			return
		}
		sc, err := s.subcategories.Update(r.Context(), id, patch)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, sc)
	case http.MethodDelete:
		if err := s.subcategories.Delete(r.Context(), id); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "subcategory deleted"})
	default:
		methodNotAllowed(w)
	}
}
