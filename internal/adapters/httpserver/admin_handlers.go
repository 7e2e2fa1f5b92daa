package httpserver

import (
	"net/http"

	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

// apiContact: listing needs an admin session, submission is the public
// write path for site visitors.
func (s *Server) apiContact(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		list, err := s.contact.List(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPost:
		var in usecase.ContactInput
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, r, err)
			return
		}
		m, err := s.contact.Submit(r.Context(), in)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 201, m)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiContactByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id, err := pathUint(r, "/api/contact/")
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := s.contact.Delete(r.Context(), id); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]string{"message": "contact deleted successfully"})
}

func (s *Server) apiDashboard(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	stats, err := s.dashboard.Stats(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{"stats": stats})
}

func (s *Server) apiReset(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	if err := s.dashboard.Reset(r.Context()); err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]string{"message": "all tables have been reset successfully"})
}
