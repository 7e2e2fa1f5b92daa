package httpserver

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

// deleteURLs accepts either a single URL string or an array of them, the
// two shapes clients send on gallery deletes.
type deleteURLs []string

func (d *deleteURLs) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = deleteURLs{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return err
	}
	*d = deleteURLs(list)
	return nil
}

const maxUploadBytes = 32 << 20

// readUploadFiles pulls every part named "files" out of the multipart
// form, keeping original filenames and declared content types.
func readUploadFiles(r *http.Request) ([]usecase.UploadFile, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", domain.Invalid("invalid multipart form")
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, "", domain.Invalid("no files provided")
	}
	folder := r.FormValue("folder")
	files := make([]usecase.UploadFile, 0, len(r.MultipartForm.File["files"]))
	for _, hdr := range r.MultipartForm.File["files"] {
		f, err := hdr.Open()
		if err != nil {
			return nil, "", err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, "", err
		}
		files = append(files, usecase.UploadFile{
			Name:        hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, folder, nil
}

func (s *Server) apiGallery(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		list, err := s.gallery.List(r.Context())
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, list)
	case http.MethodPost:
		files, _, err := readUploadFiles(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		rows, err := s.gallery.Upload(r.Context(), files, "")
		if err != nil {
			writeErr(w, r, err)
			return
		}
		urls := make([]string, len(rows))
		for i, img := range rows {
			urls[i] = img.ImageURL
		}
		writeJSON(w, 200, map[string]any{"success": true, "urls": urls, "images": rows})
	case http.MethodDelete:
		var req struct {
			ImageURLs deleteURLs `json:"imageUrls"`
			DeleteAll bool       `json:"deleteAll"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, r, err)
			return
		}
		if err := s.gallery.Delete(r.Context(), req.ImageURLs, req.DeleteAll); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "images deleted successfully"})
	default:
		methodNotAllowed(w)
	}
}

// POST uploads without creating gallery rows; DELETE purges a media
// folder on the hosting side.
func (s *Server) apiUpload(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodPost:
		files, folder, err := readUploadFiles(r)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		urls, err := s.gallery.UploadOnly(r.Context(), files, folder)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"urls": urls})
	case http.MethodDelete:
		var req struct {
			Folder string `json:"folder"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeErr(w, r, err)
			return
		}
		if err := s.gallery.PurgeFolder(r.Context(), req.Folder); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "folder purged"})
	default:
		methodNotAllowed(w)
	}
}
