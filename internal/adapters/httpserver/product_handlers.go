package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
	"github.com/sportsapparel/sport-apparel-admin/internal/usecase"
)

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		var subID uint
		if raw := q.Get("subcategoryId"); raw != "" {
			n, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				writeErr(w, r, domain.Invalid("invalid subcategoryId"))
				return
			}
			subID = uint(n)
		}
		listing, err := s.products.List(r.Context(), domain.ProductFilter{
			Page:            page,
			PageSize:        limit,
			SubcategoryID:   subID,
			IncludeInactive: q.Get("includeInactive") == "true",
		})
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, listing)
	case http.MethodPost:
		var in usecase.ProductInput
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, r, err)
			return
		}
		p, err := s.products.Create(r.Context(), in)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 201, p)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) apiProductByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeErr(w, r, domain.Invalid("invalid product id"))
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.Get(r.Context(), id)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]any{"success": true, "data": p})
	case http.MethodPut, http.MethodPatch:
		var patch usecase.ProductPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeErr(w, r, err)
			return
		}
		p, err := s.products.Update(r.Context(), id, patch)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, p)
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), id); err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, 200, map[string]string{"message": "product deleted"})
	default:
		methodNotAllowed(w)
	}
}

// POST /api/productImages appends gallery images to a product after its
// current last display position.
func (s *Server) apiProductImages(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		ProductID  string `json:"productId"`
		GalleryIDs []uint `json:"galleryIds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, r, err)
		return
	}
	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeErr(w, r, domain.Invalid("invalid productId"))
		return
	}
	assocs, err := s.products.AssociateImages(r.Context(), pid, req.GalleryIDs)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, 200, map[string]any{
		"message":      "images associated with product successfully",
		"associations": assocs,
	})
}

// GET /api/products/export streams the whole catalog as a spreadsheet,
// paging through the repo to keep memory flat.
func (s *Server) apiProductsExport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Name", "Slug", "Category", "Subcategory", "Active", "Min Order", "WhatsApp", "Meta Title", "Canonical URL", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	row := 2
	page := 1
	for {
		listing, err := s.products.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200, IncludeInactive: true})
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if len(listing.Products) == 0 {
			break
		}
		for _, p := range listing.Products {
			catName, subName := "", ""
			if p.Subcategory != nil {
				subName = p.Subcategory.Name
				if p.Subcategory.Category != nil {
					catName = p.Subcategory.Category.Name
				}
			}
			values := []any{
				p.ID.String(), p.Name, p.Slug, catName, subName,
				p.IsActive, p.MinOrder, p.WhatsappNumber,
				p.SEO.MetaTitle, p.SEO.CanonicalURL,
				p.CreatedAt.Format("2006-01-02"),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		if int64(page*200) >= listing.Total {
			break
		}
		page++
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=products-%s.xlsx", nowStamp()))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("xlsx write")
	}
}
