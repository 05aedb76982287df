package mockapi

import (
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

const maxUploadBytes = 8 << 20

func pathID(r *http.Request, key string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return id
}

// uploadedFile reads the "file" part of a multipart request and returns its public URL.
func uploadedFile(r *http.Request, field, prefix string, id int64) (string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", err
	}
	f, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return fmt.Sprintf("/uploads/%s/%d/%s", prefix, id, path.Base(header.Filename)), nil
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	active, err := boolFilter(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	name := r.URL.Query().Get("name")

	s.data.mu.Lock()
	var out []adminapi.Brand
	for _, id := range sortedKeys(s.data.brands) {
		b := s.data.brands[id]
		if !containsFold(b.Name, name) || (active != nil && b.Active != *active) {
			continue
		}
		out = append(out, *b)
	}
	s.data.mu.Unlock()

	writeData(w, r, http.StatusOK, "Brands fetched", paginate(r, out))
}

func (s *Server) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	b, ok := s.data.brands[pathID(r, "id")]
	var out adminapi.Brand
	if ok {
		out = *b
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
		return
	}
	writeData(w, r, http.StatusOK, "Brand fetched", out)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var form adminapi.BrandForm
	if err := decodeBody(r, &form); err != nil || form.Name == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	s.data.mu.Lock()
	b := &adminapi.Brand{ID: s.data.id(), Name: form.Name, Description: form.Description, LogoURL: form.LogoURL, Active: true}
	s.data.brands[b.ID] = b
	out := *b
	s.data.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Brand created", out)
}

func (s *Server) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	var form adminapi.BrandForm
	if err := decodeBody(r, &form); err != nil || form.Name == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	s.data.mu.Lock()
	b, ok := s.data.brands[pathID(r, "id")]
	var out adminapi.Brand
	if ok {
		b.Name, b.Description = form.Name, form.Description
		if form.LogoURL != "" {
			b.LogoURL = form.LogoURL
		}
		out = *b
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
		return
	}
	writeData(w, r, http.StatusOK, "Brand updated", out)
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.data.mu.Lock()
	_, ok := s.data.brands[id]
	inUse := false
	for _, p := range s.data.products {
		if p.BrandID == id {
			inUse = true
		}
	}
	if ok && !inUse {
		delete(s.data.brands, id)
	}
	s.data.mu.Unlock()
	switch {
	case !ok:
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
	case inUse:
		writeError(w, r, http.StatusConflict, "BRAND_IN_USE", "brand still has products")
	default:
		writeData(w, r, http.StatusOK, "Brand deleted", nil)
	}
}

func (s *Server) handleBrandStatus(w http.ResponseWriter, r *http.Request) {
	active, err := boolFilter(r, "active")
	if err != nil || active == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "active is required")
		return
	}
	s.data.mu.Lock()
	b, ok := s.data.brands[pathID(r, "id")]
	if ok {
		b.Active = *active
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
		return
	}
	writeData(w, r, http.StatusOK, "Brand status updated", nil)
}

func (s *Server) handleBrandLogo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	logoURL, err := uploadedFile(r, "file", "brands", id)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}
	s.data.mu.Lock()
	b, ok := s.data.brands[id]
	var out adminapi.Brand
	if ok {
		b.LogoURL = logoURL
		out = *b
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
		return
	}
	writeData(w, r, http.StatusOK, "Logo uploaded", out)
}

func (s *Server) handleDeleteBrandImage(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	b, ok := s.data.brands[pathID(r, "id")]
	if ok {
		b.LogoURL = ""
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "BRAND_NOT_FOUND", "brand not found")
		return
	}
	writeData(w, r, http.StatusOK, "Logo removed", nil)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	active, err := boolFilter(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	name := r.URL.Query().Get("name")

	s.data.mu.Lock()
	var out []adminapi.Category
	for _, id := range sortedKeys(s.data.categories) {
		c := s.data.categories[id]
		if !containsFold(c.Name, name) || (active != nil && c.Active != *active) {
			continue
		}
		out = append(out, *c)
	}
	s.data.mu.Unlock()

	writeData(w, r, http.StatusOK, "Categories fetched", paginate(r, out))
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	c, ok := s.data.categories[pathID(r, "id")]
	var out adminapi.Category
	if ok {
		out = *c
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
		return
	}
	writeData(w, r, http.StatusOK, "Category fetched", out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var form adminapi.CategoryForm
	if err := decodeBody(r, &form); err != nil || form.Name == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	s.data.mu.Lock()
	c := &adminapi.Category{ID: s.data.id(), Name: form.Name, Description: form.Description, Active: true}
	s.data.categories[c.ID] = c
	out := *c
	s.data.mu.Unlock()
	writeData(w, r, http.StatusCreated, "Category created", out)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var form adminapi.CategoryForm
	if err := decodeBody(r, &form); err != nil || form.Name == "" {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}
	s.data.mu.Lock()
	c, ok := s.data.categories[pathID(r, "id")]
	var out adminapi.Category
	if ok {
		c.Name, c.Description = form.Name, form.Description
		out = *c
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
		return
	}
	writeData(w, r, http.StatusOK, "Category updated", out)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.data.mu.Lock()
	_, ok := s.data.categories[id]
	inUse := false
	for _, p := range s.data.products {
		if p.CategoryID == id {
			inUse = true
		}
	}
	if ok && !inUse {
		delete(s.data.categories, id)
	}
	s.data.mu.Unlock()
	switch {
	case !ok:
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
	case inUse:
		writeError(w, r, http.StatusConflict, "CATEGORY_IN_USE", "category still has products")
	default:
		writeData(w, r, http.StatusOK, "Category deleted", nil)
	}
}

func (s *Server) handleCategoryStatus(w http.ResponseWriter, r *http.Request) {
	active, err := boolFilter(r, "active")
	if err != nil || active == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "active is required")
		return
	}
	s.data.mu.Lock()
	c, ok := s.data.categories[pathID(r, "id")]
	if ok {
		c.Active = *active
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
		return
	}
	writeData(w, r, http.StatusOK, "Category status updated", nil)
}

func (s *Server) handleCategoryImage(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	imageURL, err := uploadedFile(r, "file", "categories", id)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}
	s.data.mu.Lock()
	c, ok := s.data.categories[id]
	var out adminapi.Category
	if ok {
		c.ImageURL = imageURL
		out = *c
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
		return
	}
	writeData(w, r, http.StatusOK, "Image uploaded", out)
}

func (s *Server) handleDeleteCategoryImage(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	c, ok := s.data.categories[pathID(r, "id")]
	if ok {
		c.ImageURL = ""
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category not found")
		return
	}
	writeData(w, r, http.StatusOK, "Image removed", nil)
}
