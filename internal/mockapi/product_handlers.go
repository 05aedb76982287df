package mockapi

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/dvcrn/storefront-admin/internal/adminapi"
)

func floatFilter(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &v, nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	active, err := boolFilter(r, "active")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	minPrice, err := floatFilter(r, "minPrice")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	maxPrice, err := floatFilter(r, "maxPrice")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	categoryID, _ := strconv.ParseInt(q.Get("categoryId"), 10, 64)
	brandID, _ := strconv.ParseInt(q.Get("brandId"), 10, 64)

	s.data.mu.Lock()
	var out []adminapi.Product
	for _, id := range sortedKeys(s.data.products) {
		p := s.data.products[id]
		switch {
		case !containsFold(p.Name, q.Get("name")),
			!containsFold(p.Flavor, q.Get("flavor")),
			categoryID != 0 && p.CategoryID != categoryID,
			brandID != 0 && p.BrandID != brandID,
			active != nil && p.Active != *active,
			minPrice != nil && p.Price < *minPrice,
			maxPrice != nil && p.Price > *maxPrice:
			continue
		}
		out = append(out, copyProduct(p))
	}
	s.data.mu.Unlock()

	writeData(w, r, http.StatusOK, "Products fetched", paginate(r, out))
}

func copyProduct(p *adminapi.Product) adminapi.Product {
	out := *p
	out.Images = append([]adminapi.ProductImage{}, p.Images...)
	return out
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	s.data.mu.Lock()
	p, ok := s.data.products[pathID(r, "id")]
	var out adminapi.Product
	if ok {
		out = copyProduct(p)
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
		return
	}
	writeData(w, r, http.StatusOK, "Product fetched", out)
}

// applyProductLocked validates references and copies req onto p. s.data.mu must be held.
func (s *Server) applyProductLocked(p *adminapi.Product, req adminapi.ProductRequest) error {
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	brand, ok := s.data.brands[req.BrandID]
	if !ok {
		return fmt.Errorf("unknown brand %d", req.BrandID)
	}
	category, ok := s.data.categories[req.CategoryID]
	if !ok {
		return fmt.Errorf("unknown category %d", req.CategoryID)
	}
	p.Name, p.Description, p.Flavor = req.Name, req.Description, req.Flavor
	p.BrandID, p.BrandName = brand.ID, brand.Name
	p.CategoryID, p.CategoryName = category.ID, category.Name
	p.Price, p.Stock, p.WeightGrams = req.Price, req.Stock, req.WeightGrams
	return nil
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "multipart form expected")
		return
	}
	form := r.MultipartForm.Value
	field := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	req := adminapi.ProductRequest{Name: field("name"), Description: field("description"), Flavor: field("flavor")}
	req.CategoryID, _ = strconv.ParseInt(field("categoryId"), 10, 64)
	req.BrandID, _ = strconv.ParseInt(field("brandId"), 10, 64)
	req.Price, _ = strconv.ParseFloat(field("price"), 64)
	req.Stock, _ = strconv.Atoi(field("stock"))
	req.WeightGrams, _ = strconv.Atoi(field("weightGrams"))

	var imageName string
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		imageName = files[0].Filename
	}

	s.data.mu.Lock()
	p := &adminapi.Product{Active: true, Images: []adminapi.ProductImage{}}
	if err := s.applyProductLocked(p, req); err != nil {
		s.data.mu.Unlock()
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	p.ID = s.data.id()
	if imageName != "" {
		p.Images = append(p.Images, adminapi.ProductImage{
			ID:       s.data.id(),
			ImageURL: fmt.Sprintf("/uploads/products/%d/%s", p.ID, imageName),
		})
	}
	s.data.products[p.ID] = p
	out := copyProduct(p)
	s.data.mu.Unlock()

	writeData(w, r, http.StatusCreated, "Product created", out)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req adminapi.ProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "invalid product payload")
		return
	}
	s.data.mu.Lock()
	p, ok := s.data.products[pathID(r, "id")]
	if !ok {
		s.data.mu.Unlock()
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
		return
	}
	updated := *p
	if err := s.applyProductLocked(&updated, req); err != nil {
		s.data.mu.Unlock()
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	*p = updated
	out := copyProduct(p)
	s.data.mu.Unlock()
	writeData(w, r, http.StatusOK, "Product updated", out)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	s.data.mu.Lock()
	_, ok := s.data.products[id]
	delete(s.data.products, id)
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
		return
	}
	writeData(w, r, http.StatusOK, "Product deleted", nil)
}

func (s *Server) handleProductStatus(w http.ResponseWriter, r *http.Request) {
	active, err := boolFilter(r, "active")
	if err != nil || active == nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "active is required")
		return
	}
	s.data.mu.Lock()
	p, ok := s.data.products[pathID(r, "id")]
	if ok {
		p.Active = *active
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
		return
	}
	writeData(w, r, http.StatusOK, "Product status updated", nil)
}

func (s *Server) handleProductImage(w http.ResponseWriter, r *http.Request) {
	id := pathID(r, "id")
	imageURL, err := uploadedFile(r, "file", "products", id)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "file is required")
		return
	}
	s.data.mu.Lock()
	p, ok := s.data.products[id]
	var img adminapi.ProductImage
	if ok {
		img = adminapi.ProductImage{ID: s.data.id(), ImageURL: imageURL, DisplayOrder: len(p.Images)}
		p.Images = append(p.Images, img)
	}
	s.data.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product not found")
		return
	}
	writeData(w, r, http.StatusCreated, "Image uploaded", img)
}

func (s *Server) handleDeleteProductImage(w http.ResponseWriter, r *http.Request) {
	imageID := pathID(r, "imageId")
	s.data.mu.Lock()
	p, ok := s.data.products[pathID(r, "id")]
	found := false
	if ok {
		kept := p.Images[:0]
		for _, img := range p.Images {
			if img.ID == imageID {
				found = true
				continue
			}
			kept = append(kept, img)
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].DisplayOrder < kept[j].DisplayOrder })
		for i := range kept {
			kept[i].DisplayOrder = i
		}
		p.Images = kept
	}
	s.data.mu.Unlock()
	if !found {
		writeError(w, r, http.StatusNotFound, "IMAGE_NOT_FOUND", "image not found")
		return
	}
	writeData(w, r, http.StatusOK, "Image removed", nil)
}
