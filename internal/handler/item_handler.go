package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/imagehost"
	"storefront-api/internal/menuscan"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"storefront-api/pkg/apierror"
)

const (
	maxMenuFileSize  = 20 << 20
	maxItemImageSize = 10 << 20
)

type ItemHandler struct {
	service *service.ItemService
	scanner *menuscan.Scanner
}

func NewItemHandler(service *service.ItemService, scanner *menuscan.Scanner) *ItemHandler {
	return &ItemHandler{service: service, scanner: scanner}
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	items, err := h.service.ListByStore(r.Context(), store.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "items fetched successfully", items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	var payload model.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	item, err := h.service.Create(r.Context(), store, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "item created successfully", item)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	item, err := h.service.Update(r.Context(), store, chi.URLParam(r, "itemID"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "item updated successfully", item)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	if err := h.service.Delete(r.Context(), store, chi.URLParam(r, "itemID")); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "item deleted successfully", map[string]any{})
}

// UploadImage replaces the item image from a multipart form, hosted the same
// way store covers are.
func (h *ItemHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	if err := r.ParseMultipartForm(maxItemImageSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apierror.BadRequest("image file is required"))
		return
	}
	defer file.Close()

	updated, err := h.service.ReplaceImage(r.Context(), store, chi.URLParam(r, "itemID"), imagehost.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "item image updated successfully", updated)
}

// ExtractMenu runs OCR over an uploaded menu photo and returns item
// candidates for the owner to review; nothing is persisted here.
func (h *ItemHandler) ExtractMenu(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.StoreFromContext(r.Context()); !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	if err := r.ParseMultipartForm(maxMenuFileSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("menuFile")
	if err != nil {
		writeError(w, apierror.BadRequest("menuFile is required"))
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "menu-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, apierror.Internal("failed to stage menu file"))
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, apierror.Internal("failed to stage menu file"))
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, apierror.Internal("failed to stage menu file"))
		return
	}

	candidates, err := h.scanner.Extract(tmp.Name())
	if err != nil {
		writeError(w, apierror.Internal("failed to extract menu items"))
		return
	}

	writeData(w, http.StatusOK, "menu items extracted successfully", map[string]any{
		"items": candidates,
	})
}
