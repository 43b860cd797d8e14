package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/imagehost"
	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/internal/service"
	"storefront-api/pkg/apierror"
)

const maxCoverImageSize = 10 << 20

type StoreHandler struct {
	service *service.StoreService
}

func NewStoreHandler(service *service.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

func (h *StoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	var payload model.CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	store, err := h.service.Create(r.Context(), user.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, "store created successfully", store)
}

func (h *StoreHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("unauthorized request"))
		return
	}

	stores, err := h.service.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "stores fetched successfully", stores)
}

func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	writeData(w, http.StatusOK, "store fetched successfully", store)
}

func (h *StoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	var patch model.StorePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body"))
		return
	}

	updated, err := h.service.Update(r.Context(), store, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "store updated successfully", updated)
}

// UploadCover replaces the store cover image from a multipart form.
func (h *StoreHandler) UploadCover(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	if err := r.ParseMultipartForm(maxCoverImageSize); err != nil {
		writeError(w, apierror.BadRequest("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("coverImage")
	if err != nil {
		writeError(w, apierror.BadRequest("coverImage file is required"))
		return
	}
	defer file.Close()

	updated, err := h.service.ReplaceCover(r.Context(), store, imagehost.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "store cover updated successfully", updated)
}

func (h *StoreHandler) Close(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	closed, err := h.service.Close(r.Context(), store)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "store closed successfully", closed)
}

func (h *StoreHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	store, ok := middleware.StoreFromContext(r.Context())
	if !ok {
		writeError(w, apierror.NotFound("store not found"))
		return
	}

	reopened, err := h.service.Reopen(r.Context(), store)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "store reopened successfully", reopened)
}

// View is the public storefront endpoint, keyed by the numeric public id.
func (h *StoreHandler) View(w http.ResponseWriter, r *http.Request) {
	publicID, err := strconv.ParseInt(chi.URLParam(r, "publicID"), 10, 64)
	if err != nil {
		writeError(w, apierror.BadRequest("invalid store id"))
		return
	}

	view, err := h.service.View(r.Context(), publicID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, "store fetched successfully", view)
}
