package handler

import (
	"errors"
	"net/http"
	"time"

	categorydomain "subtrack-go/internal/domain/category"
	"github.com/go-chi/chi/v5"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Color *string `json:"color"`
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type seedResponse struct {
	Created int    `json:"created"`
	Message string `json:"message"`
}

func toCategoryResponse(category *categorydomain.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Icon:      category.Icon,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
	}
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		h.log.InternalError("categories.list: query failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, toCategoryResponse(&categories[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	category, err := h.Categories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, categorydomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		h.log.InternalError("categories.get: query failed", err, "category_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	category, err := h.Categories.Create(r.Context(), categorydomain.CreateCategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, categorydomain.ErrCategoryNameTaken):
			writeError(w, http.StatusConflict, "category_name_taken", "category name already exists")
		case errors.Is(err, categorydomain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("categories.create: insert failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid json body")
		return
	}

	category, err := h.Categories.Update(r.Context(), id, categorydomain.UpdateCategoryInput{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, categorydomain.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
		case errors.Is(err, categorydomain.ErrCategoryNameTaken):
			writeError(w, http.StatusConflict, "category_name_taken", "category name already exists")
		case errors.Is(err, categorydomain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		default:
			h.log.InternalError("categories.update: update failed", err, "category_id", id)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category))
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Categories.Delete(r.Context(), id); err != nil {
		if errors.Is(err, categorydomain.ErrCategoryNotFound) {
			writeError(w, http.StatusNotFound, "category_not_found", "category not found")
			return
		}
		h.log.InternalError("categories.delete: delete failed", err, "category_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedCategories inserts the default set only when the table is empty.
func (h *Handlers) SeedCategories(w http.ResponseWriter, r *http.Request) {
	created, err := h.Categories.Seed(r.Context())
	if err != nil {
		h.log.InternalError("categories.seed: insert failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, seedResponse{
		Created: created,
		Message: "Standard-Kategorien erstellt",
	})
}
