// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-desk/internal/console"
	"github.com/olegiv/ocms-desk/internal/form"
	"github.com/olegiv/ocms-desk/internal/gateway"
	"github.com/olegiv/ocms-desk/internal/imaging"
	"github.com/olegiv/ocms-desk/internal/model"
)

// contentPreviewer is implemented by forms with a rendered content preview.
type contentPreviewer interface {
	ContentPreview() (string, error)
}

// ResourceHandler serves the console of one resource.
type ResourceHandler[T model.Entity] struct {
	shell      *console.Shell[T]
	decode     Decoder[T]
	images     *imaging.Processor
	maxUpload  int64
	imageField string
	logger     *slog.Logger
}

// NewResourceHandler creates a handler for shell. imageField names the file
// part used by the preview endpoint.
func NewResourceHandler[T model.Entity](shell *console.Shell[T], decode Decoder[T], images *imaging.Processor, imageField string, maxUpload int64, logger *slog.Logger) *ResourceHandler[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceHandler[T]{
		shell:      shell,
		decode:     decode,
		images:     images,
		maxUpload:  maxUpload,
		imageField: imageField,
		logger:     logger,
	}
}

// Slug returns the URL segment the handler is mounted under.
func (h *ResourceHandler[T]) Slug() string {
	return h.shell.Resource().Slug
}

// Check reports whether the collection is loaded and fresh.
func (h *ResourceHandler[T]) Check() Check {
	v := h.shell.View()
	switch {
	case v.Error != "":
		return Check{Status: "unhealthy", Message: v.Error}
	case !v.Loaded:
		return Check{Status: "unhealthy", Message: "not loaded"}
	default:
		return Check{Status: "healthy"}
	}
}

// Routes returns the resource router.
func (h *ResourceHandler[T]) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.View)
	r.Post("/", h.Create)
	r.Put("/filter", h.SetFilter)
	r.Post("/refresh", h.Refresh)
	r.Post("/preview", h.Preview)
	r.Delete("/form", h.CloseForm)
	r.Get("/{id}", h.Inspect)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/approve", h.Approve)
	return r
}

func (h *ResourceHandler[T]) writeView(w http.ResponseWriter) {
	writeJSONSuccess(w, map[string]any{"view": h.shell.View()})
}

// View handles GET /api/{res}. The optional status and q query parameters
// update the filter state first.
func (h *ResourceHandler[T]) View(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("status") {
		status, err := model.ParseStatusFilter(q.Get("status"))
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.shell.SetStatus(status)
	}
	if q.Has("q") {
		h.shell.SetSearch(q.Get("q"))
	}
	h.writeView(w)
}

type filterRequest struct {
	Status *string `json:"status"`
	Q      *string `json:"q"`
}

// SetFilter handles PUT /api/{res}/filter.
func (h *ResourceHandler[T]) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Status != nil {
		status, err := model.ParseStatusFilter(*req.Status)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.shell.SetStatus(status)
	}
	if req.Q != nil {
		h.shell.SetSearch(*req.Q)
	}
	h.writeView(w)
}

// Refresh handles POST /api/{res}/refresh.
func (h *ResourceHandler[T]) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.shell.Refresh(r.Context()); err != nil {
		h.writeShellError(w, r, err)
		return
	}
	h.writeView(w)
}

// Inspect handles GET /api/{res}/{id}.
func (h *ResourceHandler[T]) Inspect(w http.ResponseWriter, r *http.Request) {
	item, err := h.shell.Inspect(chi.URLParam(r, "id"))
	if err != nil {
		h.writeShellError(w, r, err)
		return
	}
	writeJSONSuccess(w, map[string]any{"item": item})
}

// Approve handles POST /api/{res}/{id}/approve.
func (h *ResourceHandler[T]) Approve(w http.ResponseWriter, r *http.Request) {
	if err := h.shell.Approve(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeShellError(w, r, err)
		return
	}
	h.writeView(w)
}

// Delete handles DELETE /api/{res}/{id}.
func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shell.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeShellError(w, r, err)
		return
	}
	h.writeView(w)
}

// Create handles POST /api/{res}.
func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	f, err := h.decode(r, nil)
	if err != nil {
		h.writeDecodeError(w, r, err)
		return
	}
	h.shell.OpenCreate()
	h.submit(w, r, form.ModeCreate, "", f)
}

// Update handles PUT /api/{res}/{id}.
func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	id := chi.URLParam(r, "id")
	existing, err := h.shell.Inspect(id)
	if err != nil {
		h.writeShellError(w, r, err)
		return
	}
	f, err := h.decode(r, &existing)
	if err != nil {
		h.writeDecodeError(w, r, err)
		return
	}
	if _, err := h.shell.OpenEdit(id); err != nil {
		h.writeShellError(w, r, err)
		return
	}
	h.submit(w, r, form.ModeEdit, id, f)
}

func (h *ResourceHandler[T]) submit(w http.ResponseWriter, r *http.Request, mode form.Mode, id string, f form.Form) {
	if err := h.shell.Submit(r.Context(), mode, id, f); err != nil {
		h.writeShellError(w, r, err)
		return
	}
	h.writeView(w)
}

// CloseForm handles DELETE /api/{res}/form.
func (h *ResourceHandler[T]) CloseForm(w http.ResponseWriter, _ *http.Request) {
	h.shell.CloseForm()
	h.writeView(w)
}

// Preview handles POST /api/{res}/preview: a thumbnail of the uploaded image
// and, for markdown forms, the rendered content.
func (h *ResourceHandler[T]) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := parseRequest(r); err != nil {
		h.writeDecodeError(w, r, err)
		return
	}

	resp := map[string]any{}

	if h.imageField != "" && h.images != nil {
		img, err := firstAttachment(r, h.imageField)
		if err != nil {
			h.writeDecodeError(w, r, err)
			return
		}
		if img != nil {
			if msg := form.ValidateImage(*img); msg != "" {
				writeValidationError(w, form.Errors{h.imageField: msg})
				return
			}
			res, err := h.images.Preview(img.Data)
			if err != nil {
				writeValidationError(w, form.Errors{h.imageField: form.MsgImageType})
				return
			}
			resp["image"] = res
		}
	}

	// The body has been parsed already; decoding only reads the parsed values.
	if f, err := h.decode(r, nil); err == nil {
		if cp, ok := f.(contentPreviewer); ok {
			html, err := cp.ContentPreview()
			if err != nil {
				h.logger.ErrorContext(r.Context(), "rendering content preview", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "Failed to render preview")
				return
			}
			resp["content_html"] = html
		}
	}

	if len(resp) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Nothing to preview")
		return
	}
	writeJSONSuccess(w, resp)
}

func (h *ResourceHandler[T]) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.Is(err, errBadRequest):
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
	default:
		h.logger.ErrorContext(r.Context(), "decoding form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "Invalid form data")
	}
}

// writeShellError maps console and gateway errors to HTTP responses.
func (h *ResourceHandler[T]) writeShellError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *console.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, verr.Errors)
	case errors.Is(err, console.ErrBusy):
		writeJSONError(w, http.StatusConflict, "Another operation is in progress")
	case errors.Is(err, console.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, console.ErrNotModerated):
		writeJSONError(w, http.StatusMethodNotAllowed, "This resource has no moderation")
	case gateway.IsRemote(err):
		writeJSONError(w, http.StatusBadGateway, gateway.MessageOf(err))
	case gateway.IsTransport(err):
		writeJSONError(w, http.StatusBadGateway, "Content service unreachable")
	default:
		h.logger.ErrorContext(r.Context(), "console operation failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
