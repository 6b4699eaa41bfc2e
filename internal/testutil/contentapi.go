// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-desk/internal/model"
)

// Operation names used for failure injection and call counting.
const (
	OpList     = "list"
	OpApproved = "approved"
	OpApprove  = "approve"
	OpDelete   = "delete"
	OpUpdate   = "update"
	OpCreate   = "create"
)

// ReviewPath is the resource path served by ReviewAPI.
const ReviewPath = "/api/review"

// FAQPath is the resource path served by FAQAPI.
const FAQPath = "/api/faq"

// Failure is a canned non-2xx answer.
type Failure struct {
	Status int
	Body   string
}

// Upload is a file part received by the fake service.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
}

// fakeAPI holds the shared plumbing of the fake resources.
type fakeAPI struct {
	mu              sync.Mutex
	server          *httptest.Server
	failures        map[string][]Failure
	holds           map[string]chan struct{}
	calls           map[string]int
	lastContentType string
	lastForm        map[string][]string
	lastFiles       map[string]Upload
	nextID          int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		failures: make(map[string][]Failure),
		holds:    make(map[string]chan struct{}),
		calls:    make(map[string]int),
	}
}

// URL returns the base URL of the fake service.
func (f *fakeAPI) URL() string {
	return f.server.URL
}

// Close shuts the server down; later requests fail at the transport level.
func (f *fakeAPI) Close() {
	f.server.Close()
}

// FailNext makes the next request for op answer with status and body.
// Calls queue up: two FailNext calls fail the next two requests.
func (f *fakeAPI) FailNext(op string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = append(f.failures[op], Failure{Status: status, Body: body})
}

// Hold blocks the next request for op until the returned release is called.
func (f *fakeAPI) Hold(op string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[op] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many requests were received for op.
func (f *fakeAPI) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// LastContentType returns the Content-Type of the last create or update request.
func (f *fakeAPI) LastContentType() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastContentType
}

// LastForm returns the text fields of the last create or update request.
func (f *fakeAPI) LastForm() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]string, len(f.lastForm))
	for k, v := range f.lastForm {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// LastFiles returns the file parts of the last create or update request.
func (f *fakeAPI) LastFiles() map[string]Upload {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]Upload, len(f.lastFiles))
	for k, v := range f.lastFiles {
		out[k] = v
	}
	return out
}

// enter counts the call, waits on a hold and applies an injected failure.
// It returns false when the response has already been written.
func (f *fakeAPI) enter(w http.ResponseWriter, r *http.Request, op string) bool {
	f.mu.Lock()
	f.calls[op]++
	hold := f.holds[op]
	delete(f.holds, op)
	f.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return false
		}
	}

	f.mu.Lock()
	var failure *Failure
	if queued := f.failures[op]; len(queued) > 0 {
		failure = &queued[0]
		f.failures[op] = queued[1:]
	}
	f.mu.Unlock()

	if failure != nil {
		w.WriteHeader(failure.Status)
		_, _ = io.WriteString(w, failure.Body)
		return false
	}
	return true
}

func (f *fakeAPI) recordForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	form := make(map[string][]string)
	files := make(map[string]Upload)

	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			return err
		}
		for k, v := range r.MultipartForm.Value {
			form[k] = v
		}
		for k, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			h := headers[0]
			files[k] = Upload{
				Filename:    h.Filename,
				ContentType: h.Header.Get("Content-Type"),
				Size:        h.Size,
			}
		}
	}

	f.mu.Lock()
	f.lastContentType = ct
	f.lastForm = form
	f.lastFiles = files
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) newID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// ReviewAPI is an in-memory fake of the review resource of the content service.
type ReviewAPI struct {
	*fakeAPI
	reviews []model.Review
}

// NewReviewAPI starts a fake review service seeded with the given reviews.
// The server is closed when the test finishes.
func NewReviewAPI(t *testing.T, seed ...model.Review) *ReviewAPI {
	t.Helper()

	api := &ReviewAPI{
		fakeAPI: newFakeAPI(),
		reviews: append([]model.Review(nil), seed...),
	}

	r := chi.NewRouter()
	r.Route(ReviewPath, func(r chi.Router) {
		r.Get("/", api.list)
		r.Get("/approved", api.approved)
		r.Post("/", api.create)
		r.Patch("/{id}/approve", api.approve)
		r.Put("/{id}", api.update)
		r.Delete("/{id}", api.remove)
	})

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

// Reviews returns a copy of the stored reviews.
func (a *ReviewAPI) Reviews() []model.Review {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.Review(nil), a.reviews...)
}

// Put replaces the stored reviews, simulating changes made by another operator.
func (a *ReviewAPI) Put(reviews ...model.Review) {
	a.mu.Lock()
	a.reviews = append([]model.Review(nil), reviews...)
	a.mu.Unlock()
}

func (a *ReviewAPI) indexOf(id string) int {
	for i, rv := range a.reviews {
		if rv.ID == id {
			return i
		}
	}
	return -1
}

func (a *ReviewAPI) list(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpList) {
		return
	}
	writeJSON(w, http.StatusOK, a.Reviews())
}

func (a *ReviewAPI) approved(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpApproved) {
		return
	}
	out := make([]model.Review, 0)
	for _, rv := range a.Reviews() {
		if rv.Approved {
			out = append(out, rv)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *ReviewAPI) approve(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpApprove) {
		return
	}
	id := chi.URLParam(r, "id")

	a.mu.Lock()
	idx := a.indexOf(id)
	if idx < 0 {
		a.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Review not found")
		return
	}
	a.reviews[idx].Approved = true
	rv := a.reviews[idx]
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, rv)
}

func (a *ReviewAPI) remove(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpDelete) {
		return
	}
	id := chi.URLParam(r, "id")

	a.mu.Lock()
	idx := a.indexOf(id)
	if idx < 0 {
		a.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Review not found")
		return
	}
	a.reviews = append(a.reviews[:idx], a.reviews[idx+1:]...)
	a.mu.Unlock()

	writeMessage(w, http.StatusOK, "Review deleted successfully")
}

func (a *ReviewAPI) create(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpCreate) {
		return
	}
	if err := a.recordForm(r); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	form := a.LastForm()
	get := func(k string) string {
		if v := form[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	if get("name") == "" || get("email") == "" || get("role") == "" || get("review") == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	rv := model.Review{
		ID:        a.newID("r"),
		Name:      get("name"),
		Email:     get("email"),
		Role:      get("role"),
		Review:    get("review"),
		CreatedAt: time.Now().UTC(),
	}
	if up, ok := a.LastFiles()["image"]; ok {
		ref := "uploads/" + up.Filename
		rv.Image = &ref
	}

	a.mu.Lock()
	a.reviews = append(a.reviews, rv)
	a.mu.Unlock()

	writeJSON(w, http.StatusCreated, rv)
}

func (a *ReviewAPI) update(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpUpdate) {
		return
	}
	if err := a.recordForm(r); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	id := chi.URLParam(r, "id")
	form := a.LastForm()
	files := a.LastFiles()

	a.mu.Lock()
	idx := a.indexOf(id)
	if idx < 0 {
		a.mu.Unlock()
		writeMessage(w, http.StatusNotFound, "Review not found")
		return
	}
	rv := &a.reviews[idx]
	for k, v := range form {
		if len(v) == 0 {
			continue
		}
		switch k {
		case "name":
			rv.Name = v[0]
		case "email":
			rv.Email = v[0]
		case "role":
			rv.Role = v[0]
		case "review":
			rv.Review = v[0]
		case "removeImage":
			if v[0] == "true" {
				rv.Image = nil
			}
		}
	}
	if up, ok := files["image"]; ok {
		ref := "uploads/" + up.Filename
		rv.Image = &ref
	}
	out := *rv
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

// FAQAPI is an in-memory fake of the FAQ resource. It speaks JSON and wraps
// mutated records in {"message": ..., "faq": ...}.
type FAQAPI struct {
	*fakeAPI
	faqs []model.FAQ
}

// NewFAQAPI starts a fake FAQ service seeded with the given entries.
func NewFAQAPI(t *testing.T, seed ...model.FAQ) *FAQAPI {
	t.Helper()

	api := &FAQAPI{
		fakeAPI: newFakeAPI(),
		faqs:    append([]model.FAQ(nil), seed...),
	}

	r := chi.NewRouter()
	r.Route(FAQPath, func(r chi.Router) {
		r.Get("/", api.list)
		r.Post("/", api.create)
		r.Put("/{id}", api.update)
		r.Delete("/{id}", api.remove)
	})

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

// FAQs returns a copy of the stored entries.
func (a *FAQAPI) FAQs() []model.FAQ {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.FAQ(nil), a.faqs...)
}

func (a *FAQAPI) list(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpList) {
		return
	}
	writeJSON(w, http.StatusOK, a.FAQs())
}

type faqBody struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (a *FAQAPI) decode(w http.ResponseWriter, r *http.Request) (faqBody, bool) {
	a.mu.Lock()
	a.lastContentType = r.Header.Get("Content-Type")
	a.mu.Unlock()

	var body faqBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid JSON")
		return body, false
	}
	if strings.TrimSpace(body.Question) == "" || strings.TrimSpace(body.Answer) == "" {
		writeMessage(w, http.StatusBadRequest, "Question and answer are required")
		return body, false
	}
	return body, true
}

func (a *FAQAPI) create(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpCreate) {
		return
	}
	body, ok := a.decode(w, r)
	if !ok {
		return
	}
	faq := model.FAQ{
		ID:        a.newID("f"),
		Question:  body.Question,
		Answer:    body.Answer,
		CreatedAt: time.Now().UTC(),
	}

	a.mu.Lock()
	a.faqs = append([]model.FAQ{faq}, a.faqs...)
	a.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "FAQ created successfully",
		"faq":     faq,
	})
}

func (a *FAQAPI) update(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpUpdate) {
		return
	}
	body, ok := a.decode(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	a.mu.Lock()
	var updated *model.FAQ
	for i := range a.faqs {
		if a.faqs[i].ID == id {
			a.faqs[i].Question = body.Question
			a.faqs[i].Answer = body.Answer
			updated = &a.faqs[i]
			break
		}
	}
	var out model.FAQ
	if updated != nil {
		out = *updated
	}
	a.mu.Unlock()

	if updated == nil {
		writeMessage(w, http.StatusNotFound, "FAQ not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "FAQ updated successfully",
		"faq":     out,
	})
}

func (a *FAQAPI) remove(w http.ResponseWriter, r *http.Request) {
	if !a.enter(w, r, OpDelete) {
		return
	}
	id := chi.URLParam(r, "id")

	a.mu.Lock()
	found := false
	for i := range a.faqs {
		if a.faqs[i].ID == id {
			a.faqs = append(a.faqs[:i], a.faqs[i+1:]...)
			found = true
			break
		}
	}
	a.mu.Unlock()

	if !found {
		writeMessage(w, http.StatusNotFound, "FAQ not found")
		return
	}
	writeMessage(w, http.StatusOK, "FAQ deleted successfully")
}
