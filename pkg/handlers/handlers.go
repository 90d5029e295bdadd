package handlers

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/eknkc/pug"

	"photo-gallery/pkg/logger"
	"photo-gallery/pkg/models"
	"photo-gallery/pkg/services"
)

// FeedPath is where the preview serves the normalized manifest
const FeedPath = "/photos.json"

//go:embed views/index.pug
var indexTemplate string

// Handlers serves the local gallery preview
type Handlers struct {
	service *services.Service
	index   *template.Template
}

// New compiles the preview templates
func New(service *services.Service) (*Handlers, error) {
	index, err := pug.CompileString(indexTemplate, pug.Options{})
	if err != nil {
		return nil, err
	}
	return &Handlers{service: service, index: index}, nil
}

// Register attaches the preview routes and a file server for the gallery
// folders
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.Handle("/", h.withIndex(http.FileServer(http.Dir("."))))
	mux.HandleFunc(FeedPath, h.FeedHandler)
}

func (h *Handlers) withIndex(files http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			h.GalleryHandler(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// GalleryHandler renders the manifest as an HTML page
func (h *Handlers) GalleryHandler(w http.ResponseWriter, _ *http.Request) {
	logger.Debug("Generating index")

	items, err := h.service.GalleryItems()
	if err != nil {
		logger.Error("Manifest unavailable", "error", err)
		http.Error(w, "Manifest unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = h.index.Execute(w, models.Index{
		Title: "Photo Gallery",
		Items: items,
	})
	if err != nil {
		logger.Error("Template execution error", "error", err)
	}
}

// FeedHandler handles requests for the gallery feed (JSON)
func (h *Handlers) FeedHandler(w http.ResponseWriter, _ *http.Request) {
	logger.Debug("Generating feed")

	items, err := h.service.GalleryItems()
	if err != nil {
		logger.Error("Manifest unavailable", "error", err)
		http.Error(w, "Manifest unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(items); err != nil {
		logger.Error("Feed encoding error", "error", err)
	}
}
