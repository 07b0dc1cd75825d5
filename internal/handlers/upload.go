package handlers

import (
	"net/http"

	"github.com/lumen-app/lumen-backend/internal/config"
	"github.com/lumen-app/lumen-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadPhoto uploads an entry photo attachment and returns its URL, which
// the client passes back as photo_url when saving the entry.
func UploadPhoto(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(r); !ok {
		writeJSON(w, http.StatusUnauthorized, UploadResponse{Success: false, Message: "Authentication required"})
		return
	}

	if cloudinaryService == nil {
		http.Error(w, "Photo uploads are not available", http.StatusServiceUnavailable)
		return
	}

	// Max 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fileHeader, "lumen/entries")
	if err != nil {
		http.Error(w, "Failed to upload file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "Photo uploaded successfully",
		URL:     url,
	})
}
