package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20

// Upload stores a product image and returns its public URL.
func Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		responseJSON(w, &APIResponse{Status: "error", Message: "Invalid multipart form"}, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		responseJSON(w, &APIResponse{Status: "error", Field: "image", Message: "No file uploaded"}, http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(UploadsDir, 0755); err != nil {
		log.Printf("Error creating uploads dir: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to store file"}, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(UploadsDir, filename))
	if err != nil {
		log.Printf("Error creating upload file: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to store file"}, http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("Error writing upload file: %s", err.Error())
		responseJSON(w, &APIResponse{Status: "error", Message: "Failed to store file"}, http.StatusInternalServerError)
		return
	}

	responseJSON(w, map[string]string{"url": "/uploads/" + filename}, http.StatusOK)
}
