package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/middleware"
	"github.com/boylish/Task-Manager-backend/models"
	"github.com/boylish/Task-Manager-backend/services"
)

type AuthHandler struct {
	service   *services.UserService
	uploadDir string
}

func NewAuthHandler(service *services.UserService, uploadDir string) *AuthHandler {
	return &AuthHandler{service: service, uploadDir: uploadDir}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	user, token, err := h.service.Register(r.Context(), input)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	user, token, err := h.service.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	user, err := h.service.GetProfile(r.Context(), principal)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	var patch services.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body", Error: err.Error()})
		return
	}

	user, token, err := h.service.UpdateProfile(r.Context(), principal, patch)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

const maxUploadSize = 5 << 20 // 5 MiB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadImage stores a multipart profile image under the upload directory and
// returns its public URL.
func (h *AuthHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "No image file uploaded", Error: err.Error()})
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "No image file uploaded"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedImageExtensions[ext] {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Only .jpg, .jpeg and .png files are allowed"})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		respondError(w, fmt.Errorf("failed to create upload directory: %v", err))
		return
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	destPath := filepath.Join(h.uploadDir, filename)

	dest, err := os.Create(destPath)
	if err != nil {
		respondError(w, fmt.Errorf("failed to store uploaded file: %v", err))
		return
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		respondError(w, fmt.Errorf("failed to store uploaded file: %v", err))
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	imageURL := fmt.Sprintf("%s://%s/uploads/%s", scheme, r.Host, filename)

	logging.Logger.Infof("Event ID: IMAGE_UPLOADED, Description: Stored uploaded image %s", filename)
	respondJSON(w, http.StatusOK, map[string]string{
		"message":  "Image uploaded successfully",
		"filePath": "/uploads/" + filename,
		"imageUrl": imageURL,
	})
}
