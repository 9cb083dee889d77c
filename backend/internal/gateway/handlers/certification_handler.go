package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"campus_electives/backend/internal/certification"
	"campus_electives/backend/internal/gateway/util"
)

// CertificationHandler exposes the roll-number-keyed certificate store.
type CertificationHandler struct {
	Certification *certification.CertificationService
	MaxUploadSize int64
}

// Test handles GET /certification/test
func (h *CertificationHandler) Test(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Certification routes are loaded and working!",
	})
}

// Upload handles POST /certification/upload
// (multipart form: file part 'file', fields 'rollNo' and 'studentName')
func (h *CertificationHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, err := readMultipartFile(r, "file", h.MaxUploadSize)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "No file uploaded")
		return
	}

	result, err := h.Certification.Upload(r.Context(), &certification.UploadInput{
		RollNo:      r.FormValue("rollNo"),
		StudentName: r.FormValue("studentName"),
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	message := "Certificate uploaded successfully"
	if result.IsUpdate {
		message = "Certificate updated successfully"
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    message,
		"rollNo":     result.RollNo,
		"fileName":   result.FileName,
		"fileSize":   result.FileSize,
		"uploadedAt": result.UploadedAt,
		"isUpdate":   result.IsUpdate,
	})
}

// Metadata handles GET /certification/metadata/{rollNo}
func (h *CertificationHandler) Metadata(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	meta, err := h.Certification.GetMetadata(r.Context(), rollNo)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, meta)
}

// Download handles GET /certification/download/{rollNo}.
// The stored file is always a PDF so the response headers are pinned to
// application/pdf and a .pdf filename regardless of what was uploaded.
func (h *CertificationHandler) Download(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	cert, err := h.Certification.Download(r.Context(), rollNo)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	filename := cert.Filename
	if filename == "" {
		filename = fmt.Sprintf("certificate_%s.pdf", rollNo)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		filename += ".pdf"
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(cert.Data)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(cert.Data)
}

// VerifyPDF handles GET /certification/verify-pdf/{rollNo}
func (h *CertificationHandler) VerifyPDF(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	result, err := h.Certification.VerifyPDF(r.Context(), rollNo)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}
