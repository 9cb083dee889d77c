package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus_electives/backend/internal/certification"
	"campus_electives/backend/internal/courses"
	"campus_electives/backend/internal/gateway/util"
	"campus_electives/backend/internal/shared"
)

// CourseHandler exposes the NPTEL catalog, elective enrollment and both
// certificate paths (legacy email-keyed here, roll-number aliases delegated
// to the certification service).
type CourseHandler struct {
	Courses       *courses.CourseService
	Certification *certification.CertificationService
	MaxUploadSize int64
}

// RESTEnrollRequest mirrors the expected JSON input for /courses/enroll
type RESTEnrollRequest struct {
	StudentEmail string            `json:"studentEmail"`
	ElectiveSlot string            `json:"electiveSlot"`
	Course       *shared.CourseRef `json:"course"`
}

// ListNPTEL handles GET /courses/nptel
func (h *CourseHandler) ListNPTEL(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Courses.ListNPTEL(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, docs)
}

// Enroll handles POST /courses/enroll
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var reqBody RESTEnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if reqBody.StudentEmail == "" || reqBody.ElectiveSlot == "" || reqBody.Course == nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	enrolled, err := h.Courses.Enroll(r.Context(), reqBody.StudentEmail, reqBody.ElectiveSlot, reqBody.Course)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	response := map[string]interface{}{"success": true}
	if enrolled != nil {
		response["enrolled"] = enrolled
	}
	util.WriteJSON(w, http.StatusOK, response)
}

// UploadCertificateByEmail handles POST /courses/upload-certificate
// (legacy path, multipart form field 'file' keyed by studentEmail)
func (h *CourseHandler) UploadCertificateByEmail(w http.ResponseWriter, r *http.Request) {
	file, err := readMultipartFile(r, "file", h.MaxUploadSize)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	studentEmail := r.FormValue("studentEmail")
	studentName := r.FormValue("studentName")
	if studentEmail == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing fields")
		return
	}
	if int64(len(file.Data)) > h.MaxUploadSize {
		util.WriteJSONError(w, http.StatusBadRequest, "Certificate file exceeds 1MB limit")
		return
	}

	if err := h.Courses.UploadCertificateByEmail(r.Context(), studentEmail, studentName, file.toCertificateFile()); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// CertificateMetadataByEmail handles GET /courses/certificate-metadata/{email}
func (h *CourseHandler) CertificateMetadataByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	cert, err := h.Courses.CertificateMetadataByEmail(r.Context(), email)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"filename":   cert.Filename,
		"size":       cert.Size,
		"uploadedAt": cert.UploadedAt,
	})
}

// DownloadCertificateByEmail handles GET /courses/download-certificate/{email}
func (h *CourseHandler) DownloadCertificateByEmail(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	cert, err := h.Courses.DownloadCertificateByEmail(r.Context(), email)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	writeCertificate(w, cert)
}

// UploadCertificateByRollNo handles POST /courses/upload-certificate-rollno.
// Alias for the certification upload kept for older frontend builds.
func (h *CourseHandler) UploadCertificateByRollNo(w http.ResponseWriter, r *http.Request) {
	file, err := readMultipartFile(r, "file", h.MaxUploadSize)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing rollNo or file")
		return
	}

	rollNo := r.FormValue("rollNo")
	if rollNo == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing rollNo or file")
		return
	}

	result, err := h.Certification.Upload(r.Context(), &certification.UploadInput{
		RollNo:      rollNo,
		StudentName: r.FormValue("studentName"),
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Data:        file.Data,
	})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Certificate uploaded successfully",
		"fileName": result.FileName,
		"fileSize": result.FileSize,
	})
}

// CertificateMetadataByRollNo handles GET /courses/certificate-metadata-rollno/{rollNo}
func (h *CourseHandler) CertificateMetadataByRollNo(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	meta, err := h.Certification.GetMetadata(r.Context(), rollNo)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"filename":   meta.Filename,
		"size":       meta.Size,
		"uploadedAt": meta.UploadedAt,
	})
}

// DownloadCertificateByRollNo handles GET /courses/download-certificate-rollno/{rollNo}
func (h *CourseHandler) DownloadCertificateByRollNo(w http.ResponseWriter, r *http.Request) {
	rollNo := chi.URLParam(r, "rollNo")

	cert, err := h.Certification.Download(r.Context(), rollNo)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	writeCertificate(w, cert)
}

// writeCertificate streams stored certificate bytes with download headers.
func writeCertificate(w http.ResponseWriter, cert *shared.CertificateFile) {
	contentType := cert.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := cert.Filename
	if filename == "" {
		filename = "certificate"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(cert.Data)
}
