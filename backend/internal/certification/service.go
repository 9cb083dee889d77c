package certification

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

const pdfContentType = "application/pdf"

// CertificationService stores one certificate per roll number. Uploads
// replace the stored file; there is no version history.
type CertificationService struct {
	certsCol *mongo.Collection
	maxSize  int64
}

// NewCertificationService creates a new CertificationService instance
func NewCertificationService(store *shared.Store, config *shared.PortalConfig) *CertificationService {
	return &CertificationService{
		certsCol: store.StudentDB.Collection(shared.CollCertifications),
		maxSize:  config.Upload.MaxCertificateSize,
	}
}

// UploadInput carries a parsed multipart upload.
type UploadInput struct {
	RollNo      string
	StudentName string
	Filename    string
	ContentType string // as declared by the client
	Data        []byte
}

// UploadResult reports what was stored.
type UploadResult struct {
	RollNo     string    `json:"rollNo"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
	IsUpdate   bool      `json:"isUpdate"`
}

// Metadata is the projection returned without the file bytes.
type Metadata struct {
	RollNo                 string    `json:"rollNo"`
	Filename               string    `json:"filename"`
	Size                   int64     `json:"size"`
	UploadedAt             time.Time `json:"uploadedAt"`
	LastCertificateUpdated time.Time `json:"lastCertificateUpdated"`
}

// VerifyResult reports stored-file sanity without streaming the bytes.
type VerifyResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	DataLength  int    `json:"dataLength"`
	IsPDFFormat bool   `json:"isPdfFormat"`
}

// validateUpload runs every rejection check before any database access.
func (s *CertificationService) validateUpload(in *UploadInput) error {
	if in == nil || in.RollNo == "" {
		return shared.ErrInvalidArgument("Roll number is required")
	}
	if len(in.Data) == 0 {
		return shared.ErrInvalidArgument("No file uploaded")
	}
	if in.ContentType != pdfContentType {
		return shared.ErrInvalidArgument("Only PDF files are allowed. Please convert your file to PDF format.")
	}
	if !strings.HasSuffix(strings.ToLower(in.Filename), ".pdf") {
		return shared.ErrInvalidArgument("File must have .pdf extension")
	}
	// Declared type and extension are client-controlled; sniff the bytes too.
	if !mimetype.Detect(in.Data).Is(pdfContentType) {
		return shared.ErrInvalidArgument("File content is not a valid PDF")
	}
	if int64(len(in.Data)) > s.maxSize {
		return shared.ErrInvalidArgument("File exceeds 1MB limit")
	}
	return nil
}

// Upload validates and upserts the certificate document keyed by roll number,
// replacing any previously stored file.
func (s *CertificationService) Upload(ctx context.Context, in *UploadInput) (*UploadResult, error) {
	if err := s.validateUpload(in); err != nil {
		return nil, err
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Report created-vs-updated to the caller
	count, err := s.certsCol.CountDocuments(queryCtx, bson.M{"roll no": in.RollNo})
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	isUpdate := count > 0

	now := time.Now()
	cert := shared.CertificateFile{
		Filename:    in.Filename,
		ContentType: pdfContentType,
		Size:        int64(len(in.Data)),
		UploadedAt:  now,
		Data:        in.Data,
	}

	opts := options.Update().SetUpsert(true)
	_, err = s.certsCol.UpdateOne(queryCtx,
		bson.M{"roll no": in.RollNo},
		bson.M{"$set": bson.M{
			"roll no":                in.RollNo,
			"studentName":            in.StudentName,
			"certificate":            cert,
			"updatedAt":              now,
			"lastCertificateUpdated": now,
		}},
		opts,
	)
	if err != nil {
		return nil, shared.ErrInternal("Server error during upload")
	}

	return &UploadResult{
		RollNo:     in.RollNo,
		FileName:   in.Filename,
		FileSize:   cert.Size,
		UploadedAt: now,
		IsUpdate:   isUpdate,
	}, nil
}

// GetMetadata returns certificate metadata without the file bytes.
func (s *CertificationService) GetMetadata(ctx context.Context, rollNo string) (*Metadata, error) {
	if rollNo == "" {
		return nil, shared.ErrInvalidArgument("Missing rollNo")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{
		"certificate.filename":   1,
		"certificate.size":       1,
		"certificate.uploadedAt": 1,
		"lastCertificateUpdated": 1,
		"updatedAt":              1,
	})

	var doc shared.Certification
	err := s.certsCol.FindOne(queryCtx, bson.M{"roll no": rollNo}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("Certificate not found")
		}
		return nil, shared.ErrInternal("Server error")
	}
	if doc.Certificate == nil {
		return nil, shared.ErrNotFound("Certificate not found")
	}

	lastUpdated := doc.LastCertificateUpdated
	if lastUpdated.IsZero() {
		lastUpdated = doc.UpdatedAt
	}
	if lastUpdated.IsZero() {
		lastUpdated = doc.Certificate.UploadedAt
	}

	return &Metadata{
		RollNo:                 rollNo,
		Filename:               doc.Certificate.Filename,
		Size:                   doc.Certificate.Size,
		UploadedAt:             doc.Certificate.UploadedAt,
		LastCertificateUpdated: lastUpdated,
	}, nil
}

// Download returns the full stored certificate for streaming to the client.
func (s *CertificationService) Download(ctx context.Context, rollNo string) (*shared.CertificateFile, error) {
	if rollNo == "" {
		return nil, shared.ErrInvalidArgument("Missing rollNo")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc shared.Certification
	err := s.certsCol.FindOne(queryCtx, bson.M{"roll no": rollNo}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("Certificate not found")
		}
		return nil, shared.ErrInternal("Server error")
	}
	if doc.Certificate == nil {
		return nil, shared.ErrNotFound("Certificate not found")
	}

	return doc.Certificate, nil
}

// VerifyPDF reports whether the stored file looks like a well-formed PDF
// without streaming it.
func (s *CertificationService) VerifyPDF(ctx context.Context, rollNo string) (*VerifyResult, error) {
	cert, err := s.Download(ctx, rollNo)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Filename:    cert.Filename,
		ContentType: cert.ContentType,
		Size:        cert.Size,
		DataLength:  len(cert.Data),
		IsPDFFormat: cert.ContentType == pdfContentType && strings.HasSuffix(strings.ToLower(cert.Filename), ".pdf"),
	}, nil
}
