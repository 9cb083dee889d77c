package certification

import (
	"bytes"
	"strings"
	"testing"

	"campus_electives/backend/internal/shared"
)

// minimalPDF is enough for content sniffing to classify as application/pdf.
var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func validInput() *UploadInput {
	return &UploadInput{
		RollNo:      "20211CSE0042",
		StudentName: "Test Student",
		Filename:    "nptel_certificate.pdf",
		ContentType: "application/pdf",
		Data:        minimalPDF,
	}
}

func TestValidateUpload(t *testing.T) {
	svc := &CertificationService{maxSize: 1 * 1024 * 1024}

	t.Run("Valid PDF passes", func(t *testing.T) {
		if err := svc.validateUpload(validInput()); err != nil {
			t.Errorf("Expected valid upload to pass, got: %v", err)
		}
	})

	cases := []struct {
		name    string
		mutate  func(in *UploadInput)
		wantMsg string
	}{
		{
			name:    "Missing roll number",
			mutate:  func(in *UploadInput) { in.RollNo = "" },
			wantMsg: "Roll number is required",
		},
		{
			name:    "Empty file",
			mutate:  func(in *UploadInput) { in.Data = nil },
			wantMsg: "No file uploaded",
		},
		{
			name:    "Wrong declared content type",
			mutate:  func(in *UploadInput) { in.ContentType = "image/png" },
			wantMsg: "Only PDF files are allowed",
		},
		{
			name:    "Wrong extension",
			mutate:  func(in *UploadInput) { in.Filename = "certificate.docx" },
			wantMsg: ".pdf extension",
		},
		{
			name:    "Non-PDF bytes",
			mutate:  func(in *UploadInput) { in.Data = []byte("just some plain text pretending") },
			wantMsg: "not a valid PDF",
		},
		{
			name: "Oversized file",
			mutate: func(in *UploadInput) {
				in.Data = append(bytes.Clone(minimalPDF), make([]byte, 2*1024*1024)...)
			},
			wantMsg: "1MB limit",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(in)

			err := svc.validateUpload(in)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if shared.CodeOf(err) != shared.CodeInvalidArgument {
				t.Errorf("Expected InvalidArgument, got %v", shared.CodeOf(err))
			}
			if !strings.Contains(shared.MessageOf(err), tc.wantMsg) {
				t.Errorf("Expected message containing %q, got %q", tc.wantMsg, shared.MessageOf(err))
			}
		})
	}
}

func TestValidateUploadNilInput(t *testing.T) {
	svc := &CertificationService{maxSize: 1024}
	if err := svc.validateUpload(nil); err == nil {
		t.Error("Expected error for nil input")
	}
}

func TestValidateUploadUppercaseExtension(t *testing.T) {
	svc := &CertificationService{maxSize: 1 * 1024 * 1024}
	in := validInput()
	in.Filename = "CERTIFICATE.PDF"

	if err := svc.validateUpload(in); err != nil {
		t.Errorf("Uppercase .PDF extension should be accepted, got: %v", err)
	}
}
