package courses

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"campus_electives/backend/internal/shared"
)

func initService(t *testing.T) (*CourseService, *shared.Store) {
	t.Helper()

	if os.Getenv("MONGO_URI") == "" {
		t.Skip("MONGO_URI not set, skipping integration test")
	}

	cfg, err := shared.LoadPortalConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	t.Cleanup(func() { store.Disconnect() })

	return NewCourseService(store), store
}

func TestCourseService_Enroll_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	usersCol := store.StudentDB.Collection(shared.CollUsers)
	testEmail := "test_courses_student@example.com"

	cleanup := func() {
		usersCol.DeleteMany(ctx, bson.M{"email": testEmail})
	}
	cleanup()
	defer cleanup()

	if _, err := usersCol.InsertOne(ctx, bson.M{
		"email":    testEmail,
		"password": "pass",
		"name":     "Enroll Test Student",
		"roll no":  "20211CSE9010",
	}); err != nil {
		t.Fatalf("Failed to insert test student: %v", err)
	}

	courseA := &shared.CourseRef{Name: "Course A", Link: "https://nptel.ac.in/a", Credits: 3}
	courseB := &shared.CourseRef{Name: "Course B", Link: "https://nptel.ac.in/b", Credits: 3}
	courseC := &shared.CourseRef{Name: "Course C", Link: "https://nptel.ac.in/c", Credits: 3}

	// --- 1. First two open1 enrollments succeed ---
	t.Run("Enroll Within Cap", func(t *testing.T) {
		enrolled, err := svc.Enroll(ctx, testEmail, shared.SlotOpen1, courseA)
		if err != nil {
			t.Fatalf("First enrollment failed: %v", err)
		}
		if len(enrolled) != 1 {
			t.Errorf("Expected 1 enrolled course, got %d", len(enrolled))
		}

		enrolled, err = svc.Enroll(ctx, testEmail, shared.SlotOpen1, courseB)
		if err != nil {
			t.Fatalf("Second enrollment failed: %v", err)
		}
		if len(enrolled) != 2 {
			t.Errorf("Expected 2 enrolled courses, got %d", len(enrolled))
		}
	})

	// --- 2. Duplicate course is rejected ---
	t.Run("Enroll Duplicate Course", func(t *testing.T) {
		_, err := svc.Enroll(ctx, testEmail, shared.SlotOpen1, courseA)
		if shared.CodeOf(err) != shared.CodeAlreadyExists {
			t.Errorf("Expected AlreadyExists, got %v", err)
		}
	})

	// --- 3. Third distinct course breaks the cap ---
	t.Run("Enroll Over Cap", func(t *testing.T) {
		_, err := svc.Enroll(ctx, testEmail, shared.SlotOpen1, courseC)
		if shared.CodeOf(err) != shared.CodeFailedPrecondition {
			t.Errorf("Expected FailedPrecondition, got %v", err)
		}
	})

	// --- 4. Non-open1 slot is last-write-wins ---
	t.Run("Enroll Open3 Slot", func(t *testing.T) {
		if _, err := svc.Enroll(ctx, testEmail, shared.SlotOpen3, courseC); err != nil {
			t.Fatalf("Open3 enrollment failed: %v", err)
		}
	})

	// --- 5. Unknown students and slots are rejected ---
	t.Run("Enroll Unknown Student", func(t *testing.T) {
		_, err := svc.Enroll(ctx, "nobody@example.com", shared.SlotOpen1, courseA)
		if shared.CodeOf(err) != shared.CodeNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	t.Run("Enroll Invalid Slot", func(t *testing.T) {
		_, err := svc.Enroll(ctx, testEmail, "open9", courseA)
		if shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument, got %v", err)
		}
	})
}

func TestCourseService_EmailCertificate_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	usersCol := store.StudentDB.Collection(shared.CollUsers)
	open3Col := store.StudentDB.Collection(shared.CollOpen3Certificates)
	testEmail := "test_courses_cert@example.com"

	cleanup := func() {
		usersCol.DeleteMany(ctx, bson.M{"email": testEmail})
		open3Col.DeleteMany(ctx, bson.M{"studentEmail": testEmail})
	}
	cleanup()
	defer cleanup()

	if _, err := usersCol.InsertOne(ctx, bson.M{
		"email":    testEmail,
		"password": "pass",
		"name":     "Cert Test Student",
		"roll no":  "20211CSE9011",
	}); err != nil {
		t.Fatalf("Failed to insert test student: %v", err)
	}

	file := &shared.CertificateFile{
		Filename:    "nptel.pdf",
		ContentType: "application/pdf",
		Size:        9,
		Data:        []byte("%PDF-1.4\n"),
	}

	t.Run("Upload Then Download", func(t *testing.T) {
		if err := svc.UploadCertificateByEmail(ctx, testEmail, "Cert Test Student", file); err != nil {
			t.Fatalf("Upload failed: %v", err)
		}

		meta, err := svc.CertificateMetadataByEmail(ctx, testEmail)
		if err != nil {
			t.Fatalf("Metadata failed: %v", err)
		}
		if meta.Filename != "nptel.pdf" {
			t.Errorf("Expected filename nptel.pdf, got %s", meta.Filename)
		}

		cert, err := svc.DownloadCertificateByEmail(ctx, testEmail)
		if err != nil {
			t.Fatalf("Download failed: %v", err)
		}
		if string(cert.Data) != "%PDF-1.4\n" {
			t.Error("Downloaded bytes do not match upload")
		}
	})

	t.Run("Download Missing Certificate", func(t *testing.T) {
		_, err := svc.DownloadCertificateByEmail(ctx, "nobody@example.com")
		if shared.CodeOf(err) != shared.CodeNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}
