package projects

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"campus_electives/backend/internal/shared"
)

func initService(t *testing.T) (*ProjectService, *shared.Store) {
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

	return NewProjectService(store), store
}

func TestProjectService_GuideWorkflow_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	usersCol := store.StudentDB.Collection(shared.CollUsers)
	teachersCol := store.TeacherDB.Collection(shared.CollTeachers)

	studentEmail := "test_projects_student@example.com"
	teacherEmail := "test_projects_teacher@example.com"
	domain := "Machine Learning"

	cleanup := func() {
		usersCol.DeleteMany(ctx, bson.M{"email": studentEmail})
		teachersCol.DeleteMany(ctx, bson.M{"email": teacherEmail})
	}
	cleanup()
	defer cleanup()

	if _, err := usersCol.InsertOne(ctx, bson.M{
		"email":    studentEmail,
		"password": "pass",
		"name":     "Workflow Test Student",
		"roll no":  "20211CSE9020",
	}); err != nil {
		t.Fatalf("Failed to insert test student: %v", err)
	}
	if _, err := teachersCol.InsertOne(ctx, bson.M{
		"email":                        teacherEmail,
		"password":                     "pass",
		"name":                         "Workflow Test Teacher",
		"course_specialization_sector": []string{domain},
	}); err != nil {
		t.Fatalf("Failed to insert test teacher: %v", err)
	}

	// --- 1. Request a guide ---
	t.Run("Request Guide", func(t *testing.T) {
		requestID, err := svc.RequestGuide(ctx, studentEmail, teacherEmail, domain)
		if err != nil {
			t.Fatalf("RequestGuide failed: %v", err)
		}
		if requestID == "" {
			t.Error("Expected a generated request id")
		}

		var teacher shared.Teacher
		if err := teachersCol.FindOne(ctx, bson.M{"email": teacherEmail}).Decode(&teacher); err != nil {
			t.Fatalf("Failed to reload teacher: %v", err)
		}
		if len(teacher.PendingRequests) != 1 {
			t.Fatalf("Expected 1 pending request, got %d", len(teacher.PendingRequests))
		}
		if teacher.PendingRequests[0].Status != shared.RequestPending {
			t.Errorf("Expected pending status, got %s", teacher.PendingRequests[0].Status)
		}
	})

	// --- 2. A second request while one is pending is rejected ---
	t.Run("Request Guide Duplicate Pending", func(t *testing.T) {
		_, err := svc.RequestGuide(ctx, studentEmail, teacherEmail, domain)
		if shared.CodeOf(err) != shared.CodeAlreadyExists {
			t.Errorf("Expected AlreadyExists, got %v", err)
		}
	})

	t.Run("Request Guide Unknown Teacher", func(t *testing.T) {
		_, err := svc.RequestGuide(ctx, studentEmail, "nobody@example.com", domain)
		if shared.CodeOf(err) != shared.CodeNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	// --- 3. Accept: both sides updated, pending entry gone ---
	t.Run("Accept Request", func(t *testing.T) {
		if err := svc.RespondRequest(ctx, teacherEmail, studentEmail, true); err != nil {
			t.Fatalf("RespondRequest failed: %v", err)
		}

		var teacher shared.Teacher
		if err := teachersCol.FindOne(ctx, bson.M{"email": teacherEmail}).Decode(&teacher); err != nil {
			t.Fatalf("Failed to reload teacher: %v", err)
		}
		if len(teacher.PendingRequests) != 0 {
			t.Errorf("Expected pending requests cleared, got %d", len(teacher.PendingRequests))
		}
		if len(teacher.Students) != 1 || teacher.Students[0].StudentEmail != studentEmail {
			t.Fatalf("Expected student in teacher's students array, got %+v", teacher.Students)
		}
		if teacher.Students[0].Domain != domain {
			t.Errorf("Expected domain %s, got %s", domain, teacher.Students[0].Domain)
		}

		var student shared.User
		if err := usersCol.FindOne(ctx, bson.M{"email": studentEmail}).Decode(&student); err != nil {
			t.Fatalf("Failed to reload student: %v", err)
		}
		if student.OpenElectives == nil || student.OpenElectives.Open2 == nil {
			t.Fatal("Expected open2 assignment on student")
		}
		if student.OpenElectives.Open2.Guide != teacherEmail {
			t.Errorf("Expected guide %s, got %s", teacherEmail, student.OpenElectives.Open2.Guide)
		}
		if student.OpenElectives.Open2.Status != shared.RequestAccepted {
			t.Errorf("Expected accepted status, got %s", student.OpenElectives.Open2.Status)
		}
	})

	// --- 4. Re-accepting keeps set semantics on the students array ---
	t.Run("Accept Twice Keeps One Entry", func(t *testing.T) {
		if _, err := svc.RequestGuide(ctx, studentEmail, teacherEmail, domain); err != nil {
			t.Fatalf("Second RequestGuide failed: %v", err)
		}
		if err := svc.RespondRequest(ctx, teacherEmail, studentEmail, true); err != nil {
			t.Fatalf("Second RespondRequest failed: %v", err)
		}

		var teacher shared.Teacher
		if err := teachersCol.FindOne(ctx, bson.M{"email": teacherEmail}).Decode(&teacher); err != nil {
			t.Fatalf("Failed to reload teacher: %v", err)
		}
		if len(teacher.Students) != 1 {
			t.Errorf("Expected exactly one students entry, got %d", len(teacher.Students))
		}
	})

	// --- 5. Unassign removes both sides ---
	t.Run("Unassign Student", func(t *testing.T) {
		if err := svc.UnassignStudent(ctx, teacherEmail, studentEmail); err != nil {
			t.Fatalf("UnassignStudent failed: %v", err)
		}

		var teacher shared.Teacher
		if err := teachersCol.FindOne(ctx, bson.M{"email": teacherEmail}).Decode(&teacher); err != nil {
			t.Fatalf("Failed to reload teacher: %v", err)
		}
		if len(teacher.Students) != 0 {
			t.Errorf("Expected students array cleared, got %+v", teacher.Students)
		}

		var student shared.User
		if err := usersCol.FindOne(ctx, bson.M{"email": studentEmail}).Decode(&student); err != nil {
			t.Fatalf("Failed to reload student: %v", err)
		}
		if student.OpenElectives != nil && student.OpenElectives.Open2 != nil {
			t.Error("Expected open2 assignment removed from student")
		}
	})

	// --- 6. Reject: pending entry removed, nothing assigned ---
	t.Run("Reject Request", func(t *testing.T) {
		if _, err := svc.RequestGuide(ctx, studentEmail, teacherEmail, domain); err != nil {
			t.Fatalf("RequestGuide failed: %v", err)
		}
		if err := svc.RespondRequest(ctx, teacherEmail, studentEmail, false); err != nil {
			t.Fatalf("RespondRequest(reject) failed: %v", err)
		}

		var teacher shared.Teacher
		if err := teachersCol.FindOne(ctx, bson.M{"email": teacherEmail}).Decode(&teacher); err != nil {
			t.Fatalf("Failed to reload teacher: %v", err)
		}
		if len(teacher.PendingRequests) != 0 {
			t.Errorf("Expected pending requests cleared after reject, got %d", len(teacher.PendingRequests))
		}
		if len(teacher.Students) != 0 {
			t.Errorf("Reject must not assign the student, got %+v", teacher.Students)
		}
	})
}

func TestProjectService_TeachersByDomain_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	teachersCol := store.TeacherDB.Collection(shared.CollTeachers)
	teacherEmail := "test_projects_domain_teacher@example.com"

	cleanup := func() {
		teachersCol.DeleteMany(ctx, bson.M{"email": teacherEmail})
	}
	cleanup()
	defer cleanup()

	if _, err := teachersCol.InsertOne(ctx, bson.M{
		"email":                        teacherEmail,
		"password":                     "secret",
		"name":                         "Domain Test Teacher",
		"course_specialization_sector": []string{"Quantum Computing Test Domain"},
	}); err != nil {
		t.Fatalf("Failed to insert test teacher: %v", err)
	}

	docs, err := svc.TeachersByDomain(ctx, "Quantum Computing Test Domain")
	if err != nil {
		t.Fatalf("TeachersByDomain failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("Expected 1 teacher, got %d", len(docs))
	}
	if _, exists := docs[0]["password"]; exists {
		t.Error("Teacher listing must not carry passwords")
	}

	doc, err := svc.GetTeacher(ctx, teacherEmail)
	if err != nil {
		t.Fatalf("GetTeacher failed: %v", err)
	}
	if _, exists := doc["password"]; exists {
		t.Error("GetTeacher must not carry the password")
	}
}
