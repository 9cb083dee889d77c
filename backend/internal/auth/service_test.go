package auth

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"campus_electives/backend/internal/shared"
)

// initService connects to the live database configured via MONGO_URI.
// Tests are skipped when no database is available.
func initService(t *testing.T) (*AuthService, *shared.Store) {
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

	return NewAuthService(store, cfg), store
}

func TestAuthService_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	usersCol := store.StudentDB.Collection(shared.CollUsers)
	teachersCol := store.TeacherDB.Collection(shared.CollTeachers)

	testEmail := "test_auth_student@example.com"
	testTeacherEmail := "test_auth_teacher@example.com"
	testPassword := "secret123"

	// Clean up before and after
	cleanup := func() {
		usersCol.DeleteMany(ctx, bson.M{"email": testEmail})
		teachersCol.DeleteMany(ctx, bson.M{"email": testTeacherEmail})
	}
	cleanup()
	defer cleanup()

	// --- 1. Test Register ---
	t.Run("Register Success", func(t *testing.T) {
		doc, err := svc.Register(ctx, &RegisterRequest{
			RollNo:   "20211CSE9001",
			Name:     "Integration Test Student",
			Email:    testEmail,
			Password: testPassword,
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if doc["email"] != testEmail {
			t.Errorf("Expected email %s, got %v", testEmail, doc["email"])
		}
		if _, exists := doc["password"]; exists {
			t.Error("Register response must not carry the password")
		}
	})

	// --- 2. Test Duplicate Register ---
	t.Run("Register Duplicate Email", func(t *testing.T) {
		_, err := svc.Register(ctx, &RegisterRequest{
			RollNo:   "20211CSE9002",
			Name:     "Duplicate",
			Email:    testEmail,
			Password: "other",
		})
		if shared.CodeOf(err) != shared.CodeAlreadyExists {
			t.Errorf("Expected AlreadyExists, got %v", err)
		}
	})

	// --- 3. Test Login ---
	t.Run("Login Success", func(t *testing.T) {
		result, err := svc.Login(ctx, testEmail, testPassword, "")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.Token == "" {
			t.Error("Expected a token on login")
		}
		if _, exists := result.User["password"]; exists {
			t.Error("Login response must not carry the password")
		}
	})

	t.Run("Login Invalid Password", func(t *testing.T) {
		_, err := svc.Login(ctx, testEmail, "wrongpassword", "")
		if shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument for bad credentials, got %v", err)
		}
	})

	// --- 4. Test Teacher Login and Password Update ---
	t.Run("Teacher Password Update", func(t *testing.T) {
		if _, err := teachersCol.InsertOne(ctx, bson.M{
			"email":    testTeacherEmail,
			"password": "teachpass",
			"name":     "Integration Test Teacher",
		}); err != nil {
			t.Fatalf("Failed to insert test teacher: %v", err)
		}

		if _, err := svc.Login(ctx, testTeacherEmail, "teachpass", shared.RoleTeacher); err != nil {
			t.Fatalf("Teacher login failed: %v", err)
		}

		if err := svc.UpdateTeacherPassword(ctx, testTeacherEmail, "wrong", "newpass"); shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument for wrong current password, got %v", err)
		}

		if err := svc.UpdateTeacherPassword(ctx, testTeacherEmail, "teachpass", "newpass"); err != nil {
			t.Fatalf("UpdateTeacherPassword failed: %v", err)
		}

		if _, err := svc.Login(ctx, testTeacherEmail, "newpass", shared.RoleTeacher); err != nil {
			t.Error("Could not login with new password")
		}
	})

	// --- 5. Test Validate Token ---
	t.Run("Validate Token", func(t *testing.T) {
		result, err := svc.Login(ctx, testEmail, testPassword, "")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		claims, err := svc.ValidateToken(result.Token)
		if err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
		if claims.Email != testEmail || claims.Role != shared.RoleStudent {
			t.Errorf("Unexpected claims: %+v", claims)
		}

		if _, err := svc.ValidateToken("not-a-token"); shared.CodeOf(err) != shared.CodeUnauthenticated {
			t.Errorf("Expected Unauthenticated for garbage token, got %v", err)
		}
	})

	// --- 6. Test Lookup ---
	t.Run("Lookup", func(t *testing.T) {
		doc, err := svc.Lookup(ctx, testEmail)
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if doc["email"] != testEmail {
			t.Errorf("Expected email %s, got %v", testEmail, doc["email"])
		}

		if _, err := svc.Lookup(ctx, "nobody@example.com"); shared.CodeOf(err) != shared.CodeNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})
}
