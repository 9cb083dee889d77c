package tasks

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"campus_electives/backend/internal/shared"
)

func initService(t *testing.T) (*TaskService, *shared.Store) {
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

	return NewTaskService(store), store
}

func TestTaskService_Integration(t *testing.T) {
	svc, store := initService(t)
	ctx := context.Background()

	usersCol := store.StudentDB.Collection(shared.CollUsers)
	testEmail := "test_tasks_student@example.com"

	cleanup := func() {
		usersCol.DeleteMany(ctx, bson.M{"email": testEmail})
	}
	cleanup()
	defer cleanup()

	if _, err := usersCol.InsertOne(ctx, bson.M{
		"email":    testEmail,
		"password": "pass",
		"name":     "Task Test Student",
		"roll no":  "20211CSE9030",
	}); err != nil {
		t.Fatalf("Failed to insert test student: %v", err)
	}

	var taskID string

	// --- 1. Create ---
	t.Run("Create Task", func(t *testing.T) {
		task, err := svc.Create(ctx, testEmail, "Finish assignment", "DSA lab sheet", "2026-09-15", "")
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if task.Priority != shared.PriorityLow {
			t.Errorf("Expected default priority low, got %s", task.Priority)
		}
		if task.Completed {
			t.Error("New task must start incomplete")
		}
		taskID = task.ID.Hex()
	})

	t.Run("Create Invalid Priority", func(t *testing.T) {
		_, err := svc.Create(ctx, testEmail, "Bad", "", "", "urgent")
		if shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument, got %v", err)
		}
	})

	t.Run("Create Unknown Student", func(t *testing.T) {
		_, err := svc.Create(ctx, "nobody@example.com", "Task", "", "", "")
		if shared.CodeOf(err) != shared.CodeNotFound {
			t.Errorf("Expected NotFound, got %v", err)
		}
	})

	// --- 2. List ---
	t.Run("List Tasks", func(t *testing.T) {
		list, err := svc.List(ctx, testEmail)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("Expected 1 task, got %d", len(list))
		}
		if list[0].Title != "Finish assignment" {
			t.Errorf("Unexpected title: %s", list[0].Title)
		}
	})

	// --- 3. Update ---
	t.Run("Update Task", func(t *testing.T) {
		completed := true
		priority := shared.PriorityHigh
		err := svc.Update(ctx, testEmail, taskID, &TaskUpdate{
			Completed: &completed,
			Priority:  &priority,
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		list, _ := svc.List(ctx, testEmail)
		if len(list) != 1 || !list[0].Completed || list[0].Priority != shared.PriorityHigh {
			t.Errorf("Update not applied: %+v", list)
		}
	})

	t.Run("Update No Fields", func(t *testing.T) {
		err := svc.Update(ctx, testEmail, taskID, &TaskUpdate{})
		if shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument, got %v", err)
		}
	})

	t.Run("Update Invalid ID", func(t *testing.T) {
		title := "x"
		err := svc.Update(ctx, testEmail, "not-a-hex-id", &TaskUpdate{Title: &title})
		if shared.CodeOf(err) != shared.CodeInvalidArgument {
			t.Errorf("Expected InvalidArgument, got %v", err)
		}
	})

	// --- 4. Delete ---
	t.Run("Delete Task", func(t *testing.T) {
		if err := svc.Delete(ctx, testEmail, taskID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}

		list, err := svc.List(ctx, testEmail)
		if err != nil {
			t.Fatalf("List after delete failed: %v", err)
		}
		if len(list) != 0 {
			t.Errorf("Expected empty task list, got %d", len(list))
		}
	})
}
