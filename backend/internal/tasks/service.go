package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

// TaskService manages the to-do list embedded in each student document.
type TaskService struct {
	usersCol *mongo.Collection
}

// NewTaskService creates a new TaskService instance
func NewTaskService(store *shared.Store) *TaskService {
	return &TaskService{
		usersCol: store.StudentDB.Collection(shared.CollUsers),
	}
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// List returns the student's tasks, empty when none exist.
func (s *TaskService) List(ctx context.Context, email string) ([]shared.Task, error) {
	if email == "" {
		return nil, shared.ErrInvalidArgument("Missing email query param")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"tasks": 1})
	var user shared.User
	err := s.usersCol.FindOne(queryCtx, bson.M{"email": email}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("User not found")
		}
		return nil, shared.ErrInternal("Server error")
	}

	if user.Tasks == nil {
		return []shared.Task{}, nil
	}
	return user.Tasks, nil
}

// Create appends a new task to the student's list.
func (s *TaskService) Create(ctx context.Context, email, title, description, dueDate, priority string) (*shared.Task, error) {
	if email == "" || title == "" {
		return nil, shared.ErrInvalidArgument("Missing fields")
	}
	if priority == "" {
		priority = shared.PriorityLow
	}
	if !shared.IsValidPriority(priority) {
		return nil, shared.ErrInvalidArgument("Invalid priority")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	task := shared.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
		Completed:   false,
		CreatedAt:   time.Now(),
	}

	res, err := s.usersCol.UpdateOne(queryCtx,
		bson.M{"email": email},
		bson.M{"$push": bson.M{"tasks": task}},
	)
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	if res.MatchedCount == 0 {
		return nil, shared.ErrNotFound("User not found")
	}

	return &task, nil
}

// Update applies a partial update to one embedded task via the positional
// operator.
func (s *TaskService) Update(ctx context.Context, email, id string, upd *TaskUpdate) error {
	if email == "" {
		return shared.ErrInvalidArgument("Missing email")
	}
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return shared.ErrInvalidArgument("Invalid task id")
	}

	set := bson.M{}
	if upd != nil {
		if upd.Title != nil {
			set["tasks.$.title"] = *upd.Title
		}
		if upd.Description != nil {
			set["tasks.$.description"] = *upd.Description
		}
		if upd.DueDate != nil {
			set["tasks.$.dueDate"] = *upd.DueDate
		}
		if upd.Priority != nil {
			if !shared.IsValidPriority(*upd.Priority) {
				return shared.ErrInvalidArgument("Invalid priority")
			}
			set["tasks.$.priority"] = *upd.Priority
		}
		if upd.Completed != nil {
			set["tasks.$.completed"] = *upd.Completed
		}
	}
	if len(set) == 0 {
		return shared.ErrInvalidArgument("No fields to update")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.usersCol.UpdateOne(queryCtx,
		bson.M{"email": email, "tasks._id": taskID},
		bson.M{"$set": set},
	)
	if err != nil {
		return shared.ErrInternal("Server error")
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound("User or task not found")
	}

	return nil
}

// Delete removes one task from the student's list.
func (s *TaskService) Delete(ctx context.Context, email, id string) error {
	if email == "" {
		return shared.ErrInvalidArgument("Missing email query param")
	}
	taskID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return shared.ErrInvalidArgument("Invalid task id")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.usersCol.UpdateOne(queryCtx,
		bson.M{"email": email},
		bson.M{"$pull": bson.M{"tasks": bson.M{"_id": taskID}}},
	)
	if err != nil {
		return shared.ErrInternal("Server error")
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound("User not found")
	}

	return nil
}
