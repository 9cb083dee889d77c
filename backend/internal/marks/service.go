package marks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

// MarksService stores per-phase scores keyed by (teacherEmail, studentEmail).
type MarksService struct {
	marksCol *mongo.Collection
}

// NewMarksService creates a new MarksService instance
func NewMarksService(store *shared.Store) *MarksService {
	return &MarksService{
		marksCol: store.TeacherDB.Collection(shared.CollMarks),
	}
}

// MarkEntry is one student's phase scores in a bulk save.
type MarkEntry struct {
	StudentEmail string            `json:"studentEmail"`
	Phases       map[string]string `json:"phases"`
}

// ListMarks returns every marks record a teacher has saved.
func (s *MarksService) ListMarks(ctx context.Context, teacherEmail string) ([]shared.MarksRecord, error) {
	if teacherEmail == "" {
		return nil, shared.ErrInvalidArgument("Missing teacherEmail")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.marksCol.Find(queryCtx, bson.M{"teacherEmail": teacherEmail})
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	defer cursor.Close(queryCtx)

	records := []shared.MarksRecord{}
	if err := cursor.All(queryCtx, &records); err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	return records, nil
}

// SaveMarks upserts one record per entry in a single unordered bulk write.
// Each record's phases map is replaced verbatim with the supplied value;
// callers resend the full map, so omitted phases are dropped intentionally.
func (s *MarksService) SaveMarks(ctx context.Context, teacherEmail string, entries []MarkEntry) error {
	if teacherEmail == "" || entries == nil {
		return shared.ErrInvalidArgument("Missing fields")
	}
	if len(entries) == 0 {
		return nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(entries))
	for _, entry := range entries {
		phases := entry.Phases
		if phases == nil {
			phases = map[string]string{}
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"teacherEmail": teacherEmail, "studentEmail": entry.StudentEmail}).
			SetUpdate(bson.M{"$set": bson.M{
				"teacherEmail": teacherEmail,
				"studentEmail": entry.StudentEmail,
				"phases":       phases,
				"updatedAt":    now,
			}}).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.marksCol.BulkWrite(queryCtx, models, opts); err != nil {
		return shared.ErrInternal("Server error")
	}

	return nil
}
