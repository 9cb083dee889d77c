package courses

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

// CourseService handles the NPTEL catalog, the per-student elective ledger
// and the legacy email-keyed certificate path.
type CourseService struct {
	usersCol *mongo.Collection
	nptelCol *mongo.Collection
	open3Col *mongo.Collection
}

// NewCourseService creates a new CourseService instance
func NewCourseService(store *shared.Store) *CourseService {
	return &CourseService{
		usersCol: store.StudentDB.Collection(shared.CollUsers),
		nptelCol: store.StudentDB.Collection(shared.CollNPTELCourses),
		open3Col: store.StudentDB.Collection(shared.CollOpen3Certificates),
	}
}

// ListNPTEL returns all documents from the NPTEL course catalog as-is.
func (s *CourseService) ListNPTEL(ctx context.Context) ([]bson.M, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.nptelCol.Find(queryCtx, bson.M{})
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	defer cursor.Close(queryCtx)

	docs := []bson.M{}
	if err := cursor.All(queryCtx, &docs); err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	return docs, nil
}

// Enroll records an elective choice for a student.
//
// Slot open1 (NPTEL picks) enforces a cap of two courses and name uniqueness
// with a single conditional update: the filter only matches when the course
// is not yet present and the array is below the cap, so concurrent
// enrollments cannot overshoot. Other slots store a single object,
// last-write-wins.
func (s *CourseService) Enroll(ctx context.Context, studentEmail, slot string, course *shared.CourseRef) ([]shared.CourseRef, error) {
	if studentEmail == "" || slot == "" || course == nil {
		return nil, shared.ErrInvalidArgument("Missing fields")
	}
	if !shared.IsValidSlot(slot) {
		return nil, shared.ErrInvalidArgument("Unknown elective slot")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot != shared.SlotOpen1 {
		res, err := s.usersCol.UpdateOne(queryCtx,
			bson.M{"email": studentEmail},
			bson.M{"$set": bson.M{"open_electives." + slot: course}},
		)
		if err != nil {
			return nil, shared.ErrInternal("Server error")
		}
		if res.MatchedCount == 0 {
			return nil, shared.ErrNotFound("Student not found")
		}
		return nil, nil
	}

	if course.Name == "" {
		return nil, shared.ErrInvalidArgument("Missing course name")
	}

	// 1. Conditional push: matches only below the cap and without the course
	filter := bson.M{
		"email":                     studentEmail,
		"open_electives.open1.name": bson.M{"$ne": course.Name},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$open_electives.open1", bson.A{}}}},
			shared.MaxOpen1Courses,
		}},
	}
	res, err := s.usersCol.UpdateOne(queryCtx, filter, bson.M{
		"$push": bson.M{"open_electives.open1": course},
	})
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}

	// 2. No match: re-read once to report the precise reason
	if res.MatchedCount == 0 {
		var user shared.User
		err := s.usersCol.FindOne(queryCtx, bson.M{"email": studentEmail}).Decode(&user)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, shared.ErrNotFound("Student not found")
			}
			return nil, shared.ErrInternal("Server error")
		}

		var enrolled []shared.CourseRef
		if user.OpenElectives != nil {
			enrolled = user.OpenElectives.Open1
		}
		for _, c := range enrolled {
			if c.Name == course.Name {
				return nil, shared.ErrAlreadyExists("Course already enrolled")
			}
		}
		return nil, shared.NewErrorf(shared.CodeFailedPrecondition,
			"You can only enroll in %d courses for Open Elective 1 this semester", shared.MaxOpen1Courses)
	}

	// 3. Return the updated list
	var user shared.User
	if err := s.usersCol.FindOne(queryCtx, bson.M{"email": studentEmail}).Decode(&user); err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	if user.OpenElectives == nil {
		return []shared.CourseRef{}, nil
	}
	return user.OpenElectives.Open1, nil
}

// ============================================================================
// Legacy email-keyed certificate path (open elective 3)
// ============================================================================

// UploadCertificateByEmail stores a certificate inside the student document
// at open_electives.open3 and mirrors it into the open3_certificates registry.
func (s *CourseService) UploadCertificateByEmail(ctx context.Context, studentEmail, studentName string, file *shared.CertificateFile) error {
	if studentEmail == "" || file == nil || len(file.Data) == 0 {
		return shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.usersCol.UpdateOne(queryCtx,
		bson.M{"email": studentEmail},
		bson.M{"$set": bson.M{"open_electives.open3": bson.M{"certificate": file}}},
	)
	if err != nil {
		return shared.ErrInternal("Server error")
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound("Student not found")
	}

	// Mirror into the central registry. Best-effort: a registry failure must
	// not fail the upload the student already sees as stored.
	opts := options.Update().SetUpsert(true)
	_, err = s.open3Col.UpdateOne(queryCtx,
		bson.M{"studentEmail": studentEmail},
		bson.M{"$set": bson.M{"studentName": studentName, "certificate": file, "updatedAt": time.Now()}},
		opts,
	)
	if err != nil {
		log.Printf("WARN: Failed to write to open3_certificates registry: %v", err)
	}

	return nil
}

// CertificateMetadataByEmail returns filename/size/uploadedAt for the
// student's open elective 3 certificate.
func (s *CourseService) CertificateMetadataByEmail(ctx context.Context, email string) (*shared.CertificateFile, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	projection := bson.M{
		"open_electives.open3.certificate.filename":   1,
		"open_electives.open3.certificate.size":       1,
		"open_electives.open3.certificate.uploadedAt": 1,
	}
	cert, err := s.findOpen3Certificate(queryCtx, email, projection)
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// DownloadCertificateByEmail returns the full stored certificate.
func (s *CourseService) DownloadCertificateByEmail(ctx context.Context, email string) (*shared.CertificateFile, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.findOpen3Certificate(queryCtx, email, nil)
}

func (s *CourseService) findOpen3Certificate(ctx context.Context, email string, projection bson.M) (*shared.CertificateFile, error) {
	if email == "" {
		return nil, shared.ErrInvalidArgument("Missing email")
	}

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}

	var user shared.User
	err := s.usersCol.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("Certificate not found")
		}
		return nil, shared.ErrInternal("Server error")
	}

	if user.OpenElectives == nil || user.OpenElectives.Open3 == nil || user.OpenElectives.Open3.Certificate == nil {
		return nil, shared.ErrNotFound("Certificate not found")
	}
	return user.OpenElectives.Open3.Certificate, nil
}
