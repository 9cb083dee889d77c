package projects

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

// ProjectService mediates the guide-request workflow between students and
// teachers. Accept/unassign mutate one document in each database; the store
// decides whether those writes run inside a transaction.
type ProjectService struct {
	store       *shared.Store
	teachersCol *mongo.Collection
	usersCol    *mongo.Collection
	domainsCol  *mongo.Collection
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(store *shared.Store) *ProjectService {
	return &ProjectService{
		store:       store,
		teachersCol: store.TeacherDB.Collection(shared.CollTeachers),
		usersCol:    store.StudentDB.Collection(shared.CollUsers),
		domainsCol:  store.StudentDB.Collection(shared.CollProjectDomains),
	}
}

// ListDomains returns the project domain options as stored.
func (s *ProjectService) ListDomains(ctx context.Context) ([]bson.M, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.domainsCol.Find(queryCtx, bson.M{})
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

// TeachersByDomain lists teachers whose specialization covers the domain,
// with passwords projected out.
func (s *ProjectService) TeachersByDomain(ctx context.Context, domain string) ([]bson.M, error) {
	if domain == "" {
		return nil, shared.ErrInvalidArgument("Missing domain")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"password": 0})
	cursor, err := s.teachersCol.Find(queryCtx, bson.M{"course_specialization_sector": domain}, opts)
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

// GetTeacher returns a single teacher document minus the password.
func (s *ProjectService) GetTeacher(ctx context.Context, email string) (bson.M, error) {
	if email == "" {
		return nil, shared.ErrInvalidArgument("Missing email")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	var doc bson.M
	err := s.teachersCol.FindOne(queryCtx, bson.M{"email": email}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("Teacher not found")
		}
		return nil, shared.ErrInternal("Server error")
	}
	return doc, nil
}

// RequestGuide appends a pending supervision request to the teacher's
// pendingRequests array. A student may have at most one pending request per
// teacher; a second attempt while one is pending is rejected. Each entry
// carries a generated requestId as an idempotency handle.
func (s *ProjectService) RequestGuide(ctx context.Context, studentEmail, teacherEmail, domain string) (string, error) {
	if studentEmail == "" || teacherEmail == "" || domain == "" {
		return "", shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	request := shared.GuideRequest{
		RequestID:    uuid.NewString(),
		StudentEmail: studentEmail,
		Domain:       domain,
		Status:       shared.RequestPending,
		RequestedAt:  time.Now(),
	}

	// The filter excludes teachers that already hold a pending request from
	// this student, so the push and the duplicate check are one operation.
	res, err := s.teachersCol.UpdateOne(queryCtx,
		bson.M{
			"email":                        teacherEmail,
			"pendingRequests.studentEmail": bson.M{"$ne": studentEmail},
		},
		bson.M{"$push": bson.M{"pendingRequests": request}},
	)
	if err != nil {
		return "", shared.ErrInternal("Server error")
	}

	if res.MatchedCount == 0 {
		count, err := s.teachersCol.CountDocuments(queryCtx, bson.M{"email": teacherEmail})
		if err != nil {
			return "", shared.ErrInternal("Server error")
		}
		if count == 0 {
			return "", shared.ErrNotFound("Teacher not found")
		}
		return "", shared.ErrAlreadyExists("A request to this teacher is already pending")
	}

	return request.RequestID, nil
}

// RespondRequest resolves a pending request. The pending entry is removed in
// either case; on accept the student lands in the teacher's students array
// (one entry per studentEmail) and the student's open_electives.open2 is set
// to point back at the teacher.
func (s *ProjectService) RespondRequest(ctx context.Context, teacherEmail, studentEmail string, accept bool) error {
	if teacherEmail == "" || studentEmail == "" {
		return shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// 1. Load the teacher to find the pending entry (carries the domain)
	var teacher shared.Teacher
	err := s.teachersCol.FindOne(queryCtx, bson.M{"email": teacherEmail}).Decode(&teacher)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return shared.ErrNotFound("Teacher not found")
		}
		return shared.ErrInternal("Server error")
	}

	domain := ""
	for _, req := range teacher.PendingRequests {
		if req.StudentEmail == studentEmail {
			domain = req.Domain
			break
		}
	}

	// 2. Apply the cross-document mutation
	err = s.store.RunMultiWrite(queryCtx, func(ctx context.Context) error {
		if _, err := s.teachersCol.UpdateOne(ctx,
			bson.M{"email": teacherEmail},
			bson.M{"$pull": bson.M{"pendingRequests": bson.M{"studentEmail": studentEmail}}},
		); err != nil {
			return err
		}

		if !accept {
			return nil
		}

		// Replace any prior entry for this student so the students array
		// keeps set semantics by studentEmail.
		if _, err := s.teachersCol.UpdateOne(ctx,
			bson.M{"email": teacherEmail},
			bson.M{"$pull": bson.M{"students": bson.M{"studentEmail": studentEmail}}},
		); err != nil {
			return err
		}
		if _, err := s.teachersCol.UpdateOne(ctx,
			bson.M{"email": teacherEmail},
			bson.M{"$push": bson.M{"students": shared.GuideStudent{StudentEmail: studentEmail, Domain: domain}}},
		); err != nil {
			return err
		}

		_, err := s.usersCol.UpdateOne(ctx,
			bson.M{"email": studentEmail},
			bson.M{"$set": bson.M{"open_electives.open2": shared.GuideAssignmentInfo{
				Guide:  teacherEmail,
				Status: shared.RequestAccepted,
				Domain: domain,
			}}},
		)
		return err
	})
	if err != nil {
		return shared.ErrInternal("Server error")
	}

	return nil
}

// UnassignStudent removes an accepted supervision pairing from both sides.
func (s *ProjectService) UnassignStudent(ctx context.Context, teacherEmail, studentEmail string) error {
	if teacherEmail == "" || studentEmail == "" {
		return shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.store.RunMultiWrite(queryCtx, func(ctx context.Context) error {
		if _, err := s.teachersCol.UpdateOne(ctx,
			bson.M{"email": teacherEmail},
			bson.M{"$pull": bson.M{"students": bson.M{"studentEmail": studentEmail}}},
		); err != nil {
			return err
		}

		_, err := s.usersCol.UpdateOne(ctx,
			bson.M{"email": studentEmail},
			bson.M{"$unset": bson.M{"open_electives.open2": ""}},
		)
		return err
	})
	if err != nil {
		return shared.ErrInternal("Server error")
	}

	return nil
}
