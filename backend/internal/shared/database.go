// ============================================================================
// backend/internal/shared/database.go
// Shared MongoDB connection, index bootstrap and transaction helpers
// ============================================================================

package shared

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI             string
	StudentDB       string // users, nptel courses, domains, certifications
	TeacherDB       string // teachers, marks
	ConnectTimeout  time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxIdleTime     time.Duration
	UseTransactions bool // requires a replica set deployment
}

// Collection names across both databases.
const (
	CollUsers             = "users"
	CollNPTELCourses      = "nptel courses"
	CollProjectDomains    = "domains options for project"
	CollCertifications    = "certifications"
	CollOpen3Certificates = "open3_certificates"
	CollTeachers          = "teachers"
	CollMarks             = "marks"
)

// Store bundles the shared client with handles to both logical databases.
// It is constructed once at startup and injected into every service.
type Store struct {
	Client    *mongo.Client
	StudentDB *mongo.Database
	TeacherDB *mongo.Database

	useTransactions bool
}

// ConnectMongoDB establishes connection to MongoDB Atlas/Local with proper configuration
func ConnectMongoDB(config *MongoConfig) (*Store, error) {
	if config == nil {
		return nil, fmt.Errorf("mongo config cannot be nil")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetMaxPoolSize(config.MaxPoolSize).
		SetMinPoolSize(config.MinPoolSize).
		SetMaxConnIdleTime(config.MaxIdleTime).
		SetServerSelectionTimeout(10 * time.Second).
		SetConnectTimeout(config.ConnectTimeout).
		SetSocketTimeout(30 * time.Second).
		SetHeartbeatInterval(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping MongoDB to verify connection
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("INFO: Successfully connected to MongoDB (databases: %s, %s)", config.StudentDB, config.TeacherDB)

	return &Store{
		Client:          client,
		StudentDB:       client.Database(config.StudentDB),
		TeacherDB:       client.Database(config.TeacherDB),
		useTransactions: config.UseTransactions,
	}, nil
}

// Disconnect gracefully closes the MongoDB connection
func (s *Store) Disconnect() error {
	if s == nil || s.Client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	log.Println("INFO: Successfully disconnected from MongoDB")
	return nil
}

// EnsureIndexes creates the unique indexes the portal relies on. Failures are
// reported but non-fatal: the indexes usually already exist.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	idxCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	certsCol := s.StudentDB.Collection(CollCertifications)
	if _, err := certsCol.Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "roll no", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create unique index on certifications 'roll no': %w", err)
	}

	usersCol := s.StudentDB.Collection(CollUsers)
	if _, err := usersCol.Indexes().CreateOne(idxCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("failed to create unique index on users 'email': %w", err)
	}

	log.Println("INFO: MongoDB indexes verified")
	return nil
}

// ============================================================================
// Transaction Helpers
// ============================================================================

// WithTransaction executes a function within a MongoDB transaction
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(sessCtx mongo.SessionContext) error) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})

	return err
}

// RunMultiWrite executes fn either inside a transaction or directly against
// the given context, depending on the deployment's transaction support.
// Standalone mongod (the development default) rejects transactions, in which
// case the writes run as an ordered best-effort sequence.
func (s *Store) RunMultiWrite(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.useTransactions {
		return WithTransaction(ctx, s.Client, func(sessCtx mongo.SessionContext) error {
			return fn(sessCtx)
		})
	}
	return fn(ctx)
}
