package main

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campus_electives/backend/internal/shared"
)

// Demo accounts for local development
const (
	DemoStudentEmail    = "student1@presidency.edu"
	DemoStudentPassword = "studpass1"
	DemoStudentRollNo   = "20211CSE0001"
)

// TeacherSeed captures one teacher account with its guide domains.
type TeacherSeed struct {
	Email           string
	Password        string
	Name            string
	Specializations []string
}

func main() {
	log.Println("INFO: Starting Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("INFO: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadPortalConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	store, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("FATAL: Failed to connect to MongoDB: %v", err)
	}
	defer store.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Seeding is upsert-based and keyed by email so reruns are safe and
	// never wipe enrollments, guide assignments or tasks.
	seedTeachers(ctx, store.TeacherDB)
	seedProjectDomains(ctx, store.StudentDB)
	seedNPTELCourses(ctx, store.StudentDB)
	seedDemoStudent(ctx, store.StudentDB)

	log.Println("INFO: All data seeding completed successfully.")
}

func seedTeachers(ctx context.Context, db *mongo.Database) {
	log.Println("INFO: --- Seeding Teachers ---")
	teachersCol := db.Collection(shared.CollTeachers)

	teachers := []TeacherSeed{
		{"teacher1@presidency.edu", "teachpass1", "Dr. Anitha Rao", []string{"Machine Learning", "Data Science"}},
		{"teacher2@presidency.edu", "teachpass2", "Prof. Suresh Kumar", []string{"Web Development", "Cloud Computing"}},
		{"teacher3@presidency.edu", "teachpass3", "Dr. Meena Iyer", []string{"Cybersecurity", "Networking"}},
		{"teacher4@presidency.edu", "teachpass4", "Prof. Rajesh Nair", []string{"IoT", "Embedded Systems"}},
		{"teacher5@presidency.edu", "teachpass5", "Dr. Kavya Shetty", []string{"Artificial Intelligence", "Machine Learning"}},
	}

	for _, t := range teachers {
		filter := bson.M{"email": t.Email}
		update := bson.M{
			"$set": bson.M{
				"email":                        t.Email,
				"password":                     t.Password,
				"name":                         t.Name,
				"course_specialization_sector": t.Specializations,
			},
			"$setOnInsert": bson.M{
				"pendingRequests": []shared.GuideRequest{},
				"students":        []shared.GuideStudent{},
			},
		}
		opts := options.Update().SetUpsert(true)

		if _, err := teachersCol.UpdateOne(ctx, filter, update, opts); err != nil {
			log.Fatalf("FATAL: Error seeding teacher %s: %v", t.Email, err)
		}
		log.Printf("INFO: Seeded Teacher: %s", t.Email)
	}
}

func seedProjectDomains(ctx context.Context, db *mongo.Database) {
	log.Println("INFO: --- Seeding Project Domains ---")
	domainsCol := db.Collection(shared.CollProjectDomains)

	domains := []string{
		"Machine Learning",
		"Data Science",
		"Web Development",
		"Cloud Computing",
		"Cybersecurity",
		"Networking",
		"IoT",
		"Embedded Systems",
		"Artificial Intelligence",
	}

	for _, d := range domains {
		filter := bson.M{"domain": d}
		update := bson.M{"$set": bson.M{"domain": d}}
		opts := options.Update().SetUpsert(true)

		if _, err := domainsCol.UpdateOne(ctx, filter, update, opts); err != nil {
			log.Fatalf("FATAL: Error seeding domain %s: %v", d, err)
		}
		log.Printf("INFO: Seeded Domain: %s", d)
	}
}

func seedNPTELCourses(ctx context.Context, db *mongo.Database) {
	log.Println("INFO: --- Seeding NPTEL Courses ---")
	nptelCol := db.Collection(shared.CollNPTELCourses)

	nptelCourses := []shared.CourseRef{
		{Name: "Introduction to Machine Learning", Link: "https://nptel.ac.in/courses/106106139", Credits: 3},
		{Name: "Data Structures and Algorithms", Link: "https://nptel.ac.in/courses/106102064", Credits: 3},
		{Name: "Cloud Computing", Link: "https://nptel.ac.in/courses/106105167", Credits: 3},
		{Name: "Cryptography and Network Security", Link: "https://nptel.ac.in/courses/106105031", Credits: 3},
		{Name: "Introduction to Internet of Things", Link: "https://nptel.ac.in/courses/106105166", Credits: 3},
		{Name: "Deep Learning", Link: "https://nptel.ac.in/courses/106106184", Credits: 3},
	}

	for _, c := range nptelCourses {
		filter := bson.M{"name": c.Name}
		update := bson.M{"$set": c}
		opts := options.Update().SetUpsert(true)

		if _, err := nptelCol.UpdateOne(ctx, filter, update, opts); err != nil {
			log.Fatalf("FATAL: Error seeding NPTEL course %s: %v", c.Name, err)
		}
		log.Printf("INFO: Seeded NPTEL Course: %s", c.Name)
	}
}

func seedDemoStudent(ctx context.Context, db *mongo.Database) {
	log.Println("INFO: --- Seeding Demo Student ---")
	usersCol := db.Collection(shared.CollUsers)

	filter := bson.M{"email": DemoStudentEmail}
	update := bson.M{
		"$set": bson.M{
			"email":          DemoStudentEmail,
			"password":       DemoStudentPassword,
			"name":           "Demo Student",
			"roll no":        DemoStudentRollNo,
			"current sem no": 6,
			"mandatory courses": bson.M{
				"cor1": bson.M{"course code": "CSE3001", "name": "Compiler Design", "credits": 4},
				"cor2": bson.M{"course code": "CSE3002", "name": "Software Engineering", "credits": 3},
			},
			"total credits In this sem": 21,
		},
		"$setOnInsert": bson.M{
			"open_electives": bson.M{},
			"tasks":          []shared.Task{},
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := usersCol.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Fatalf("FATAL: Error seeding demo student: %v", err)
	}
	log.Printf("INFO: Seeded Student: %s", DemoStudentEmail)
}
