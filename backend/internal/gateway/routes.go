package gateway

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"campus_electives/backend/internal/auth"
	"campus_electives/backend/internal/certification"
	"campus_electives/backend/internal/chat"
	"campus_electives/backend/internal/courses"
	"campus_electives/backend/internal/gateway/handlers"
	"campus_electives/backend/internal/marks"
	"campus_electives/backend/internal/projects"
	"campus_electives/backend/internal/shared"
	"campus_electives/backend/internal/tasks"
)

// Services bundles the domain services behind the HTTP layer.
type Services struct {
	Auth          *auth.AuthService
	Courses       *courses.CourseService
	Projects      *projects.ProjectService
	Marks         *marks.MarksService
	Certification *certification.CertificationService
	Tasks         *tasks.TaskService
	Chat          *chat.ChatService
}

// SetupRoutes configures the Chi router, middleware, and route handlers.
func SetupRoutes(svc *Services, config *shared.PortalConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS Configuration (Allow React Frontend)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: svc.Auth}
	courseHandler := &handlers.CourseHandler{
		Courses:       svc.Courses,
		Certification: svc.Certification,
		MaxUploadSize: config.Upload.MaxCertificateSize,
	}
	projectHandler := &handlers.ProjectHandler{Projects: svc.Projects, Marks: svc.Marks}
	certificationHandler := &handlers.CertificationHandler{
		Certification: svc.Certification,
		MaxUploadSize: config.Upload.MaxCertificateSize,
	}
	taskHandler := &handlers.TaskHandler{Tasks: svc.Tasks}
	chatHandler := &handlers.ChatHandler{Chat: svc.Chat}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Get("/lookup", authHandler.Lookup)
			r.Put("/update-teacher-password", authHandler.UpdateTeacherPassword)
			r.Get("/validate", authHandler.Validate)
		})

		// NPTEL catalog, elective enrollment and legacy certificate paths
		r.Route("/courses", func(r chi.Router) {
			r.Get("/nptel", courseHandler.ListNPTEL)
			r.Post("/enroll", courseHandler.Enroll)
			r.Post("/upload-certificate", courseHandler.UploadCertificateByEmail)
			r.Get("/certificate-metadata/{email}", courseHandler.CertificateMetadataByEmail)
			r.Get("/download-certificate/{email}", courseHandler.DownloadCertificateByEmail)
			r.Post("/upload-certificate-rollno", courseHandler.UploadCertificateByRollNo)
			r.Get("/certificate-metadata-rollno/{rollNo}", courseHandler.CertificateMetadataByRollNo)
			r.Get("/download-certificate-rollno/{rollNo}", courseHandler.DownloadCertificateByRollNo)
		})

		// Guide assignment workflow and marks
		r.Route("/projects", func(r chi.Router) {
			r.Get("/domains", projectHandler.ListDomains)
			r.Get("/teachers/by-domain", projectHandler.TeachersByDomain)
			r.Get("/teachers/{email}", projectHandler.GetTeacher)
			r.Post("/request-guide", projectHandler.RequestGuide)
			r.Post("/respond-request", projectHandler.RespondRequest)
			r.Post("/unassign-student", projectHandler.UnassignStudent)
			r.Get("/marks/{teacherEmail}", projectHandler.ListMarks)
			r.Post("/marks/save", projectHandler.SaveMarks)
		})

		// Roll-number-keyed certificate store
		r.Route("/certification", func(r chi.Router) {
			r.Get("/test", certificationHandler.Test)
			r.Post("/upload", certificationHandler.Upload)
			r.Get("/metadata/{rollNo}", certificationHandler.Metadata)
			r.Get("/download/{rollNo}", certificationHandler.Download)
			r.Get("/verify-pdf/{rollNo}", certificationHandler.VerifyPDF)
		})

		// To-do list
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})

		// Course assistant chat proxy
		r.Post("/chat", chatHandler.Ask)
	})

	return r
}
