// ============================================================================
// backend/internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ============================================================================
// Student Models
// ============================================================================

// CourseRef is a reference to an external (NPTEL) course a student enrolled in.
type CourseRef struct {
	Name    string  `bson:"name" json:"name"`
	Link    string  `bson:"link,omitempty" json:"link,omitempty"`
	Credits float64 `bson:"credits,omitempty" json:"credits,omitempty"`
}

// GuideAssignmentInfo is the student-side view of an accepted guide request,
// stored at open_electives.open2.
type GuideAssignmentInfo struct {
	Guide  string `bson:"guide" json:"guide"` // teacher email
	Status string `bson:"status" json:"status"`
	Domain string `bson:"domain,omitempty" json:"domain,omitempty"`
}

// CertificateFile holds an uploaded certificate's bytes and metadata.
type CertificateFile struct {
	Filename    string    `bson:"filename" json:"filename"`
	ContentType string    `bson:"contentType" json:"contentType"`
	Size        int64     `bson:"size" json:"size"`
	UploadedAt  time.Time `bson:"uploadedAt" json:"uploadedAt"`
	Data        []byte    `bson:"data" json:"-"` // raw bytes, never exposed in JSON
}

// OpenElectives is the per-student elective ledger with its three slots:
// open1 holds up to two external course refs, open2 the guide assignment,
// open3 the certificate-based elective.
type OpenElectives struct {
	Open1 []CourseRef          `bson:"open1,omitempty" json:"open1,omitempty"`
	Open2 *GuideAssignmentInfo `bson:"open2,omitempty" json:"open2,omitempty"`
	Open3 *Open3Elective       `bson:"open3,omitempty" json:"open3,omitempty"`
}

// Open3Elective wraps the certificate stored inside the student document
// (the legacy email-keyed path; the roll-number path uses the certifications
// collection instead).
type Open3Elective struct {
	Certificate *CertificateFile `bson:"certificate,omitempty" json:"certificate,omitempty"`
}

// Task is a to-do item embedded in the student's user document.
type Task struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     string             `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Priority    string             `bson:"priority" json:"priority"` // low, medium, high
	Completed   bool               `bson:"completed" json:"completed"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// User represents a student account. Several field names carry spaces because
// the collection predates this service and is shared with other tooling.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RollNo        string             `bson:"roll no" json:"rollNo"`
	Name          string             `bson:"name" json:"name"`
	Password      string             `bson:"password" json:"-"` // plain text by design, never exposed in JSON
	Email         string             `bson:"email" json:"email"`
	CurrentSemNo  int32              `bson:"current sem no,omitempty" json:"currentSemNo,omitempty"`
	CurrentGPA    float64            `bson:"current gpa,omitempty" json:"currentGPA,omitempty"`
	CreditsEarned int32              `bson:"credits earned,omitempty" json:"creditsEarned,omitempty"`
	SemCredits    int32              `bson:"total credits In this sem,omitempty" json:"totalCreditsInThisSem,omitempty"`
	Mandatory     primitive.M        `bson:"mandatory courses,omitempty" json:"mandatoryCourses,omitempty"`
	OpenElectives *OpenElectives     `bson:"open_electives,omitempty" json:"openElectives,omitempty"`
	Tasks         []Task             `bson:"tasks,omitempty" json:"tasks,omitempty"`
}

// ============================================================================
// Teacher Models
// ============================================================================

// GuideRequest is a pending supervision request inside a teacher document.
type GuideRequest struct {
	RequestID    string    `bson:"requestId" json:"requestId"`
	StudentEmail string    `bson:"studentEmail" json:"studentEmail"`
	Domain       string    `bson:"domain" json:"domain"`
	Status       string    `bson:"status" json:"status"` // pending
	RequestedAt  time.Time `bson:"requestedAt" json:"requestedAt"`
}

// GuideStudent is an accepted supervision entry inside a teacher document.
// At most one entry exists per studentEmail.
type GuideStudent struct {
	StudentEmail string `bson:"studentEmail" json:"studentEmail"`
	Domain       string `bson:"domain,omitempty" json:"domain,omitempty"`
}

// Teacher represents a teacher account in the teacher database.
type Teacher struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	Specializations []string           `bson:"course_specialization_sector,omitempty" json:"courseSpecializationSector,omitempty"`
	PendingRequests []GuideRequest     `bson:"pendingRequests,omitempty" json:"pendingRequests,omitempty"`
	Students        []GuideStudent     `bson:"students,omitempty" json:"students,omitempty"`
}

// ============================================================================
// Certificate Models
// ============================================================================

// Certification is the roll-number-keyed certificate document. There is at
// most one per roll number; uploads replace the stored file.
type Certification struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RollNo                 string             `bson:"roll no" json:"rollNo"`
	StudentName            string             `bson:"studentName,omitempty" json:"studentName,omitempty"`
	Certificate            *CertificateFile   `bson:"certificate,omitempty" json:"certificate,omitempty"`
	UpdatedAt              time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
	LastCertificateUpdated time.Time          `bson:"lastCertificateUpdated,omitempty" json:"lastCertificateUpdated,omitempty"`
}

// ============================================================================
// Marks Models
// ============================================================================

// MarksRecord holds per-phase scores for one (teacher, student) pair.
// The phases map is replaced wholesale on save, never merged.
type MarksRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TeacherEmail string             `bson:"teacherEmail" json:"teacherEmail"`
	StudentEmail string             `bson:"studentEmail" json:"studentEmail"`
	Phases       map[string]string  `bson:"phases" json:"phases"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// Elective slot names
	SlotOpen1 = "open1"
	SlotOpen2 = "open2"
	SlotOpen3 = "open3"

	// Open elective 1 (NPTEL) enrollment cap per semester
	MaxOpen1Courses = 2

	// Guide request statuses
	RequestPending  = "pending"
	RequestAccepted = "accepted"

	// Task priorities
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	// User roles
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// IsValidSlot checks if a slot name is one of the three elective slots.
func IsValidSlot(slot string) bool {
	return slot == SlotOpen1 || slot == SlotOpen2 || slot == SlotOpen3
}

// IsValidPriority checks if a task priority is valid.
func IsValidPriority(priority string) bool {
	return priority == PriorityLow || priority == PriorityMedium || priority == PriorityHigh
}
