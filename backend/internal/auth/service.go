package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"campus_electives/backend/internal/shared"
)

// AuthService handles registration, login and credential updates for both
// student and teacher accounts. Students live in the student database,
// teachers in the teacher database.
type AuthService struct {
	config      *shared.PortalConfig
	usersCol    *mongo.Collection
	teachersCol *mongo.Collection
}

// CustomClaims for JWT
type CustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new AuthService instance
func NewAuthService(store *shared.Store, config *shared.PortalConfig) *AuthService {
	return &AuthService{
		config:      config,
		usersCol:    store.StudentDB.Collection(shared.CollUsers),
		teachersCol: store.TeacherDB.Collection(shared.CollTeachers),
	}
}

// RegisterRequest carries the fields accepted at registration.
type RegisterRequest struct {
	RollNo        string  `json:"rollNo"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	CurrentSemNo  int32   `json:"currentSemNo,omitempty"`
	CurrentGPA    float64 `json:"currentGPA,omitempty"`
	CreditsEarned int32   `json:"creditsEarned,omitempty"`
	SemCredits    int32   `json:"totalCreditsInThisSem,omitempty"`
}

// LoginResult bundles the sanitized account document with the issued token.
type LoginResult struct {
	User  bson.M
	Token string
}

// Register creates a student account. The password is stored as provided
// (plain text) to stay compatible with the rest of the campus tooling that
// reads this collection.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (bson.M, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" || req.RollNo == "" {
		return nil, shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 1. Reject duplicate emails
	count, err := s.usersCol.CountDocuments(queryCtx, bson.M{"email": req.Email})
	if err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	if count > 0 {
		return nil, shared.ErrAlreadyExists("Email already registered")
	}

	// 2. Insert the new user
	user := shared.User{
		RollNo:        req.RollNo,
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		CurrentSemNo:  req.CurrentSemNo,
		CurrentGPA:    req.CurrentGPA,
		CreditsEarned: req.CreditsEarned,
		SemCredits:    req.SemCredits,
	}
	res, err := s.usersCol.InsertOne(queryCtx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, shared.ErrAlreadyExists("Email already registered")
		}
		return nil, shared.ErrInternal("Server error")
	}

	// 3. Return the stored document minus the password
	var doc bson.M
	if err := s.usersCol.FindOne(queryCtx, bson.M{"_id": res.InsertedID}).Decode(&doc); err != nil {
		return nil, shared.ErrInternal("Server error")
	}
	delete(doc, "password")
	return doc, nil
}

// Login authenticates a student or teacher by email and plain-text password
// and returns the stored record minus the password, plus a signed JWT.
func (s *AuthService) Login(ctx context.Context, email, password, role string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	col := s.usersCol
	if role == shared.RoleTeacher {
		col = s.teachersCol
	} else {
		role = shared.RoleStudent
	}

	var doc bson.M
	err := col.FindOne(queryCtx, bson.M{"email": email, "password": password}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrInvalidArgument("Invalid credentials")
		}
		return nil, shared.ErrInternal("Server error")
	}
	delete(doc, "password")

	name, _ := doc["name"].(string)
	token, _, err := s.generateToken(email, role, name)
	if err != nil {
		return nil, shared.ErrInternal("Failed to generate token")
	}

	return &LoginResult{User: doc, Token: token}, nil
}

// Lookup returns the raw stored user document for an email. Debug path kept
// from the original deployment; disable outside development.
func (s *AuthService) Lookup(ctx context.Context, email string) (bson.M, error) {
	if email == "" {
		return nil, shared.ErrInvalidArgument("Missing email query param")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc bson.M
	err := s.usersCol.FindOne(queryCtx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, shared.ErrNotFound("User not found")
		}
		return nil, shared.ErrInternal("Server error")
	}
	return doc, nil
}

// UpdateTeacherPassword verifies the current password and replaces it.
func (s *AuthService) UpdateTeacherPassword(ctx context.Context, email, currentPassword, newPassword string) error {
	if email == "" || currentPassword == "" || newPassword == "" {
		return shared.ErrInvalidArgument("Missing fields")
	}

	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 1. Verify current password
	count, err := s.teachersCol.CountDocuments(queryCtx, bson.M{"email": email, "password": currentPassword})
	if err != nil {
		return shared.ErrInternal("Server error")
	}
	if count == 0 {
		return shared.ErrInvalidArgument("Invalid current password")
	}

	// 2. Update password
	res, err := s.teachersCol.UpdateOne(queryCtx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": newPassword}},
	)
	if err != nil {
		return shared.ErrInternal("Server error")
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound("Teacher not found")
	}

	return nil
}

// ValidateToken parses and verifies a JWT issued by Login.
func (s *AuthService) ValidateToken(tokenStr string) (*CustomClaims, error) {
	if tokenStr == "" {
		return nil, shared.ErrUnauthenticated("Token missing")
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrUnauthenticated("Unexpected signing method")
		}
		return []byte(s.config.Security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, shared.ErrUnauthenticated("Invalid token")
	}

	return claims, nil
}

// generateToken signs an HS256 token for the authenticated account.
func (s *AuthService) generateToken(email, role, name string) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(s.config.Security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		Email: email,
		Role:  role,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.ServiceName,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.Security.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
