package auth

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/complaint-management/internal"
	userDatamodel "github.com/frahmantamala/complaint-management/internal/core/datamodel/user"
)

// Repository defines the data access methods for user credentials.
type Repository interface {
	CreateUser(user *userDatamodel.User) error
	GetByEmail(email string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
}

// Service performs registration and authentication.
type Service struct {
	repo       Repository
	tokenGen   TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokenGen:   tokenGen,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// Register creates a new user account with a bcrypt password hash.
// The plaintext password is never stored or logged.
func (s *Service) Register(dto RegisterDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to check existing user", "error", err)
		return 0, errors.NewInternalError("Server error during registration", err)
	}
	if existing != nil {
		return 0, errors.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return 0, errors.NewInternalError("Server error during registration", err)
	}

	user := &userDatamodel.User{
		Name:         dto.Name,
		Email:        dto.Email,
		Phone:        dto.Phone,
		PasswordHash: string(hash),
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.CreateUser(user); err != nil {
		if appErr, ok := errors.IsAppError(err); ok {
			return 0, appErr
		}
		s.logger.Error("failed to create user", "error", err)
		return 0, errors.NewInternalError("Server error during registration", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user.ID, nil
}

// Authenticate validates credentials and mints a bearer token.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return nil, errors.NewInternalError("Server error during login", err)
	}
	if user == nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	token, err := s.tokenGen.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to generate token", "error", err, "user_id", user.ID)
		return nil, errors.NewInternalError("Server error during login", err)
	}

	return &LoginResponse{
		Token: token,
		User: User{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
	}, nil
}

// ValidateAccessToken validates a bearer token and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}

// GenerateToken creates a signed token embedding identity and role.
func (j *JWTTokenGenerator) GenerateToken(userID int64, email, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken validates a JWT token and returns claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.ErrTokenExpired
		}
		return nil, errors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.ErrInvalidToken
}
