package services

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/mebel-api/models"
	"github.com/Kariqs/mebel-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost = 10
	tokenTTL   = time.Hour

	msgInvalidCredentials = "invalid email or password"
	msgUserExists         = "user with this email already exists"
	msgUserNotFound       = "user not found"
	msgTokenExpired       = "token expired"
	msgInvalidToken       = "invalid token"
	msgInvalidCode        = "invalid or expired verification code"
)

var validate = validator.New()

// Claims is the payload of every session token.
type Claims struct {
	UserID uint   `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

type AuthOptions struct {
	Secret           string
	Mailer           *utils.Mailer
	FrontendURL      string
	AllowAdminSignup bool
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
	opts   AuthOptions
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, opts AuthOptions) *AuthService {
	return &AuthService{db: db, secret: []byte(opts.Secret), opts: opts, now: time.Now}
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *AuthService) Register(ctx context.Context, data models.RegisterData) (*models.User, error) {
	data.Email = strings.TrimSpace(data.Email)
	data.Name = strings.TrimSpace(data.Name)

	var fields []utils.FieldError
	if data.Name == "" {
		fields = append(fields, utils.FieldError{Field: "name", Message: "name is required"})
	}
	if data.Email == "" {
		fields = append(fields, utils.FieldError{Field: "email", Message: "email is required"})
	} else if err := validate.Var(data.Email, "email"); err != nil {
		fields = append(fields, utils.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if data.Password == "" {
		fields = append(fields, utils.FieldError{Field: "password", Message: "password is required"})
	}
	if len(fields) > 0 {
		return nil, utils.Validation("invalid input", fields...)
	}

	switch data.Role {
	case "":
		data.Role = models.RoleUser
	case models.RoleUser:
	case models.RoleAdmin:
		if !s.opts.AllowAdminSignup {
			return nil, utils.Forbidden("admin registration is disabled")
		}
	default:
		return nil, utils.Validation("invalid input", utils.FieldError{Field: "role", Message: "role must be user or admin"})
	}

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", data.Email).Count(&count).Error; err != nil {
		return nil, utils.Internal(msgDatabaseError, err)
	}
	if count > 0 {
		return nil, utils.Conflict(msgUserExists)
	}

	hashed, err := hashPassword(data.Password)
	if err != nil {
		return nil, utils.Internal("failed to hash password", err)
	}

	code, err := utils.GenerateCode(16)
	if err != nil {
		return nil, utils.Internal("failed to generate verification code", err)
	}

	user := models.User{
		Name:             data.Name,
		Email:            data.Email,
		Password:         hashed,
		Phone:            data.Phone,
		Address:          data.Address,
		Role:             data.Role,
		VerificationCode: code,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict(msgUserExists)
		}
		return nil, utils.Internal(msgDatabaseError, err)
	}

	s.sendVerificationEmail(user)
	return &user, nil
}

func (s *AuthService) sendVerificationEmail(user models.User) {
	emailData := utils.EmailData{
		Name:            user.Name,
		Message:         "Thank you for signing up! Click the button below to verify your email.",
		VerificationURL: s.opts.FrontendURL + "/auth/verify-email/" + url.PathEscape(user.VerificationCode),
	}
	err := s.opts.Mailer.SendEmail(user.Email, "Email Verification", emailData, "verify_email.html")
	if errors.Is(err, utils.ErrMailNotConfigured) {
		return
	}
	if err != nil {
		log.Println("Failed to send verification email:", err)
	}
}

func (s *AuthService) Login(ctx context.Context, data models.LoginData) (*LoginResult, error) {
	email := strings.TrimSpace(data.Email)
	if email == "" || data.Password == "" {
		return nil, utils.Validation(msgInvalidCredentials)
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.Validation(msgInvalidCredentials)
		}
		return nil, utils.Internal(msgDatabaseError, err)
	}

	if err := comparePasswords(user.Password, data.Password); err != nil {
		return nil, utils.Validation(msgInvalidCredentials)
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, utils.Internal("failed to generate token", err)
	}
	return &LoginResult{Token: token, User: &user}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, lookupError(err, msgUserNotFound)
	}
	return &user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, code string) error {
	if code == "" {
		return utils.Validation(msgInvalidCode)
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("verification_code = ?", code).
		Updates(map[string]any{"is_verified": true, "verification_code": ""})
	if result.Error != nil {
		return utils.Internal(msgDatabaseError, result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.Validation(msgInvalidCode)
	}
	return nil
}

// IssueToken signs an HS256 token valid for one hour.
func (s *AuthService) IssueToken(user models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken verifies a token, which must carry an exp claim. Expired and
// malformed tokens are reported as Unauthorized, any other failure as Internal.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err == nil {
		return claims, nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, utils.Unauthorized(msgTokenExpired)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return nil, utils.Unauthorized(msgInvalidToken)
	default:
		return nil, utils.Internal("failed to verify token", err)
	}
}
