package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"

	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/notify"
	"github.com/collabhub/engine/internal/repository"
	"github.com/collabhub/engine/internal/resume"
	appErr "github.com/collabhub/engine/pkg/errors"
	"github.com/collabhub/engine/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, input *RegisterInput) (string, *models.Profile, error)
	Login(ctx context.Context, email, password string) (string, *models.Profile, error)
	GetProfile(ctx context.Context, email string) (*models.Profile, error)
	// ReparseProfile runs the actor's resume text through the parser and
	// persists the result, replacing the stored resume JSON. Declared profile
	// fields survive; blanks are refilled from the new parse.
	ReparseProfile(ctx context.Context, actor, resumeText string) (*models.Profile, error)
}

// RegisterInput carries credentials plus the resume and declared profile
// fields collected at sign-up. Declared fields win over parsed ones.
type RegisterInput struct {
	Email        string
	Password     string
	ResumeText   string
	Name         string
	Year         string
	Department   string
	Institution  string
	Availability string
}

type authService struct {
	users      repository.UserRepository
	profiles   repository.ProfileRepository
	parser     resume.Parser
	notifier   notify.Port
	hmacSecret []byte
}

func NewAuthService(users repository.UserRepository, profiles repository.ProfileRepository, parser resume.Parser, notifier notify.Port, secret []byte) AuthService {
	return &authService{users: users, profiles: profiles, parser: parser, notifier: notifier, hmacSecret: secret}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Register(ctx context.Context, input *RegisterInput) (string, *models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return "", nil, appErr.New(appErr.CodeInvalid, "email and password are required")
	}
	if input.ResumeText == "" {
		return "", nil, appErr.New(appErr.CodeInvalid, "resume text is required during registration")
	}

	var existing models.User
	if err := s.users.GetByEmail(ctx, input.Email, &existing); err == nil {
		return "", nil, appErr.New(appErr.CodeConflict, "user already exists")
	} else if !appErr.IsCode(err, appErr.CodeNotFound) {
		return "", nil, err
	}

	ph, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := models.User{Email: input.Email, PasswordHash: string(ph)}
	if err := s.users.Create(ctx, &u); err != nil {
		return "", nil, err
	}

	parsed, err := s.parser.Parse(ctx, input.ResumeText)
	if err != nil {
		// registration is all-or-nothing: undo the user row
		if delErr := s.users.Delete(ctx, u.ID); delErr != nil {
			logger.L().Error("rollback user after parse failure failed", zap.String("email", input.Email), zap.Error(delErr))
		}
		return "", nil, appErr.Wrap(err, appErr.CodeInternal, "parse resume failed")
	}

	profile := &models.Profile{
		Email:        input.Email,
		Name:         input.Name,
		Year:         input.Year,
		Department:   input.Department,
		Institution:  input.Institution,
		Availability: input.Availability,
		ResumeJSON:   datatypes.JSON(parsed),
	}
	fillFromParsed(profile, parsed)

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		if delErr := s.users.Delete(ctx, u.ID); delErr != nil {
			logger.L().Error("rollback user after profile failure failed", zap.String("email", input.Email), zap.Error(delErr))
		}
		return "", nil, err
	}

	// Best-effort forward of the parsed profile to the matcher.
	if err := s.notifier.NotifyProfile(ctx, profile); err != nil {
		logger.L().Warn("profile notification dropped", zap.String("email", input.Email), zap.Error(err))
	}

	token, err := s.issueToken(u.Email)
	if err != nil {
		return "", nil, err
	}

	logger.L().Info("user registered", zap.String("email", input.Email))
	return token, profile, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Profile, error) {
	if email == "" || password == "" {
		return "", nil, appErr.New(appErr.CodeInvalid, "email and password are required")
	}

	var u models.User
	if err := s.users.GetByEmail(ctx, email, &u); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, appErr.New(appErr.CodeUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(u.Email)
	if err != nil {
		return "", nil, err
	}

	var profile models.Profile
	if err := s.profiles.GetByEmail(ctx, email, &profile); err != nil {
		// profile is optional at login time
		return token, nil, nil
	}
	return token, &profile, nil
}

func (s *authService) GetProfile(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.profiles.GetByEmail(ctx, email, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (s *authService) ReparseProfile(ctx context.Context, actor, resumeText string) (*models.Profile, error) {
	if actor == "" {
		return nil, appErr.New(appErr.CodeUnauthorized, "no authenticated actor")
	}
	if resumeText == "" {
		return nil, appErr.New(appErr.CodeInvalid, "resume text is required")
	}

	parsed, err := s.parser.Parse(ctx, resumeText)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "parse resume failed")
	}

	var profile models.Profile
	if err := s.profiles.GetByEmail(ctx, actor, &profile); err != nil {
		if !appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, err
		}
		profile = models.Profile{Email: actor}
	}
	profile.ResumeJSON = datatypes.JSON(parsed)
	fillFromParsed(&profile, parsed)

	if err := s.profiles.Upsert(ctx, &profile); err != nil {
		return nil, err
	}

	// Best-effort forward of the refreshed profile to the matcher.
	if err := s.notifier.NotifyProfile(ctx, &profile); err != nil {
		logger.L().Warn("profile notification dropped", zap.String("email", actor), zap.Error(err))
	}

	logger.L().Info("profile reparsed", zap.String("email", actor))
	return &profile, nil
}

func (s *authService) issueToken(email string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}
