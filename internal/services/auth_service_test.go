package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/engine/internal/models"
	"github.com/collabhub/engine/internal/notify"
	appErr "github.com/collabhub/engine/pkg/errors"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, obj *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if obj.ID == uuid.Nil {
		obj.ID = uuid.New()
	}
	f.users[obj.Email] = *obj
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id any, dest *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			*dest = u
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "user not found")
}

func (f *fakeUserRepo) Update(ctx context.Context, obj *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[obj.Email] = *obj
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "user not found")
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "user not found")
	}
	*dest = u
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[string]models.Profile{}}
}

func (f *fakeProfileRepo) Create(ctx context.Context, obj *models.Profile) error {
	return f.Upsert(ctx, obj)
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id any, dest *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.ID == id {
			*dest = p
			return nil
		}
	}
	return appErr.New(appErr.CodeNotFound, "profile not found")
}

func (f *fakeProfileRepo) Update(ctx context.Context, obj *models.Profile) error {
	return f.Upsert(ctx, obj)
}

func (f *fakeProfileRepo) Delete(ctx context.Context, id any) error { return nil }

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string, dest *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[email]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "profile not found")
	}
	*dest = p
	return nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.profiles[p.Email] = *p
	return nil
}

type mockParser struct {
	mock.Mock
}

func (m *mockParser) Parse(ctx context.Context, resumeText string) (json.RawMessage, error) {
	args := m.Called(ctx, resumeText)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

const parsedResume = `{"profile":{"name":"Ada","year":"3","department":"CS","institution":"Uni","availability":"high"},"skills":{}}`

func newAuthFixture(parser *mockParser) (AuthService, *fakeUserRepo, *fakeProfileRepo) {
	users := newFakeUserRepo()
	profiles := newFakeProfileRepo()
	svc := NewAuthService(users, profiles, parser, notify.Noop{}, []byte("test-secret"))
	return svc, users, profiles
}

func TestRegisterParsesAndStoresProfile(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, "resume text").Return(json.RawMessage(parsedResume), nil)
	svc, users, _ := newAuthFixture(parser)

	token, profile, err := svc.Register(context.Background(), &RegisterInput{
		Email:      "ada@uni.edu",
		Password:   "hunter2hunter2",
		ResumeText: "resume text",
		Name:       "Ada Lovelace", // declared name wins over the parsed one
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "Ada Lovelace", profile.Name)
	require.Equal(t, "CS", profile.Department)
	require.Equal(t, "high", profile.Availability)

	var u models.User
	require.NoError(t, users.GetByEmail(context.Background(), "ada@uni.edu", &u))
	require.NotEqual(t, "hunter2hunter2", u.PasswordHash)

	// token subject is the email, the engine's actor identity
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.Equal(t, "ada@uni.edu", claims["sub"])
}

func TestRegisterRollsBackUserOnParseFailure(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))
	svc, users, _ := newAuthFixture(parser)

	_, _, err := svc.Register(context.Background(), &RegisterInput{
		Email:      "bob@uni.edu",
		Password:   "hunter2hunter2",
		ResumeText: "something",
	})
	require.Error(t, err)

	var u models.User
	err = users.GetByEmail(context.Background(), "bob@uni.edu", &u)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestRegisterRetryAfterParseFailure(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable")).Once()
	parser.On("Parse", mock.Anything, mock.Anything).Return(json.RawMessage(parsedResume), nil).Once()
	svc, users, _ := newAuthFixture(parser)
	ctx := context.Background()

	in := &RegisterInput{Email: "carol@uni.edu", Password: "hunter2hunter2", ResumeText: "x"}
	_, _, err := svc.Register(ctx, in)
	require.Error(t, err)

	// the rollback must free the email for a retry
	token, _, err := svc.Register(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	var u models.User
	require.NoError(t, users.GetByEmail(ctx, "carol@uni.edu", &u))
	parser.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, mock.Anything).Return(json.RawMessage(parsedResume), nil)
	svc, _, _ := newAuthFixture(parser)
	ctx := context.Background()

	in := &RegisterInput{Email: "dup@uni.edu", Password: "hunter2hunter2", ResumeText: "x"}
	_, _, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, in)
	require.True(t, appErr.IsCode(err, appErr.CodeConflict))
}

func TestReparseProfilePersists(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, "original resume").Return(json.RawMessage(parsedResume), nil).Once()
	svc, _, profiles := newAuthFixture(parser)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterInput{
		Email:      "dan@uni.edu",
		Password:   "hunter2hunter2",
		ResumeText: "original resume",
		Name:       "Dan",
	})
	require.NoError(t, err)

	updated := `{"profile":{"name":"ignored","year":"4","department":"EE","institution":"Uni","availability":"low"},"skills":{}}`
	parser.On("Parse", mock.Anything, "newer resume").Return(json.RawMessage(updated), nil).Once()

	profile, err := svc.ReparseProfile(ctx, "dan@uni.edu", "newer resume")
	require.NoError(t, err)
	require.Equal(t, "Dan", profile.Name) // declared fields survive
	require.JSONEq(t, updated, string(profile.ResumeJSON))

	var stored models.Profile
	require.NoError(t, profiles.GetByEmail(ctx, "dan@uni.edu", &stored))
	require.JSONEq(t, updated, string(stored.ResumeJSON))
	parser.AssertExpectations(t)
}

func TestReparseProfileValidation(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, mock.Anything).Return(nil, errors.New("model unavailable"))
	svc, _, _ := newAuthFixture(parser)
	ctx := context.Background()

	_, err := svc.ReparseProfile(ctx, "", "text")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	_, err = svc.ReparseProfile(ctx, "dan@uni.edu", "")
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, err = svc.ReparseProfile(ctx, "dan@uni.edu", "text")
	require.True(t, appErr.IsCode(err, appErr.CodeUnavailable))
}

func TestLogin(t *testing.T) {
	parser := new(mockParser)
	parser.On("Parse", mock.Anything, mock.Anything).Return(json.RawMessage(parsedResume), nil)
	svc, _, _ := newAuthFixture(parser)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &RegisterInput{Email: "eve@uni.edu", Password: "hunter2hunter2", ResumeText: "x"})
	require.NoError(t, err)

	token, profile, err := svc.Login(ctx, "eve@uni.edu", "hunter2hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, profile)
	require.Equal(t, "eve@uni.edu", profile.Email)

	_, _, err = svc.Login(ctx, "eve@uni.edu", "wrong-password")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))

	_, _, err = svc.Login(ctx, "ghost@uni.edu", "hunter2hunter2")
	require.True(t, appErr.IsCode(err, appErr.CodeUnauthorized))
}
