package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mmcdole/campus/internal/domain"
	"github.com/mmcdole/campus/internal/state"
	"github.com/mmcdole/campus/internal/store"
)

type statusErr int

func (e statusErr) Error() string   { return http.StatusText(int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

type fakeAuthRepo struct {
	token       string
	loginErr    error
	signupCalls int
	userID      int64
	userIDErr   error
}

func (f *fakeAuthRepo) Login(ctx context.Context, username, password string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeAuthRepo) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	f.signupCalls++
	return "User registered successfully", nil
}

func (f *fakeAuthRepo) CheckUsername(ctx context.Context, username string) (bool, error) {
	return username == "free", nil
}

func (f *fakeAuthRepo) CheckEmail(ctx context.Context, email string) (bool, error) {
	return true, nil
}

func (f *fakeAuthRepo) CurrentUserID(ctx context.Context) (int64, error) {
	return f.userID, f.userIDErr
}

type HolderSuite struct {
	suite.Suite
	repo   *fakeAuthRepo
	tokens *store.TokenStore
	store  *state.Store
	holder *Holder
}

func (s *HolderSuite) SetupTest() {
	var err error
	s.repo = &fakeAuthRepo{}
	s.tokens, err = store.NewTokenStore("", nil)
	s.Require().NoError(err)
	s.store = state.NewStore(nil)
	s.holder = NewHolder(s.repo, s.tokens, s.store, nil)
}

func (s *HolderSuite) TearDownTest() {
	s.store.Close()
}

func (s *HolderSuite) TestLoginAdmin() {
	s.repo.token = signToken(s.T(), jwt.MapClaims{
		"sub":    "root",
		"email":  "root@example.com",
		"role":   "ROLE_ADMIN",
		"userId": float64(1),
	})

	token, err := s.holder.Login(context.Background(), "root", "pw")

	s.Require().NoError(err)
	s.Equal(s.repo.token, token)
	s.True(s.holder.IsAuthenticated())
	s.True(s.holder.IsAdmin())
	s.Equal("root", s.holder.Username())

	st := s.store.State()
	s.Equal(domain.RoleAdmin, state.SelectRole(st))
	s.Equal(&domain.UserDetails{ID: 1, Email: "root@example.com", Username: "root"}, state.SelectUser(st))
}

func (s *HolderSuite) TestLoginRejected() {
	s.repo.loginErr = statusErr(http.StatusUnauthorized)

	_, err := s.holder.Login(context.Background(), "ann", "wrong")

	s.ErrorIs(err, domain.ErrInvalidCredentials)
	s.False(s.holder.IsAuthenticated())
}

func (s *HolderSuite) TestLoginStatusMapping() {
	tests := []struct {
		status      int
		credentials bool
	}{
		{http.StatusBadRequest, true},
		{http.StatusUnauthorized, true},
		{http.StatusForbidden, true},
		{http.StatusInternalServerError, false},
		{http.StatusServiceUnavailable, false},
	}

	for _, tt := range tests {
		s.Run(http.StatusText(tt.status), func() {
			s.repo.loginErr = statusErr(tt.status)

			_, err := s.holder.Login(context.Background(), "ann", "pw")

			s.Require().Error(err)
			s.Equal(tt.credentials, errors.Is(err, domain.ErrInvalidCredentials))
			if !tt.credentials {
				s.Equal(tt.status, domain.StatusOf(err))
			}
		})
	}
}

func (s *HolderSuite) TestHeaderIsNotValidated() {
	seg := func(v string) string { return base64.RawURLEncoding.EncodeToString([]byte(v)) }
	token := seg("not-json") + "." + seg(`{"sub":"alice","role":"ROLE_ADMIN"}`) + ".c2ln"
	s.Require().NoError(s.tokens.SetToken(token))

	s.True(s.holder.IsAuthenticated())
	s.True(s.holder.IsAdmin())
	_, ok := s.tokens.Token()
	s.True(ok)
}

func (s *HolderSuite) TestLoginWithoutToken() {
	s.repo.token = ""

	_, err := s.holder.Login(context.Background(), "ann", "pw")

	s.ErrorIs(err, domain.ErrMalformedToken)
	_, ok := s.tokens.Token()
	s.False(ok)
}

func (s *HolderSuite) TestLogoutResetsState() {
	s.repo.token = signToken(s.T(), jwt.MapClaims{"sub": "ann"})
	_, err := s.holder.Login(context.Background(), "ann", "pw")
	s.Require().NoError(err)
	s.store.Dispatch(state.EnrollUserSuccess{Enrollment: domain.Enrollment{Username: "ann", CourseID: 1}})

	s.holder.Logout()

	st := s.store.State()
	s.False(s.holder.IsAuthenticated())
	s.Equal(domain.RoleNone, s.holder.Role())
	s.Nil(state.SelectUser(st))
	s.Empty(state.SelectEnrollments(st))
}

func (s *HolderSuite) TestInvalidTokenTriggersImplicitLogout() {
	s.Require().NoError(s.tokens.SetToken("not-a-token"))
	s.store.Dispatch(state.SetAuth{Role: domain.RoleUser, User: &domain.UserDetails{Username: "ghost"}})

	s.False(s.holder.IsAuthenticated())

	_, ok := s.tokens.Token()
	s.False(ok)
	s.Nil(state.SelectUser(s.store.State()))
}

func (s *HolderSuite) TestInitializeRestoresSession() {
	s.Require().NoError(s.tokens.SetToken(signToken(s.T(), jwt.MapClaims{"username": "ann", "role": "USER"})))

	s.holder.Initialize()

	st := s.store.State()
	s.Equal("ann", state.SelectUsername(st))
	s.Equal(domain.RoleUser, state.SelectRole(st))
	s.Equal(int64(0), state.SelectUser(st).ID)
}

func (s *HolderSuite) TestSignupRejectsNonUserRoleBeforeNetwork() {
	_, err := s.holder.Signup(context.Background(), domain.SignupRequest{
		Name:     "Eve",
		Email:    "eve@example.com",
		Username: "eve",
		Password: "pw",
		Role:     "ADMIN",
	})

	s.ErrorIs(err, domain.ErrSignupRoleNotAllowed)
	s.Zero(s.repo.signupCalls)
}

func (s *HolderSuite) TestSignupSuccess() {
	msg, err := s.holder.Signup(context.Background(), domain.SignupRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Username: "ann",
		Password: "pw",
		Role:     "USER",
	})

	s.Require().NoError(err)
	s.Equal("User registered successfully", msg)
	s.Equal(1, s.repo.signupCalls)
	s.False(s.holder.IsAuthenticated())
}

func (s *HolderSuite) TestUserID() {
	s.repo.userID = 42
	s.Zero(s.holder.UserID(context.Background()), "signed out")

	s.Require().NoError(s.tokens.SetToken(signToken(s.T(), jwt.MapClaims{"sub": "ann"})))
	s.Equal(int64(42), s.holder.UserID(context.Background()))

	s.repo.userIDErr = statusErr(http.StatusInternalServerError)
	s.Zero(s.holder.UserID(context.Background()))
}

func TestHolderSuite(t *testing.T) {
	suite.Run(t, new(HolderSuite))
}

func TestHolder_SubscribeSeesChanges(t *testing.T) {
	tokens, err := store.NewTokenStore("", nil)
	require.NoError(t, err)
	st := state.NewStore(nil)
	defer st.Close()
	repo := &fakeAuthRepo{token: signToken(t, jwt.MapClaims{"sub": "ann"})}
	h := NewHolder(repo, tokens, st, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := h.Subscribe(ctx)
	assert.False(t, <-events)

	_, err = h.Login(ctx, "ann", "pw")
	require.NoError(t, err)
	assert.True(t, <-events)

	h.Logout()
	assert.False(t, <-events)
}

func TestHolder_WatchPicksUpExternalLogout(t *testing.T) {
	tokens, err := store.NewTokenStore("", nil)
	require.NoError(t, err)
	st := state.NewStore(nil)
	defer st.Close()
	h := NewHolder(&fakeAuthRepo{}, tokens, st, nil)

	require.NoError(t, tokens.SetToken(signToken(t, jwt.MapClaims{"sub": "ann"})))
	h.Initialize()
	require.Equal(t, "ann", state.SelectUsername(st.State()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{}, 1)
	go h.Watch(ctx, changes)

	require.NoError(t, tokens.ClearToken())
	changes <- struct{}{}

	require.Eventually(t, func() bool {
		return state.SelectUser(st.State()) == nil
	}, time.Second, 5*time.Millisecond)
}
