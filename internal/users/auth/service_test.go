// Copyright (c) 2026 Revio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/revio/internal/platform/apperr"
	"github.com/taibuivan/revio/internal/platform/config"
	"github.com/taibuivan/revio/internal/platform/sec"
	"github.com/taibuivan/revio/internal/users/auth"
	"github.com/taibuivan/revio/internal/users/user"
)

// # Test Doubles

// fakeUserRepo is an in-memory user.Repository keyed by username and email.
type fakeUserRepo struct {
	byUsername map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*user.User)}
}

func (repo *fakeUserRepo) Create(_ context.Context, account *user.User) error {
	if _, taken := repo.byUsername[account.Username]; taken {
		return apperr.Conflict("Username is already taken",
			apperr.FieldError{Field: "username", Message: "Already in use"})
	}
	for _, existing := range repo.byUsername {
		if existing.Email == account.Email {
			return apperr.Conflict("Email is already registered",
				apperr.FieldError{Field: "email", Message: "Already in use"})
		}
	}
	now := time.Now().UTC().Truncate(time.Second)
	account.CreatedAt = now
	account.UpdatedAt = now
	clone := *account
	repo.byUsername[account.Username] = &clone
	return nil
}

func (repo *fakeUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	for _, account := range repo.byUsername {
		if account.ID == id {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	account, ok := repo.byUsername[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *account
	return &clone, nil
}

func (repo *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, account := range repo.byUsername {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepo) List(_ context.Context, _ string, _, _ int) ([]*user.User, int, error) {
	return nil, 0, nil
}

func (repo *fakeUserRepo) Update(_ context.Context, account *user.User) error {
	repo.byUsername[account.Username] = account
	return nil
}

func (repo *fakeUserRepo) Delete(_ context.Context, username string) error {
	delete(repo.byUsername, username)
	return nil
}

// stubTokenProvider mints a predictable token exposing its inputs.
type stubTokenProvider struct {
	lastRole string
}

func (provider *stubTokenProvider) GenerateAccessToken(userID, username, role string, _ time.Duration) (string, error) {
	provider.lastRole = role
	return fmt.Sprintf("token:%s:%s:%s", userID, username, role), nil
}

// channelMailer hands each delivery to the test over a channel so the
// background goroutine can be awaited deterministically.
type channelMailer struct {
	deliveries chan delivery
}

type delivery struct {
	to   string
	body string
}

func newChannelMailer() *channelMailer {
	return &channelMailer{deliveries: make(chan delivery, 8)}
}

func (mailer *channelMailer) Send(_ context.Context, to, _, body string) error {
	mailer.deliveries <- delivery{to: to, body: body}
	return nil
}

func (mailer *channelMailer) await(t *testing.T) delivery {
	t.Helper()
	select {
	case got := <-mailer.deliveries:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("no mail delivery observed")
		return delivery{}
	}
}

// failingMailer rejects every delivery.
type failingMailer struct{}

func (failingMailer) Send(_ context.Context, _, _, _ string) error {
	return errors.New("smtp: connection refused")
}

// chanWriter hands each log line to the test over a channel so the
// background goroutine's error record can be awaited.
type chanWriter struct {
	lines chan string
}

func (writer *chanWriter) Write(p []byte) (int, error) {
	writer.lines <- string(p)
	return len(p), nil
}

// # Fixtures

type fixture struct {
	repo    *fakeUserRepo
	tokens  *stubTokenProvider
	codes   *sec.CodeService
	mailer  *channelMailer
	service *auth.Service
}

func newFixture() *fixture {
	repo := newFakeUserRepo()
	tokens := &stubTokenProvider{}
	codes := sec.NewCodeService("test-secret")
	mailer := newChannelMailer()

	limits := config.Limits{UsernameMaxLength: 150, EmailMaxLength: 254}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	return &fixture{
		repo:    repo,
		tokens:  tokens,
		codes:   codes,
		mailer:  mailer,
		service: auth.NewService(repo, tokens, codes, mailer, limits, logger),
	}
}

// # Signup Tests

/*
TestService_SignUp verifies enrollment: the account is created with the
default role and a confirmation code goes out to the supplied address.
*/
func TestService_SignUp(t *testing.T) {
	t.Parallel()

	f := newFixture()

	account, err := f.service.SignUp(context.Background(),
		auth.SignUpInput{Username: "jane", Email: "jane@example.com"})

	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, sec.RoleUser, account.Role)

	sent := f.mailer.await(t)
	assert.Equal(t, "jane@example.com", sent.to)

	// The delivered body carries the code the token exchange will accept.
	stored, err := f.repo.FindByUsername(context.Background(), "jane")
	require.NoError(t, err)
	assert.Contains(t, sent.body, f.codes.Issue(sec.ConfirmationState{
		UserID:    stored.ID,
		Username:  stored.Username,
		Email:     stored.Email,
		Role:      string(stored.Role),
		UpdatedAt: stored.UpdatedAt.Unix(),
	}))
}

/*
TestService_SignUp_Idempotent verifies that repeating the exact
(username, email) pair never errors and re-delivers the code instead of
creating a second account.
*/
func TestService_SignUp_Idempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	input := auth.SignUpInput{Username: "jane", Email: "jane@example.com"}

	first, err := f.service.SignUp(context.Background(), input)
	require.NoError(t, err)
	f.mailer.await(t)

	second, err := f.service.SignUp(context.Background(), input)
	require.NoError(t, err)
	f.mailer.await(t)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.repo.byUsername, 1)
}

/*
TestService_SignUp_MailFailureDoesNotFailRequest verifies that a broken mail
path never surfaces to the caller: the account is created, the failure is
only logged, and the derived code still exchanges for a token.
*/
func TestService_SignUp_MailFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	tokens := &stubTokenProvider{}
	codes := sec.NewCodeService("test-secret")
	writer := &chanWriter{lines: make(chan string, 8)}
	limits := config.Limits{UsernameMaxLength: 150, EmailMaxLength: 254}

	service := auth.NewService(repo, tokens, codes, failingMailer{}, limits,
		slog.New(slog.NewJSONHandler(writer, nil)))

	account, err := service.SignUp(context.Background(),
		auth.SignUpInput{Username: "jane", Email: "jane@example.com"})
	require.NoError(t, err)
	require.NotNil(t, account)

	select {
	case line := <-writer.lines:
		assert.Contains(t, line, "confirmation_code_delivery_failed")
	case <-time.After(2 * time.Second):
		t.Fatal("delivery failure was not logged")
	}

	// The code is derived from account state, not from the mail, so the
	// exchange works even though the delivery never arrived.
	stored, err := repo.FindByUsername(context.Background(), "jane")
	require.NoError(t, err)
	token, err := service.IssueToken(context.Background(), "jane",
		codes.Issue(sec.ConfirmationState{
			UserID:    stored.ID,
			Username:  stored.Username,
			Email:     stored.Email,
			Role:      string(stored.Role),
			UpdatedAt: stored.UpdatedAt.Unix(),
		}))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

/*
TestService_SignUp_PartialMatchConflicts verifies the 409 paths: a taken
username with a different email, and a taken email with a different
username, each reported against the offending field.
*/
func TestService_SignUp_PartialMatchConflicts(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, err := f.service.SignUp(context.Background(),
		auth.SignUpInput{Username: "jane", Email: "jane@example.com"})
	require.NoError(t, err)
	f.mailer.await(t)

	t.Run("username taken", func(t *testing.T) {
		_, err := f.service.SignUp(context.Background(),
			auth.SignUpInput{Username: "jane", Email: "other@example.com"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
		require.Len(t, appError.Details, 1)
		assert.Equal(t, "username", appError.Details[0].Field)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := f.service.SignUp(context.Background(),
			auth.SignUpInput{Username: "janet", Email: "jane@example.com"})

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusConflict, appError.HTTPStatus)
		require.Len(t, appError.Details, 1)
		assert.Equal(t, "email", appError.Details[0].Field)
	})
}

/*
TestService_SignUp_Validation verifies payload rejection: reserved
username, bad characters, and a malformed email are all 400s.
*/
func TestService_SignUp_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input auth.SignUpInput
	}{
		{"reserved username", auth.SignUpInput{Username: "me", Email: "me@example.com"}},
		{"invalid characters", auth.SignUpInput{Username: "ja!ne", Email: "jane@example.com"}},
		{"missing email", auth.SignUpInput{Username: "jane"}},
		{"malformed email", auth.SignUpInput{Username: "jane", Email: "not-an-email"}},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.SignUp(context.Background(), testCase.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
		})
	}
}

// # Token Exchange Tests

// enroll registers an account and returns it with its current code.
func enroll(t *testing.T, f *fixture, username, email string) (*user.User, string) {
	t.Helper()

	_, err := f.service.SignUp(context.Background(), auth.SignUpInput{Username: username, Email: email})
	require.NoError(t, err)
	f.mailer.await(t)

	account, err := f.repo.FindByUsername(context.Background(), username)
	require.NoError(t, err)

	code := f.codes.Issue(sec.ConfirmationState{
		UserID:    account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      string(account.Role),
		UpdatedAt: account.UpdatedAt.Unix(),
	})
	return account, code
}

/*
TestService_IssueToken verifies the exchange: a valid (username, code)
pair yields a token carrying the account's effective role.
*/
func TestService_IssueToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	account, code := enroll(t, f, "jane", "jane@example.com")

	token, err := f.service.IssueToken(context.Background(), "jane", code)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("token:%s:jane:user", account.ID), token)
}

/*
TestService_IssueToken_UnknownUsername verifies the 404 for an account
that does not exist, distinct from the 400 for a wrong code.
*/
func TestService_IssueToken_UnknownUsername(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.service.IssueToken(context.Background(), "ghost", "whatever")

	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_IssueToken_BadCode verifies that a wrong code for an existing
account is a 400 validation failure, and that the real code still works
afterwards: failed attempts consume nothing.
*/
func TestService_IssueToken_BadCode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, code := enroll(t, f, "jane", "jane@example.com")

	_, err := f.service.IssueToken(context.Background(), "jane", "wrong-code")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)

	_, err = f.service.IssueToken(context.Background(), "jane", code)
	assert.NoError(t, err)
}

/*
TestService_IssueToken_StaffPromotion verifies that staff and superuser
flags promote the embedded token role to admin even when the stored role
is plain user.
*/
func TestService_IssueToken_StaffPromotion(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, _ = enroll(t, f, "jane", "jane@example.com")

	// Flip the staff flag the way an operator would, directly in storage.
	account := f.repo.byUsername["jane"]
	account.IsStaff = true

	code := f.codes.Issue(sec.ConfirmationState{
		UserID:    account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Role:      string(account.Role),
		UpdatedAt: account.UpdatedAt.Unix(),
	})

	_, err := f.service.IssueToken(context.Background(), "jane", code)

	require.NoError(t, err)
	assert.Equal(t, "admin", f.tokens.lastRole)
}

/*
TestService_IssueToken_StateChangeInvalidatesCode verifies that mutating
the account after code delivery invalidates the old code.
*/
func TestService_IssueToken_StateChangeInvalidatesCode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	_, code := enroll(t, f, "jane", "jane@example.com")

	account := f.repo.byUsername["jane"]
	account.UpdatedAt = account.UpdatedAt.Add(time.Minute)

	_, err := f.service.IssueToken(context.Background(), "jane", code)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
}
