package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Dan9191/task-service/internal/auth"
	"github.com/Dan9191/task-service/internal/middleware"
	"github.com/Dan9191/task-service/internal/models"
	"github.com/Dan9191/task-service/internal/response"
	"github.com/Dan9191/task-service/internal/validation"
)

type stubUsers struct {
	created *models.CreateUserParams
	updated *models.UpdateUserParams
	err     error
}

func (s *stubUsers) Create(_ context.Context, p models.CreateUserParams) (*models.User, error) {
	s.created = &p
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: 1, Email: p.Email, PasswordHash: "hash", FirstName: p.FirstName, LastName: p.LastName}, nil
}

func (s *stubUsers) FindAll(context.Context) ([]*models.User, error) {
	return []*models.User{{ID: 1, Email: "a@b.com"}}, s.err
}

func (s *stubUsers) FindOne(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: id, Email: "a@b.com"}, nil
}

func (s *stubUsers) Update(_ context.Context, id int64, p models.UpdateUserParams) (*models.User, error) {
	s.updated = &p
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: id, Email: "a@b.com"}, nil
}

func (s *stubUsers) Remove(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{ID: id}, nil
}

type stubTasks struct {
	calls   int
	ownerID int64
	err     error
}

func (s *stubTasks) record(ownerID int64) {
	s.calls++
	s.ownerID = ownerID
}

func (s *stubTasks) Create(_ context.Context, ownerID int64, p models.CreateTaskParams) (*models.Task, error) {
	s.record(ownerID)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Task{ID: 1, Title: p.Title, Description: p.Description, UserID: ownerID}, nil
}

func (s *stubTasks) FindAll(_ context.Context, ownerID int64) ([]*models.Task, error) {
	s.record(ownerID)
	return []*models.Task{}, s.err
}

func (s *stubTasks) FindOne(_ context.Context, id, ownerID int64) (*models.Task, error) {
	s.record(ownerID)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Task{ID: id, UserID: ownerID}, nil
}

func (s *stubTasks) Remove(_ context.Context, id, ownerID int64) (*models.Task, error) {
	return s.FindOne(context.Background(), id, ownerID)
}

type stubAuth struct{ err error }

func (s stubAuth) Login(context.Context, string, string) (auth.Token, error) {
	if s.err != nil {
		return auth.Token{}, s.err
	}
	return auth.Token{AccessToken: "tok", TokenType: "Bearer"}, nil
}

type stubPinger struct{ err error }

func (s stubPinger) PingContext(context.Context) error { return s.err }

type fixture struct {
	router http.Handler
	users  *stubUsers
	tasks  *stubTasks
	token  string
}

func newFixture(c *qt.C) *fixture {
	c.Helper()
	logger, _ := test.NewNullLogger()
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue(&models.User{ID: 7, Email: "a@b.com"})
	c.Assert(err, qt.IsNil)

	f := &fixture{users: &stubUsers{}, tasks: &stubTasks{}, token: token.AccessToken}
	h := NewHandler(f.users, f.tasks, stubAuth{}, stubPinger{}, logger)
	f.router = NewRouter(h, middleware.NewAuthenticator(issuer, logger), middleware.NewMetrics(), promhttp.Handler())
	return f
}

func (f *fixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func errorBody(c *qt.C, rec *httptest.ResponseRecorder) response.ErrorBody {
	c.Helper()
	var body response.ErrorBody
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &body), qt.IsNil)
	return body
}

func TestCreateUser(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPost, "/users", `{"email":"a@b.com","password":"secret1","firstName":"A","lastName":"B"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	c.Assert(f.users.created.Password, qt.Equals, "secret1")

	var got map[string]any
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &got), qt.IsNil)
	c.Assert(got["email"], qt.Equals, "a@b.com")
	c.Assert(got["firstName"], qt.Equals, "A")
	_, leaked := got["password"]
	c.Assert(leaked, qt.IsFalse)
	_, leaked = got["passwordHash"]
	c.Assert(leaked, qt.IsFalse)
}

func TestCreateUserValidation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPost, "/users", `{"email":"not-an-email","password":"123","firstName":"","lastName":"B"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(f.users.created, qt.IsNil)

	body := errorBody(c, rec)
	fields := map[string]string{}
	for _, fe := range body.Fields {
		fields[fe.Field] = fe.Message
	}
	c.Assert(fields, qt.DeepEquals, map[string]string{
		"email":     "must be a valid email address",
		"password":  "must be at least 6 characters",
		"firstName": "must not be empty",
	})
}

func TestCreateUserMalformedBody(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	for _, body := range []string{`{`, `{"email":"a@b.com","admin":true}`, `{"email":"a@b.com"} {}`, `[]`} {
		rec := f.do(http.MethodPost, "/users", body, false)
		c.Check(rec.Code, qt.Equals, http.StatusBadRequest, qt.Commentf("body %s", body))
	}
	c.Assert(f.users.created, qt.IsNil)
}

func TestCreateUserBodyTooLarge(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	body := `{"email":"a@b.com","firstName":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	rec := f.do(http.MethodPost, "/users", body, false)
	c.Assert(rec.Code, qt.Equals, http.StatusRequestEntityTooLarge)
	c.Assert(errorBody(c, rec).Message, qt.Matches, "request body larger than 1048576 bytes.*")
	c.Assert(f.users.created, qt.IsNil)
}

func TestUpdateUserRejectsBlankFields(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPatch, "/users/3", `{"email":"","firstName":"  ","password":"`+strings.Repeat("é", 40)+`"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorBody(c, rec).Fields, qt.DeepEquals, []validation.FieldError{
		{Field: "email", Message: "must not be empty"},
		{Field: "password", Message: "must be at most 72 bytes"},
		{Field: "firstName", Message: "must not be empty"},
	})
	c.Assert(f.users.updated, qt.IsNil)
}

func TestCreateUserConflict(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.users.err = errors.AlreadyExistsf("user with this email")

	rec := f.do(http.MethodPost, "/users", `{"email":"a@b.com","password":"secret1","firstName":"A","lastName":"B"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusConflict)
}

func TestUserRoutesRejectBadIDs(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	for _, path := range []string{"/users/abc", "/users/0", "/users/-1", "/users/1.5"} {
		for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
			rec := f.do(method, path, `{}`, false)
			c.Check(rec.Code, qt.Equals, http.StatusBadRequest, qt.Commentf("%s %s", method, path))
			c.Check(errorBody(c, rec).Fields[0].Field, qt.Equals, "id")
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)
	f.users.err = errors.NotFoundf("user with id 5")

	rec := f.do(http.MethodGet, "/users/5", "", false)
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(errorBody(c, rec).Message, qt.Equals, "user with id 5 not found")
}

func TestUpdateUserPartial(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPatch, "/users/3", `{"lastName":"Z"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(f.users.updated.Email, qt.IsNil)
	c.Assert(f.users.updated.Password, qt.IsNil)
	c.Assert(*f.users.updated.LastName, qt.Equals, "Z")

	rec = f.do(http.MethodPatch, "/users/3", `{"password":"short"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestListAndDeleteUsers(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	c.Assert(f.do(http.MethodGet, "/users", "", false).Code, qt.Equals, http.StatusOK)
	c.Assert(f.do(http.MethodDelete, "/users/2", "", false).Code, qt.Equals, http.StatusOK)
}

func TestTaskRoutesRequireAuth(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	for _, route := range [][2]string{
		{http.MethodPost, "/tasks"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/tasks/1"},
		{http.MethodDelete, "/tasks/1"},
	} {
		rec := f.do(route[0], route[1], `{"title":"t","description":"d"}`, false)
		c.Check(rec.Code, qt.Equals, http.StatusUnauthorized, qt.Commentf("%s %s", route[0], route[1]))
	}
	c.Assert(f.tasks.calls, qt.Equals, 0)
}

func TestCreateTaskUsesCaller(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPost, "/tasks", `{"title":"Buy milk","description":"2%  and whole"}`, true)
	c.Assert(rec.Code, qt.Equals, http.StatusCreated)
	c.Assert(f.tasks.ownerID, qt.Equals, int64(7))

	var task models.Task
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &task), qt.IsNil)
	c.Assert(task.UserID, qt.Equals, int64(7))
	c.Assert(task.Description, qt.Equals, "2%  and whole")
}

func TestCreateTaskValidation(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPost, "/tasks", `{"title":"  ","description":""}`, true)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
	c.Assert(errorBody(c, rec).Fields, qt.HasLen, 2)
	c.Assert(f.tasks.calls, qt.Equals, 0)
}

func TestTaskErrorStatuses(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		err  error
		want int
	}{
		{errors.NotFoundf("task with id 999"), http.StatusNotFound},
		{errors.Forbiddenf("task 1 does not belong to user 7"), http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		f := newFixture(c)
		f.tasks.err = tt.err
		c.Check(f.do(http.MethodGet, "/tasks/999", "", true).Code, qt.Equals, tt.want)
		c.Check(f.do(http.MethodDelete, "/tasks/999", "", true).Code, qt.Equals, tt.want)
	}
}

func TestTaskRoutesRejectBadIDs(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	c.Assert(f.do(http.MethodGet, "/tasks/abc", "", true).Code, qt.Equals, http.StatusBadRequest)
	c.Assert(f.do(http.MethodDelete, "/tasks/abc", "", true).Code, qt.Equals, http.StatusBadRequest)
	c.Assert(f.tasks.calls, qt.Equals, 0)
}

func TestLogin(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodPost, "/auth/login", `{"email":"a@b.com","password":"secret1"}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	var token auth.Token
	c.Assert(json.Unmarshal(rec.Body.Bytes(), &token), qt.IsNil)
	c.Assert(token.AccessToken, qt.Equals, "tok")

	rec = f.do(http.MethodPost, "/auth/login", `{"email":"","password":""}`, false)
	c.Assert(rec.Code, qt.Equals, http.StatusBadRequest)
}

func TestLoginUnauthorized(t *testing.T) {
	c := qt.New(t)
	logger, _ := test.NewNullLogger()
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	h := NewHandler(&stubUsers{}, &stubTasks{}, stubAuth{err: errors.Unauthorizedf("invalid credentials")}, stubPinger{}, logger)
	router := NewRouter(h, middleware.NewAuthenticator(issuer, logger), middleware.NewMetrics(), promhttp.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@b.com","password":"nope"}`)))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
}

func TestHealth(t *testing.T) {
	c := qt.New(t)
	logger, _ := test.NewNullLogger()
	issuer := auth.NewTokenIssuer("secret", time.Hour)

	for _, tt := range []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		h := NewHandler(&stubUsers{}, &stubTasks{}, stubAuth{}, stubPinger{err: tt.err}, logger)
		router := NewRouter(h, middleware.NewAuthenticator(issuer, logger), middleware.NewMetrics(), promhttp.Handler())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		c.Check(rec.Code, qt.Equals, tt.want)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	c.Assert(f.do(http.MethodGet, "/nope", "", false).Code, qt.Equals, http.StatusNotFound)
	c.Assert(f.do(http.MethodPut, "/users/1", "", false).Code, qt.Equals, http.StatusMethodNotAllowed)
}

func TestMetricsEndpoint(t *testing.T) {
	c := qt.New(t)
	f := newFixture(c)

	rec := f.do(http.MethodGet, "/metrics", "", false)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}
