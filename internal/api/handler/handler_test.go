package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"oragh/backend/internal/access"
	"oragh/backend/internal/dto"
	"oragh/backend/internal/service"
	"oragh/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// ── mocks ──

type mockAuthService struct {
	tokenResult *dto.TokenResponse
	tokenErr    error
	loggedOut   string
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.tokenResult, m.tokenErr
}

func (m *mockAuthService) Refresh(_ context.Context, _ string) (*dto.TokenResponse, error) {
	return m.tokenResult, m.tokenErr
}

func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time) error {
	m.loggedOut = jti
	return nil
}

type mockActivationService struct {
	registerErr error
}

func (m *mockActivationService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if m.registerErr != nil {
		return nil, m.registerErr
	}
	return &dto.RegisterResponse{UserID: "u-1", Username: req.Username, Email: req.Email, Status: "pending"}, nil
}

func (m *mockActivationService) Preview(context.Context, string) (*dto.ActivationPreviewResponse, error) {
	return nil, service.ErrActivationTokenNotFound
}

func (m *mockActivationService) Activate(context.Context, string) (*dto.ActivationResponse, error) {
	return nil, service.ErrActivationTokenUsed
}

func (m *mockActivationService) Reject(context.Context, string) error { return nil }

func (m *mockActivationService) Pending(context.Context) ([]dto.PendingActivationResponse, error) {
	return nil, nil
}

type mockSeasonService struct {
	seasonResult *dto.SeasonResponse
	err          error
}

func (m *mockSeasonService) Create(_ context.Context, _ *dto.CreateSeasonRequest) (*dto.SeasonResponse, error) {
	return m.seasonResult, m.err
}

func (m *mockSeasonService) Get(_ context.Context, _ string) (*dto.SeasonDetailResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SeasonDetailResponse{SeasonResponse: *m.seasonResult}, nil
}

func (m *mockSeasonService) GetCurrent(context.Context) (*dto.SeasonResponse, error) {
	return m.seasonResult, m.err
}

func (m *mockSeasonService) List(context.Context, *dto.SeasonListRequest) ([]dto.SeasonResponse, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return []dto.SeasonResponse{*m.seasonResult}, 1, nil
}

func (m *mockSeasonService) Update(context.Context, string, *dto.UpdateSeasonRequest) (*dto.SeasonResponse, error) {
	return m.seasonResult, m.err
}

func (m *mockSeasonService) SetActive(context.Context, string) (*dto.SeasonResponse, error) {
	return m.seasonResult, m.err
}

func (m *mockSeasonService) Delete(context.Context, string) (*dto.DeleteSeasonResponse, error) {
	return &dto.DeleteSeasonResponse{}, m.err
}

type mockAttendanceService struct {
	marked   []dto.MarkAttendanceEntry
	markedBy string
	err      error
}

func (m *mockAttendanceService) Grid(context.Context, string, *dto.GridRequest) (*dto.GridResponse, error) {
	return &dto.GridResponse{}, m.err
}

func (m *mockAttendanceService) Mark(_ context.Context, _ string, entries []dto.MarkAttendanceEntry, markedBy string) (*dto.MarkAttendanceResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.marked = entries
	m.markedBy = markedBy
	return &dto.MarkAttendanceResponse{Updated: len(entries), Skipped: []string{}}, nil
}

func (m *mockAttendanceService) EventStats(context.Context, string) (*dto.StatsResponse, error) {
	return &dto.StatsResponse{}, m.err
}

func (m *mockAttendanceService) SeasonStats(context.Context, string) (*dto.SeasonStatsResponse, error) {
	return &dto.SeasonStatsResponse{}, m.err
}

func (m *mockAttendanceService) List(context.Context, *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	return nil, 0, m.err
}

type mockEventService struct {
	created *dto.CreateEventRequest
}

func (m *mockEventService) Create(_ context.Context, req *dto.CreateEventRequest, createdBy string) (*dto.EventResponse, error) {
	m.created = req
	return &dto.EventResponse{ID: "e-1", Name: req.Name, Type: req.Type, CreatedBy: &dto.UserBrief{ID: createdBy}}, nil
}

func (m *mockEventService) Get(context.Context, string) (*dto.EventResponse, error) {
	return nil, service.ErrEventNotFound
}

func (m *mockEventService) List(context.Context, *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	return nil, 0, nil
}

func (m *mockEventService) SeasonEvents(context.Context, string, string, int) ([]dto.EventResponse, error) {
	return nil, nil
}

func (m *mockEventService) Update(context.Context, string, *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	return nil, nil
}

func (m *mockEventService) Delete(context.Context, string) error { return nil }

func (m *mockEventService) Attendances(context.Context, string) ([]dto.AttendanceResponse, error) {
	return nil, nil
}

type mockExportService struct{}

func (mockExportService) ExportGrid(context.Context, string, *dto.GridRequest) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("PK"), "obecnosci_2024_2025.xlsx", nil
}

type mockConcertService struct {
	err        error
	registered []string
}

func (m *mockConcertService) List(context.Context, access.Principal, *dto.ConcertListRequest) ([]dto.ConcertResponse, int64, error) {
	return nil, 0, m.err
}

func (m *mockConcertService) Get(context.Context, access.Principal, string) (*dto.ConcertResponse, error) {
	return nil, service.ErrConcertNotFound
}

func (m *mockConcertService) Create(_ context.Context, _ access.Principal, req *dto.CreateConcertRequest) (*dto.ConcertResponse, error) {
	return &dto.ConcertResponse{ID: "c-1", Name: req.Name}, m.err
}

func (m *mockConcertService) Update(context.Context, access.Principal, string, *dto.UpdateConcertRequest) (*dto.ConcertResponse, error) {
	return nil, m.err
}

func (m *mockConcertService) Delete(context.Context, access.Principal, string) error { return m.err }

func (m *mockConcertService) Register(_ context.Context, _ access.Principal, id, action string) (*dto.ConcertRegistrationResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.registered = append(m.registered, id+":"+action)
	return &dto.ConcertRegistrationResponse{Message: "Registered for the concert", ParticipantsCount: 1, IsRegistered: true}, nil
}

func (m *mockConcertService) Participants(context.Context, string) (*dto.ConcertParticipantsResponse, error) {
	return &dto.ConcertParticipantsResponse{Participants: []dto.MusicianResponse{}, Count: 0}, m.err
}

func (m *mockConcertService) Permissions(p access.Principal) *dto.ConcertPermissionsResponse {
	return &dto.ConcertPermissionsResponse{CanCreate: p.HasPerm(access.PermManageConcerts)}
}

// ── helpers ──

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// authAs stands in for middleware.JWTAuth.
func authAs(p access.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, p.UserID)
		c.Set(CtxPrincipal, p)
		c.Set(CtxTokenJTI, "jti-1")
		c.Set(CtxTokenExp, time.Now().Add(time.Hour))
		c.Next()
	}
}

var board = access.Principal{UserID: "board-1", Groups: []string{access.GroupBoard}}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ── auth ──

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		mock       *mockAuthService
		wantStatus int
		wantCode   int
	}{
		{
			name:       "success",
			body:       dto.LoginRequest{Username: "anna", Password: "secret123"},
			mock:       &mockAuthService{tokenResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}},
			wantStatus: http.StatusOK,
			wantCode:   0,
		},
		{
			name:       "bad credentials",
			body:       dto.LoginRequest{Username: "anna", Password: "wrong"},
			mock:       &mockAuthService{tokenErr: service.ErrInvalidCredentials},
			wantStatus: http.StatusUnauthorized,
			wantCode:   11001,
		},
		{
			name:       "pending account",
			body:       dto.LoginRequest{Username: "anna", Password: "secret123"},
			mock:       &mockAuthService{tokenErr: service.ErrAccountPending},
			wantStatus: http.StatusForbidden,
			wantCode:   11002,
		},
		{
			name:       "missing password",
			body:       map[string]string{"username": "anna"},
			mock:       &mockAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   10001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(tt.mock)
			r := gin.New()
			r.POST("/auth/token", h.Login)

			w := do(r, http.MethodPost, "/auth/token", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestAuthHandler_LoginReportsMissingField(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	r := gin.New()
	r.POST("/auth/token", h.Login)

	w := do(r, http.MethodPost, "/auth/token", map[string]string{"username": "anna"})
	resp := parseResponse(w)
	if _, ok := resp.Fields["password"]; !ok {
		t.Errorf("fields = %v, want an entry for password", resp.Fields)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	t.Run("unauthenticated", func(t *testing.T) {
		r := gin.New()
		r.POST("/auth/logout", h.Logout)
		w := do(r, http.MethodPost, "/auth/logout", nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("revokes current token", func(t *testing.T) {
		r := gin.New()
		r.POST("/auth/logout", authAs(board), h.Logout)
		w := do(r, http.MethodPost, "/auth/logout", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if mock.loggedOut != "jti-1" {
			t.Errorf("revoked jti = %q, want jti-1", mock.loggedOut)
		}
	})
}

// ── activation ──

func TestActivationHandler(t *testing.T) {
	valid := map[string]interface{}{
		"username": "anna", "email": "anna@example.com",
		"first_name": "Anna", "last_name": "Nowak",
		"password1": "secret123", "password2": "secret123",
		"instrument": "flet",
	}

	t.Run("register created", func(t *testing.T) {
		h := NewActivationHandler(&mockActivationService{})
		r := gin.New()
		r.POST("/users/register", h.Register)
		w := do(r, http.MethodPost, "/users/register", valid)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
		}
	})

	t.Run("unknown instrument rejected at binding", func(t *testing.T) {
		h := NewActivationHandler(&mockActivationService{})
		r := gin.New()
		r.POST("/users/register", h.Register)
		body := map[string]interface{}{}
		for k, v := range valid {
			body[k] = v
		}
		body["instrument"] = "kazoo"
		w := do(r, http.MethodPost, "/users/register", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if resp := parseResponse(w); resp.Fields["instrument"] == "" {
			t.Errorf("fields = %v, want instrument", resp.Fields)
		}
	})

	t.Run("service field errors are forwarded", func(t *testing.T) {
		h := NewActivationHandler(&mockActivationService{
			registerErr: service.ErrPasswordMismatch.WithField("password2", "Passwords do not match"),
		})
		r := gin.New()
		r.POST("/users/register", h.Register)
		w := do(r, http.MethodPost, "/users/register", valid)
		resp := parseResponse(w)
		if w.Code != http.StatusBadRequest || resp.Code != 12006 {
			t.Fatalf("status=%d code=%d, want 400/12006", w.Code, resp.Code)
		}
		if resp.Fields["password2"] == "" {
			t.Errorf("fields = %v, want password2", resp.Fields)
		}
	})

	t.Run("token states", func(t *testing.T) {
		h := NewActivationHandler(&mockActivationService{})
		r := gin.New()
		r.GET("/users/activate/:token", h.Preview)
		r.POST("/users/activate/:token", h.Activate)

		if w := do(r, http.MethodGet, "/users/activate/nope", nil); w.Code != http.StatusNotFound {
			t.Errorf("preview status = %d, want 404", w.Code)
		}
		w := do(r, http.MethodPost, "/users/activate/used", nil)
		if w.Code != http.StatusBadRequest || parseResponse(w).Code != 12002 {
			t.Errorf("activate status=%d code=%d, want 400/12002", w.Code, parseResponse(w).Code)
		}
	})
}

// ── seasons ──

func TestSeasonHandler_Create(t *testing.T) {
	season := &dto.SeasonResponse{ID: "s-1", Name: "2024/2025", StartDate: "2024-09-01", EndDate: "2025-06-30"}

	tests := []struct {
		name       string
		body       interface{}
		mock       *mockSeasonService
		wantStatus int
		wantCode   int
		wantField  string
	}{
		{
			name:       "created",
			body:       dto.CreateSeasonRequest{Name: "2024/2025", StartDate: "2024-09-01", EndDate: "2025-06-30"},
			mock:       &mockSeasonService{seasonResult: season},
			wantStatus: http.StatusCreated,
		},
		{
			name: "end before start",
			body: dto.CreateSeasonRequest{Name: "2024/2025", StartDate: "2025-06-30", EndDate: "2024-09-01"},
			mock: &mockSeasonService{
				err: service.ErrSeasonDateInvalid.WithField("end_date", "End date must be after start date"),
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   14002,
			wantField:  "end_date",
		},
		{
			name:       "missing name",
			body:       map[string]string{"start_date": "2024-09-01", "end_date": "2025-06-30"},
			mock:       &mockSeasonService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   10001,
			wantField:  "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSeasonHandler(tt.mock, nil, nil, nil, nil, nil)
			r := gin.New()
			r.POST("/seasons", h.Create)

			w := do(r, http.MethodPost, "/seasons", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
			if tt.wantField != "" && resp.Fields[tt.wantField] == "" {
				t.Errorf("fields = %v, want %s", resp.Fields, tt.wantField)
			}
		})
	}
}

func TestSeasonHandler_GetNotFound(t *testing.T) {
	h := NewSeasonHandler(&mockSeasonService{err: service.ErrSeasonNotFound}, nil, nil, nil, nil, nil)
	r := gin.New()
	r.GET("/seasons/:id", h.Get)

	w := do(r, http.MethodGet, "/seasons/missing", nil)
	if w.Code != http.StatusNotFound || parseResponse(w).Code != 14001 {
		t.Errorf("status=%d code=%d, want 404/14001", w.Code, parseResponse(w).Code)
	}
}

func TestSeasonHandler_ListPaginates(t *testing.T) {
	h := NewSeasonHandler(&mockSeasonService{seasonResult: &dto.SeasonResponse{ID: "s-1"}}, nil, nil, nil, nil, nil)
	r := gin.New()
	r.GET("/seasons", h.List)

	w := do(r, http.MethodGet, "/seasons?page=2&page_size=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Data response.PageData `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Pagination.Page != 2 || body.Data.Pagination.PageSize != 5 || body.Data.Pagination.Total != 1 {
		t.Errorf("pagination = %+v", body.Data.Pagination)
	}

	if w := do(r, http.MethodGet, "/seasons?page_size=500", nil); w.Code != http.StatusBadRequest {
		t.Errorf("oversized page_size status = %d, want 400", w.Code)
	}
}

func TestSeasonHandler_ExportGrid(t *testing.T) {
	h := NewSeasonHandler(nil, nil, nil, nil, mockExportService{}, nil)
	r := gin.New()
	r.GET("/seasons/:id/attendance_grid/export", h.ExportGrid)

	w := do(r, http.MethodGet, "/seasons/s-1/attendance_grid/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != mimeXLSX {
		t.Errorf("Content-Type = %q", got)
	}
	want := "attachment; filename*=UTF-8''obecnosci_2024_2025.xlsx"
	if got := w.Header().Get("Content-Disposition"); got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}
}

// ── events ──

func TestEventHandler_Create(t *testing.T) {
	mock := &mockEventService{}
	h := NewEventHandler(mock, nil)
	r := gin.New()
	r.POST("/events", authAs(board), h.Create)

	w := do(r, http.MethodPost, "/events", map[string]string{
		"name": "Koncert", "date": "2024-12-01", "type": "gala", "season_id": "s-1",
	})
	if w.Code != http.StatusBadRequest || parseResponse(w).Fields["type"] == "" {
		t.Fatalf("unknown type: status=%d body=%s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/events", map[string]string{
		"name": "Koncert", "date": "2024-12-01", "type": "concert", "season_id": "s-1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", w.Code, w.Body.String())
	}
	if mock.created == nil || mock.created.Type != "concert" {
		t.Errorf("service got %+v", mock.created)
	}
}

func TestEventHandler_MarkAttendance(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"valid", `{"attendances":[{"user_id":"u1","present":1.0},{"user_id":"u2","present":0}]}`, http.StatusOK, ""},
		{"value off the scale", `{"attendances":[{"user_id":"u1","present":1.0},{"user_id":"u2","present":0.7}]}`, http.StatusBadRequest, "attendances[1].present"},
		{"missing value", `{"attendances":[{"user_id":"u1"}]}`, http.StatusBadRequest, "attendances[0].present"},
		{"missing user", `{"attendances":[{"present":0.5}]}`, http.StatusBadRequest, "attendances[0].user_id"},
		{"malformed", `{"attendances":`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAttendanceService{}
			h := NewEventHandler(nil, mock)
			r := gin.New()
			r.POST("/events/:id/mark_attendance", authAs(board), h.MarkAttendance)

			req := httptest.NewRequest(http.MethodPost, "/events/e-1/mark_attendance", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantField != "" {
				if resp := parseResponse(w); resp.Fields[tt.wantField] == "" {
					t.Errorf("fields = %v, want %s", resp.Fields, tt.wantField)
				}
			}
			if tt.wantStatus == http.StatusOK {
				if len(mock.marked) != 2 || mock.markedBy != board.UserID {
					t.Errorf("service got %d entries marked by %q", len(mock.marked), mock.markedBy)
				}
				if *mock.marked[1].Present != 0 {
					t.Errorf("second value = %v, want 0", *mock.marked[1].Present)
				}
			}
		})
	}
}

func TestEventHandler_MarkAttendanceMissingEvent(t *testing.T) {
	h := NewEventHandler(nil, &mockAttendanceService{err: service.ErrEventNotFound})
	r := gin.New()
	r.POST("/events/:id/mark_attendance", authAs(board), h.MarkAttendance)

	w := do(r, http.MethodPost, "/events/missing/mark_attendance", map[string]interface{}{
		"attendances": []map[string]interface{}{{"user_id": "u1", "present": 1.0}},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ── shared ──

func TestRespondError_UnknownErrorIsInternal(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		respondError(c, errors.New("connection reset"))
	})

	w := do(r, http.MethodGet, "/boom", nil)
	resp := parseResponse(w)
	if w.Code != http.StatusInternalServerError || resp.Code != 50000 {
		t.Fatalf("status=%d code=%d, want 500/50000", w.Code, resp.Code)
	}
	if resp.Message == "connection reset" {
		t.Error("internal error message leaked to the client")
	}
}

func TestForumHandler_RequiresPrincipal(t *testing.T) {
	h := NewForumHandler(nil)
	r := gin.New()
	r.GET("/forum/directories/tree", h.Tree)

	w := do(r, http.MethodGet, "/forum/directories/tree", nil)
	if w.Code != http.StatusUnauthorized || parseResponse(w).Code != 10002 {
		t.Errorf("status=%d code=%d, want 401/10002", w.Code, parseResponse(w).Code)
	}
}

// ── concerts ──

func TestConcertHandler_Register(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantCode   int
		wantField  string
	}{
		{"register", `{"action":"register"}`, nil, http.StatusOK, 0, ""},
		{"unregister", `{"action":"unregister"}`, nil, http.StatusOK, 0, ""},
		{"unknown action", `{"action":"maybe"}`, nil, http.StatusBadRequest, 10001, "action"},
		{"missing action", `{}`, nil, http.StatusBadRequest, 10001, "action"},
		{"already registered", `{"action":"register"}`, service.ErrAlreadyRegistered, http.StatusBadRequest, 20006, ""},
		{"unknown concert", `{"action":"register"}`, service.ErrConcertNotFound, http.StatusNotFound, 20001, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockConcertService{err: tt.svcErr}
			h := NewConcertHandler(mock)
			r := gin.New()
			r.POST("/concerts/:id/register", authAs(board), h.Register)

			req := httptest.NewRequest(http.MethodPost, "/concerts/c-1/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := parseResponse(w)
			if tt.wantCode != 0 && resp.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Code, tt.wantCode)
			}
			if tt.wantField != "" && resp.Fields[tt.wantField] == "" {
				t.Errorf("fields = %v, want %s", resp.Fields, tt.wantField)
			}
			if tt.wantStatus == http.StatusOK && len(mock.registered) != 1 {
				t.Errorf("service calls = %v", mock.registered)
			}
		})
	}
}

func TestConcertHandler_Permissions(t *testing.T) {
	h := NewConcertHandler(&mockConcertService{})
	musician := access.Principal{UserID: "u-1", Groups: []string{access.GroupMusician}}

	for _, tc := range []struct {
		p    access.Principal
		want bool
	}{{board, true}, {musician, false}} {
		r := gin.New()
		r.GET("/concerts/permissions", authAs(tc.p), h.Permissions)

		w := do(r, http.MethodGet, "/concerts/permissions", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var body struct {
			Data dto.ConcertPermissionsResponse `json:"data"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body.Data.CanCreate != tc.want {
			t.Errorf("%s can_create = %v, want %v", tc.p.UserID, body.Data.CanCreate, tc.want)
		}
	}
}

func TestConcertHandler_GetUnknown(t *testing.T) {
	h := NewConcertHandler(&mockConcertService{})
	r := gin.New()
	r.GET("/concerts/:id", authAs(board), h.Get)

	w := do(r, http.MethodGet, "/concerts/42", nil)
	if w.Code != http.StatusNotFound || parseResponse(w).Code != 20001 {
		t.Errorf("status=%d code=%d, want 404/20001", w.Code, parseResponse(w).Code)
	}
}

func TestForumHandler_CreateCommentValidation(t *testing.T) {
	h := NewForumHandler(nil)
	r := gin.New()
	r.POST("/forum/posts/:id/comments", authAs(board), h.CreateComment)

	w := do(r, http.MethodPost, "/forum/posts/p-1/comments", map[string]string{})
	if w.Code != http.StatusBadRequest || parseResponse(w).Fields["content"] == "" {
		t.Errorf("status=%d body=%s, want 400 with content field", w.Code, w.Body.String())
	}
}
