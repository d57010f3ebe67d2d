package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/api/middleware"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/event"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/docgen"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	refreshToken  string
	logoutErr     error
	logoutJTI     string
	logoutRefresh string
	meResult      *dto.AccountResponse
	meErr         error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, token string) (*dto.TokenResponse, error) {
	m.refreshToken = token
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, jti string, _ time.Time, refresh string) error {
	m.logoutJTI = jti
	m.logoutRefresh = refresh
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ service.Principal) (*dto.AccountResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock DeliveryService ──

type mockDeliveryService struct {
	result     *dto.DeliveryResponse
	err        error
	principal  service.Principal
	label      string
	upload     *service.FileUpload
	uploadBody string
	text       *string
}

func (m *mockDeliveryService) Dashboard(_ context.Context, p service.Principal) (*dto.DirectorDashboard, error) {
	m.principal = p
	return &dto.DirectorDashboard{}, m.err
}
func (m *mockDeliveryService) ListByPeriod(_ context.Context, _ string) ([]dto.DeliveryResponse, error) {
	return nil, m.err
}
func (m *mockDeliveryService) Get(_ context.Context, p service.Principal, _ string) (*dto.DeliveryResponse, error) {
	m.principal = p
	return m.result, m.err
}
func (m *mockDeliveryService) Upload(_ context.Context, p service.Principal, _, label string, f service.FileUpload) (*dto.DeliveryResponse, error) {
	m.principal = p
	m.label = label
	m.upload = &f
	if f.Body != nil {
		b, _ := io.ReadAll(f.Body)
		m.uploadBody = string(b)
	}
	return m.result, m.err
}
func (m *mockDeliveryService) RegisterFile(_ context.Context, _ service.Principal, _ string, _ *dto.RegisterFileRequest) (*dto.DeliveryResponse, error) {
	return m.result, m.err
}
func (m *mockDeliveryService) DeleteFile(_ context.Context, _ service.Principal, _, _ string) (*dto.DeliveryResponse, error) {
	return m.result, m.err
}
func (m *mockDeliveryService) UpdateStatus(_ context.Context, _ service.Principal, _ string, _ *dto.UpdateStatusRequest) (*dto.DeliveryResponse, error) {
	return m.result, m.err
}
func (m *mockDeliveryService) AddCorrection(_ context.Context, _ service.Principal, _ string, text *string, f *service.FileUpload) (*dto.DeliveryResponse, error) {
	m.text = text
	m.upload = f
	return m.result, m.err
}
func (m *mockDeliveryService) ListCorrections(_ context.Context, _ service.Principal, _ string) ([]dto.CorrectionResponse, error) {
	return nil, m.err
}

// ── Mock EventService ──

type mockEventService struct {
	saveErr error
}

func (m *mockEventService) Catalog(_ context.Context) ([]dto.CategoryResponse, error) {
	return nil, nil
}
func (m *mockEventService) Registration(_ context.Context, _ service.Principal) (*dto.RegistrationResponse, error) {
	return &dto.RegistrationResponse{}, nil
}
func (m *mockEventService) Save(_ context.Context, _ service.Principal, sub event.Submission) (*dto.RegistrationResponse, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return &dto.RegistrationResponse{IsOpen: true, Data: sub}, nil
}
func (m *mockEventService) Summary(_ context.Context) (*dto.EventSummary, error) {
	return &dto.EventSummary{}, nil
}
func (m *mockEventService) SetOpen(_ context.Context, _ bool) error { return nil }
func (m *mockEventService) DeleteRegistration(_ context.Context, _ string) error {
	return nil
}

// ── Mock Circular05Service ──

type mockCircular05Service struct {
	doc *service.Circular05Document
	err error
}

func (m *mockCircular05Service) GetConfig(_ context.Context) (*dto.Circular05ConfigResponse, error) {
	return &dto.Circular05ConfigResponse{}, nil
}
func (m *mockCircular05Service) UpdateConfig(_ context.Context, _ *dto.Circular05ConfigRequest) (*dto.Circular05ConfigResponse, error) {
	return &dto.Circular05ConfigResponse{}, nil
}
func (m *mockCircular05Service) Generate(_ context.Context, _ service.Principal, _ *docgen.Circular05) (*service.Circular05Document, error) {
	return m.doc, m.err
}
func (m *mockCircular05Service) ListDownloads(_ context.Context) ([]dto.Circular05SchoolDownloads, error) {
	return nil, nil
}

// ── Mock ExportService / CalendarService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportDeliveries(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportEvents(_ context.Context) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockCalendarService struct {
	body []byte
	err  error
}

func (m *mockCalendarService) SchoolCalendar(_ context.Context, _ service.Principal) ([]byte, error) {
	return m.body, m.err
}

// ── Mock ReminderService / StatusService ──

type mockReminderService struct {
	today   time.Time
	message string
	result  *dto.ReminderResult
	err     error
}

func (m *mockReminderService) RunDaily(_ context.Context, today time.Time) (*dto.ReminderResult, error) {
	m.today = today
	return m.result, m.err
}
func (m *mockReminderService) SendProgram(_ context.Context, _, message string) (*dto.ReminderResult, error) {
	m.message = message
	return m.result, m.err
}
func (m *mockReminderService) SendOne(_ context.Context, _, message string) error {
	m.message = message
	return m.err
}

type mockStatusService struct{}

func (m *mockStatusService) Summary(_ context.Context) (*dto.StatusSummary, error) {
	return &dto.StatusSummary{Cycle: "2025-2026"}, nil
}

// ── Mock SchoolService ──

type mockSchoolService struct {
	created *dto.CreateSchoolRequest
	err     error
}

func (m *mockSchoolService) List(_ context.Context) ([]dto.SchoolResponse, error) { return nil, nil }
func (m *mockSchoolService) Get(_ context.Context, _ string) (*dto.SchoolResponse, error) {
	return nil, m.err
}
func (m *mockSchoolService) Create(_ context.Context, req *dto.CreateSchoolRequest) (*dto.SchoolResponse, error) {
	m.created = req
	if m.err != nil {
		return nil, m.err
	}
	return &dto.SchoolResponse{CCT: req.CCT, Name: req.Name}, nil
}
func (m *mockSchoolService) Update(_ context.Context, _ string, _ *dto.UpdateSchoolRequest) (*dto.SchoolResponse, error) {
	return nil, m.err
}
func (m *mockSchoolService) Delete(_ context.Context, _ string) error { return m.err }
func (m *mockSchoolService) ListOverrides(_ context.Context, _ string) ([]dto.ProgramOverride, error) {
	return nil, m.err
}
func (m *mockSchoolService) SetOverrides(_ context.Context, _ string, _ *dto.SetOverridesRequest) ([]dto.ProgramOverride, error) {
	return nil, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setAuth(c *gin.Context) {
	c.Set("user_id", "school-1")
	c.Set("role", "DIRECTOR")
	c.Set("cct", "21EBH0001Z")
	c.Set("token_jti", "test-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func setAdmin(c *gin.Context) {
	c.Set("user_id", "admin-1")
	c.Set("role", "ATP_ADMIN")
	c.Set("token_jti", "admin-jti")
	c.Set("token_exp", time.Now().Add(15*time.Minute))
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve mounts h behind a route that runs auth first (when given).
func serve(method, path, route string, body io.Reader, contentType string, auth func(*gin.Context), h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if auth != nil {
			auth(c)
		}
		h(c)
	})
	r.ServeHTTP(w, req)
	return w
}

func multipartBody(t *testing.T, fields map[string]string, fileName, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    1800,
		},
	}
	h := NewAuthHandler(mock, nil)

	w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "21ebh0001z@seppue.gob.mx",
		Password: "escuela2025",
	}), "application/json", nil, h.Login)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	found := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" {
			found = true
			if c.Value != "test-refresh-token" {
				t.Errorf("expected cookie value test-refresh-token, got %s", c.Value)
			}
			if !c.HttpOnly {
				t.Error("expected refresh cookie to be HttpOnly")
			}
		}
	}
	if !found {
		t.Error("expected refresh_token cookie to be set")
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	w := serve("POST", "/auth/login", "/auth/login", strings.NewReader("invalid json"), "application/json", nil, h.Login)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials}, nil)

	w := serve("POST", "/auth/login", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "atp@supervision.edu.mx",
		Password: "wrong",
	}), "application/json", nil, h.Login)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_FromBody(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "new-access"}}
	h := NewAuthHandler(mock, nil)

	w := serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "old-refresh",
	}), "application/json", nil, h.RefreshToken)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.refreshToken != "old-refresh" {
		t.Errorf("expected token from body, got %q", mock.refreshToken)
	}
}

func TestAuthHandler_RefreshToken_FromCookie(t *testing.T) {
	mock := &mockAuthService{refreshResult: &dto.TokenResponse{AccessToken: "new-access"}}
	h := NewAuthHandler(mock, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.refreshToken != "cookie-refresh" {
		t.Errorf("expected token from cookie, got %q", mock.refreshToken)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	w := serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(map[string]string{}), "application/json", nil, h.RefreshToken)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefresh}, nil)

	w := serve("POST", "/auth/refresh", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "expired",
	}), "application/json", nil, h.RefreshToken)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	w := serve("GET", "/auth/me", "/auth/me", nil, "", nil, h.Me)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_RevokesTokens(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"})

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutJTI != "test-jti" || mock.logoutRefresh != "cookie-refresh" {
		t.Errorf("unexpected logout args: jti=%q refresh=%q", mock.logoutJTI, mock.logoutRefresh)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == "refresh_token" && c.MaxAge >= 0 {
			t.Error("expected refresh_token cookie to be cleared")
		}
	}
}

// ═══════════════════════════════════════════════════════════
// DeliveryHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDeliveryHandler_Upload_Success(t *testing.T) {
	mock := &mockDeliveryService{result: &dto.DeliveryResponse{ID: "d-1", Status: "EN_REVISION"}}
	h := NewDeliveryHandler(mock)

	body, ct := multipartBody(t, map[string]string{"label": " Evidencias "}, "evidencias.pdf", "%PDF-1.4")
	w := serve("POST", "/deliveries/d-1/files", "/deliveries/:id/files", body, ct, setAuth, h.Upload)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.label != "Evidencias" {
		t.Errorf("expected trimmed label, got %q", mock.label)
	}
	if mock.upload == nil || mock.upload.Name != "evidencias.pdf" || mock.upload.Size != int64(len("%PDF-1.4")) {
		t.Errorf("unexpected upload: %+v", mock.upload)
	}
	if mock.uploadBody != "%PDF-1.4" {
		t.Errorf("expected file body to reach the service, got %q", mock.uploadBody)
	}
	if mock.principal.CCT != "21EBH0001Z" || !mock.principal.IsDirector() {
		t.Errorf("unexpected principal: %+v", mock.principal)
	}
}

func TestDeliveryHandler_Upload_MissingFile(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryService{})

	body, ct := multipartBody(t, map[string]string{"label": "Registro"}, "", "")
	w := serve("POST", "/deliveries/d-1/files", "/deliveries/:id/files", body, ct, setAuth, h.Upload)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDeliveryHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrDeliveryNotFound, 404, 15001},
		{"PeriodClosed", service.ErrPeriodClosed, 403, 15005},
		{"TooLarge", service.ErrFileTooLarge, 413, 15006},
		{"FileType", service.ErrFileType, 400, 15007},
		{"Locked", delivery.ErrLocked, 403, 15009},
		{"NotOwner", delivery.ErrNotOwner, 403, 15011},
		{"UnknownSlot", delivery.ErrUnknownSlot, 400, 15012},
		{"Collaborator", errors.Join(pkgerrors.ErrCollaborator, errors.New("oss down")), 502, 50200},
		{"NoActiveCycle", pkgerrors.ErrNoActiveCycle, 409, 13004},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDeliveryHandler(&mockDeliveryService{err: tt.err})

			body, ct := multipartBody(t, nil, "plan.pdf", "x")
			w := serve("POST", "/deliveries/d-1/files", "/deliveries/:id/files", body, ct, setAuth, h.Upload)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestDeliveryHandler_AddCorrection_TextOnly(t *testing.T) {
	mock := &mockDeliveryService{result: &dto.DeliveryResponse{ID: "d-1", Status: "REQUIERE_CORRECCION"}}
	h := NewDeliveryHandler(mock)

	body, ct := multipartBody(t, map[string]string{"text": "Falta la firma del director"}, "", "")
	w := serve("POST", "/deliveries/d-1/corrections", "/deliveries/:id/corrections", body, ct, setAdmin, h.AddCorrection)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.text == nil || *mock.text != "Falta la firma del director" {
		t.Errorf("unexpected text: %v", mock.text)
	}
	if mock.upload != nil {
		t.Error("expected no file")
	}
}

func TestDeliveryHandler_AddCorrection_Empty(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryService{err: delivery.ErrEmptyFeedback})

	body, ct := multipartBody(t, map[string]string{"text": "   "}, "", "")
	w := serve("POST", "/deliveries/d-1/corrections", "/deliveries/:id/corrections", body, ct, setAdmin, h.AddCorrection)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15013 {
		t.Errorf("expected code 15013, got %d", resp.Code)
	}
}

func TestDeliveryHandler_DeleteFile_ApprovedForbidden(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryService{err: delivery.ErrLocked})

	w := serve("DELETE", "/deliveries/d-1/files/f-1", "/deliveries/:id/files/:fileId", nil, "", setAuth, h.DeleteFile)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15009 {
		t.Errorf("expected code 15009, got %d", resp.Code)
	}
}

func TestDeliveryHandler_AddCorrection_Approved(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryService{err: delivery.ErrApprovedFinal})

	body, ct := multipartBody(t, map[string]string{"text": "Revisar anexo"}, "", "")
	w := serve("POST", "/deliveries/d-1/corrections", "/deliveries/:id/corrections", body, ct, setAdmin, h.AddCorrection)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15015 {
		t.Errorf("expected code 15015, got %d", resp.Code)
	}
}

func TestDeliveryHandler_Dashboard_RequiresAuth(t *testing.T) {
	h := NewDeliveryHandler(&mockDeliveryService{})

	w := serve("GET", "/me/dashboard", "/me/dashboard", nil, "", nil, h.Dashboard)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SchoolHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSchoolHandler_Create_ValidatesCCT(t *testing.T) {
	tests := []struct {
		name       string
		cct        string
		wantStatus int
	}{
		{"Valid", "21EBH0088T", http.StatusCreated},
		{"Lowercase", "21ebh0088t", http.StatusCreated},
		{"TooShort", "21EBH008", http.StatusBadRequest},
		{"Garbage", "ESCUELA-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockSchoolService{}
			h := NewSchoolHandler(mock)

			w := serve("POST", "/schools", "/schools", jsonBody(dto.CreateSchoolRequest{
				CCT:      tt.cct,
				Name:     "Juan Aldama",
				Locality: "Nuevo Zoquiapan",
				Email:    "21ebh0799s@seppue.gob.mx",
				Password: "escuela2025",
			}), "application/json", setAdmin, h.Create)

			if w.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestSchoolHandler_Create_Conflict(t *testing.T) {
	h := NewSchoolHandler(&mockSchoolService{err: service.ErrSchoolCCTTaken})

	w := serve("POST", "/schools", "/schools", jsonBody(dto.CreateSchoolRequest{
		CCT:      "21EBH0088T",
		Name:     "Alfonso de la Madrid Vidaurreta",
		Locality: "Venustiano Carranza",
		Email:    "21ebh0088t@seppue.gob.mx",
		Password: "escuela2025",
	}), "application/json", setAdmin, h.Create)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12002 {
		t.Errorf("expected code 12002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Save_ValidationErrors(t *testing.T) {
	verr := &event.ValidationError{Problems: []string{"Solo puede elegir una disciplina de canto: Canto solista, Coro"}}
	h := NewEventHandler(&mockEventService{saveErr: verr})

	w := serve("PUT", "/events/registration", "/events/registration", strings.NewReader(`{"data":{}}`), "application/json", setAuth, h.Save)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Errores []string `json:"errores"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != 16002 {
		t.Errorf("expected code 16002, got %d", resp.Code)
	}
	if len(resp.Data.Errores) != 1 || !strings.Contains(resp.Data.Errores[0], "canto") {
		t.Errorf("unexpected errores: %v", resp.Data.Errores)
	}
}

func TestEventHandler_Save_Closed(t *testing.T) {
	h := NewEventHandler(&mockEventService{saveErr: service.ErrRegistrationClosed})

	w := serve("PUT", "/events/registration", "/events/registration", strings.NewReader(`{"data":{}}`), "application/json", setAuth, h.Save)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Circular05Handler Tests
// ═══════════════════════════════════════════════════════════

func TestCircular05Handler_Generate_Download(t *testing.T) {
	mock := &mockCircular05Service{doc: &service.Circular05Document{
		FileName: "Proyecto_Circular05_21EBH0001Z_Ajedrez.docx",
		Content:  []byte("PK\x03\x04"),
	}}
	h := NewCircular05Handler(mock)

	w := serve("POST", "/circular05/generate", "/circular05/generate", strings.NewReader(`{"nombreEvento":"Juegos Deportivos"}`), "application/json", setAuth, h.Generate)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != docxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Proyecto_Circular05_21EBH0001Z_Ajedrez.docx") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "PK\x03\x04" {
		t.Error("expected document bytes in the body")
	}
}

func TestCircular05Handler_Generate_MissingFields(t *testing.T) {
	h := NewCircular05Handler(&mockCircular05Service{err: &service.MissingFieldsError{Fields: []string{"sede", "alumnos"}}})

	w := serve("POST", "/circular05/generate", "/circular05/generate", strings.NewReader(`{}`), "application/json", setAuth, h.Generate)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp struct {
		Code int `json:"code"`
		Data struct {
			Faltantes []string `json:"faltantes"`
		} `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != 18002 || len(resp.Data.Faltantes) != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCircular05Handler_Generate_Inactive(t *testing.T) {
	h := NewCircular05Handler(&mockCircular05Service{err: service.ErrCircular05Inactive})

	w := serve("POST", "/circular05/generate", "/circular05/generate", strings.NewReader(`{}`), "application/json", setAuth, h.Generate)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ReminderHandler Tests
// ═══════════════════════════════════════════════════════════

func TestReminderHandler_RunDaily_DateOverride(t *testing.T) {
	mock := &mockReminderService{result: &dto.ReminderResult{Sent: 3, Evaluated: 1}}
	h := NewReminderHandler(mock, &mockStatusService{}, time.UTC)

	w := serve("POST", "/cron/reminders?date=2026-01-28", "/cron/reminders", nil, "", nil, h.RunDaily)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := mock.today.Format("2006-01-02"); got != "2026-01-28" {
		t.Errorf("expected 2026-01-28, got %s", got)
	}
	if !strings.Contains(w.Body.String(), `"enviados":3`) {
		t.Errorf("expected counters in body: %s", w.Body.String())
	}
}

func TestReminderHandler_RunDaily_Now(t *testing.T) {
	mock := &mockReminderService{result: &dto.ReminderResult{}}
	h := NewReminderHandler(mock, &mockStatusService{}, time.UTC)
	fixed := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	w := serve("POST", "/cron/reminders", "/cron/reminders", nil, "", nil, h.RunDaily)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !mock.today.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, mock.today)
	}
}

func TestReminderHandler_RunDaily_BadDate(t *testing.T) {
	h := NewReminderHandler(&mockReminderService{}, &mockStatusService{}, time.UTC)

	w := serve("POST", "/cron/reminders?date=28-01-2026", "/cron/reminders", nil, "", nil, h.RunDaily)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestReminderHandler_SendOne_NotRemindable(t *testing.T) {
	mock := &mockReminderService{err: service.ErrNotRemindable}
	h := NewReminderHandler(mock, &mockStatusService{}, time.UTC)

	w := serve("POST", "/deliveries/d-1/reminder", "/deliveries/:id/reminder", jsonBody(dto.ManualReminderRequest{Message: "Recuerde subir su PMC"}), "application/json", setAdmin, h.SendOne)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if mock.message != "Recuerde subir su PMC" {
		t.Errorf("expected message to reach the service, got %q", mock.message)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "Entregas_PMC_2025-2026.xlsx",
	}
	h := NewExportHandler(mock, &mockCalendarService{})

	w := serve("GET", "/export/deliveries?program_id=p-1", "/export/deliveries", nil, "", setAdmin, h.ExportDeliveries)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename*=UTF-8''") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
}

func TestExportHandler_MissingProgramID(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, &mockCalendarService{})

	w := serve("GET", "/export/deliveries", "/export/deliveries", nil, "", setAdmin, h.ExportDeliveries)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_NoPeriods(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportNoPeriods}, &mockCalendarService{})

	w := serve("GET", "/export/deliveries?program_id=p-1", "/export/deliveries", nil, "", setAdmin, h.ExportDeliveries)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 19101 {
		t.Errorf("expected code 19101, got %d", resp.Code)
	}
}

func TestExportHandler_Calendar(t *testing.T) {
	cal := []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	h := NewExportHandler(&mockExportService{}, &mockCalendarService{body: cal})

	w := serve("GET", "/me/calendar.ics", "/me/calendar.ics", nil, "", setAuth, h.Calendar)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected content type: %s", ct)
	}
	if !bytes.Equal(w.Body.Bytes(), cal) {
		t.Error("expected calendar bytes in the body")
	}
}
