package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-medical-marketplace/internal/delivery/dto"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Meta    *struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
	} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// newRequest builds a request with optional principal and mux path vars
func newRequest(method, target string, body io.Reader, principal *entity.Principal, vars map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if principal != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func patientPrincipal() *entity.Principal {
	return &entity.Principal{UserID: uuid.New(), Email: "pat@example.com", Name: "Pat", Role: entity.RolePatient, IsOnboarded: true, TokenID: "tok-1"}
}

func doctorPrincipal() *entity.Principal {
	return &entity.Principal{UserID: uuid.New(), Email: "doc@example.com", Name: "Doc", Role: entity.RoleDoctor, IsOnboarded: true, TokenID: "tok-2"}
}

func adminPrincipal() *entity.Principal {
	return &entity.Principal{UserID: uuid.New(), Email: "root@example.com", Name: "Root", Role: entity.RoleAdmin, IsOnboarded: true, TokenID: "tok-3"}
}

type stubAuthUsecase struct {
	signIn     func(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error)
	signOut    func(ctx context.Context, userID uuid.UUID, tokenID string) error
	resolve    func(ctx context.Context, token string) (*entity.Principal, error)
	getCurrent func(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
}

func (s *stubAuthUsecase) SignInWithGoogle(ctx context.Context, req *dto.GoogleSignInRequest) (*dto.SessionResponse, error) {
	return s.signIn(ctx, req)
}

func (s *stubAuthUsecase) SignOut(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return s.signOut(ctx, userID, tokenID)
}

func (s *stubAuthUsecase) ResolvePrincipal(ctx context.Context, token string) (*entity.Principal, error) {
	return s.resolve(ctx, token)
}

func (s *stubAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	return s.getCurrent(ctx, userID)
}

type stubOnboardingUsecase struct {
	complete  func(ctx context.Context, userID uuid.UUID, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error)
	getStatus func(ctx context.Context, userID uuid.UUID) (*dto.OnboardingResponse, error)
}

func (s *stubOnboardingUsecase) Complete(ctx context.Context, userID uuid.UUID, req *dto.OnboardingRequest) (*dto.OnboardingResponse, error) {
	return s.complete(ctx, userID, req)
}

func (s *stubOnboardingUsecase) GetStatus(ctx context.Context, userID uuid.UUID) (*dto.OnboardingResponse, error) {
	return s.getStatus(ctx, userID)
}

type stubDoctorUsecase struct {
	apply              func(ctx context.Context, userID uuid.UUID, req *dto.ApplyDoctorRequest) (*dto.DoctorResponse, error)
	search             func(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error)
	featured           func(ctx context.Context) (*dto.DoctorListResponse, error)
	getDoctor          func(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error)
	getDashboard       func(ctx context.Context, userID uuid.UUID) (*dto.DoctorDashboardResponse, error)
	toggleAvailability func(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error)
	updateSettings     func(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorSettingsRequest) (*dto.DoctorResponse, error)
}

func (s *stubDoctorUsecase) Apply(ctx context.Context, userID uuid.UUID, req *dto.ApplyDoctorRequest) (*dto.DoctorResponse, error) {
	return s.apply(ctx, userID, req)
}

func (s *stubDoctorUsecase) Search(ctx context.Context, req *dto.DoctorSearchRequest) (*dto.DoctorListResponse, error) {
	return s.search(ctx, req)
}

func (s *stubDoctorUsecase) Featured(ctx context.Context) (*dto.DoctorListResponse, error) {
	return s.featured(ctx)
}

func (s *stubDoctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorDetailResponse, error) {
	return s.getDoctor(ctx, id)
}

func (s *stubDoctorUsecase) GetDashboard(ctx context.Context, userID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	return s.getDashboard(ctx, userID)
}

func (s *stubDoctorUsecase) ToggleAvailability(ctx context.Context, userID uuid.UUID) (*dto.DoctorResponse, error) {
	return s.toggleAvailability(ctx, userID)
}

func (s *stubDoctorUsecase) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.UpdateDoctorSettingsRequest) (*dto.DoctorResponse, error) {
	return s.updateSettings(ctx, userID, req)
}

type stubAppointmentUsecase struct {
	book     func(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	listMine func(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error)
	respond  func(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID, req *dto.RespondAppointmentRequest) (*dto.AppointmentResponse, error)
}

func (s *stubAppointmentUsecase) Book(ctx context.Context, principal *entity.Principal, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.book(ctx, principal, req)
}

func (s *stubAppointmentUsecase) ListMine(ctx context.Context, userID uuid.UUID) ([]dto.AppointmentResponse, error) {
	return s.listMine(ctx, userID)
}

func (s *stubAppointmentUsecase) Respond(ctx context.Context, userID uuid.UUID, appointmentID uuid.UUID, req *dto.RespondAppointmentRequest) (*dto.AppointmentResponse, error) {
	return s.respond(ctx, userID, appointmentID, req)
}

type stubReviewUsecase struct {
	submit       func(ctx context.Context, userID uuid.UUID, doctorID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error)
	listByDoctor func(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error)
}

func (s *stubReviewUsecase) Submit(ctx context.Context, userID uuid.UUID, doctorID uuid.UUID, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	return s.submit(ctx, userID, doctorID, req)
}

func (s *stubReviewUsecase) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]dto.ReviewResponse, error) {
	return s.listByDoctor(ctx, doctorID)
}

type stubNotificationUsecase struct {
	list        func(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error)
	markAllRead func(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error)
}

func (s *stubNotificationUsecase) List(ctx context.Context, userID uuid.UUID) (*dto.NotificationListResponse, error) {
	return s.list(ctx, userID)
}

func (s *stubNotificationUsecase) MarkAllRead(ctx context.Context, userID uuid.UUID) (*dto.MarkReadResponse, error) {
	return s.markAllRead(ctx, userID)
}

type stubUploadUsecase struct {
	upload func(ctx context.Context, userID uuid.UUID, r io.Reader) (*dto.UploadResponse, error)
}

func (s *stubUploadUsecase) Upload(ctx context.Context, userID uuid.UUID, r io.Reader) (*dto.UploadResponse, error) {
	return s.upload(ctx, userID, r)
}

type stubAdminUsecase struct {
	getStats         func(ctx context.Context) (*dto.AdminStatsResponse, error)
	listDoctors      func(ctx context.Context, status entity.DoctorStatus) (*dto.DoctorListResponse, error)
	approveDoctor    func(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	terminateDoctor  func(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) error
	listAppointments func(ctx context.Context, doctorID *uuid.UUID) ([]dto.AppointmentResponse, error)
	getPatient       func(ctx context.Context, patientID uuid.UUID) (*dto.PatientDetailResponse, error)
}

func (s *stubAdminUsecase) GetStats(ctx context.Context) (*dto.AdminStatsResponse, error) {
	return s.getStats(ctx)
}

func (s *stubAdminUsecase) ListDoctors(ctx context.Context, status entity.DoctorStatus) (*dto.DoctorListResponse, error) {
	return s.listDoctors(ctx, status)
}

func (s *stubAdminUsecase) ApproveDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	return s.approveDoctor(ctx, adminID, doctorID)
}

func (s *stubAdminUsecase) TerminateDoctor(ctx context.Context, adminID uuid.UUID, doctorID uuid.UUID) error {
	return s.terminateDoctor(ctx, adminID, doctorID)
}

func (s *stubAdminUsecase) ListAppointments(ctx context.Context, doctorID *uuid.UUID) ([]dto.AppointmentResponse, error) {
	return s.listAppointments(ctx, doctorID)
}

func (s *stubAdminUsecase) GetPatient(ctx context.Context, patientID uuid.UUID) (*dto.PatientDetailResponse, error) {
	return s.getPatient(ctx, patientID)
}

type stubAuditLogUsecase struct {
	list func(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error)
}

func (s *stubAuditLogUsecase) List(ctx context.Context, page, limit int) (*dto.AuditLogListResponse, error) {
	return s.list(ctx, page, limit)
}
