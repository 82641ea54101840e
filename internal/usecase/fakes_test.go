package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/internal/infrastructure/identity"
	"go-medical-marketplace/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStore = errors.New("store unavailable")

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// users

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateRole(db *gorm.DB, id uuid.UUID, role entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	u.Role = role
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) get(id uuid.UUID) entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

// doctors

type fakeDoctorRepo struct {
	mu        sync.Mutex
	doctors   map[uuid.UUID]entity.Doctor
	deleteErr error
}

func newFakeDoctorRepo(doctors ...entity.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{doctors: make(map[uuid.UUID]entity.Doctor)}
	for _, d := range doctors {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *fakeDoctorRepo) Upsert(db *gorm.DB, doctor *entity.Doctor) error {
	doctor.Resubmit()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.doctors {
		if existing.UserID != nil && doctor.UserID != nil && *existing.UserID == *doctor.UserID {
			existing.Phone = doctor.Phone
			existing.Specialization = doctor.Specialization
			existing.District = doctor.District
			existing.LicenseNumber = doctor.LicenseNumber
			existing.Fees = doctor.Fees
			existing.Experience = doctor.Experience
			existing.Description = doctor.Description
			existing.VerificationURL = doctor.VerificationURL
			existing.Status = doctor.Status
			r.doctors[id] = existing
			doctor.ID = id
			return nil
		}
	}
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	r.doctors[doctor.ID] = *doctor
	return nil
}

func (r *fakeDoctorRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.UserID != nil && *d.UserID == userID {
			found := d
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) Search(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Doctor
	for _, d := range r.doctors {
		if !d.IsActive() {
			continue
		}
		if filter.MaxFee > 0 && d.Fees > filter.MaxFee {
			continue
		}
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Rating > result[j].Rating })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeDoctorRepo) FindAll(db *gorm.DB, status entity.DoctorStatus) ([]entity.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Doctor
	for _, d := range r.doctors {
		if status == "" || d.Status == status {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *fakeDoctorRepo) FindAllWithAppointments(db *gorm.DB) ([]entity.Doctor, error) {
	return r.FindAll(db, "")
}

func (r *fakeDoctorRepo) UpdateAvailability(db *gorm.DB, id uuid.UUID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doctors[id]
	d.IsAvailable = available
	r.doctors[id] = d
	return nil
}

func (r *fakeDoctorRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doctors[id]
	d.Status = status
	r.doctors[id] = d
	return nil
}

func (r *fakeDoctorRepo) UpdateSettings(db *gorm.DB, doctor *entity.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doctors[doctor.ID]
	d.District = doctor.District
	d.Fees = doctor.Fees
	d.Experience = doctor.Experience
	d.Description = doctor.Description
	d.Phone = doctor.Phone
	d.MapsURL = doctor.MapsURL
	r.doctors[doctor.ID] = d
	return nil
}

func (r *fakeDoctorRepo) UpdateRating(db *gorm.DB, id uuid.UUID, rating float64, reviews int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.doctors[id]
	d.Rating = rating
	d.Reviews = reviews
	r.doctors[id] = d
	return nil
}

func (r *fakeDoctorRepo) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if _, ok := r.doctors[id]; !ok {
		return 0, nil
	}
	delete(r.doctors, id)
	return 1, nil
}

func (r *fakeDoctorRepo) get(id uuid.UUID) (entity.Doctor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	return d, ok
}

func (r *fakeDoctorRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.doctors)
}

// patients

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[uuid.UUID]entity.Patient
}

func newFakePatientRepo(patients ...entity.Patient) *fakePatientRepo {
	r := &fakePatientRepo{patients: make(map[uuid.UUID]entity.Patient)}
	for _, p := range patients {
		r.patients[p.ID] = p
	}
	return r
}

func (r *fakePatientRepo) Create(db *gorm.DB, patient *entity.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	r.patients[patient.ID] = *patient
	return nil
}

func (r *fakePatientRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePatientRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.patients {
		if p.UserID != nil && *p.UserID == userID {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakePatientRepo) FindWithRecentAppointments(db *gorm.DB, id uuid.UUID, limit int) (*entity.Patient, error) {
	return r.FindByID(db, id)
}

func (r *fakePatientRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.patients)
}

// appointments

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]entity.Appointment
	patients     *fakePatientRepo
	deleteErr    error
}

func newFakeAppointmentRepo(patients *fakePatientRepo, appts ...entity.Appointment) *fakeAppointmentRepo {
	r := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]entity.Appointment), patients: patients}
	for _, a := range appts {
		r.appointments[a.ID] = a
	}
	return r
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appt *entity.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if appt.ID == uuid.Nil {
		appt.ID = uuid.New()
	}
	appt.CreatedAt = time.Now()
	r.appointments[appt.ID] = *appt
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.mu.Lock()
	a, ok := r.appointments[id]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	if r.patients != nil {
		a.Patient, _ = r.patients.FindByID(db, a.PatientID)
	}
	return &a, nil
}

func (r *fakeAppointmentRepo) list(match func(entity.Appointment) bool) []entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Appointment
	for _, a := range r.appointments {
		if match(a) {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (r *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	result := r.list(func(a entity.Appointment) bool { return a.DoctorID == doctorID })
	for i := range result {
		if r.patients != nil {
			result[i].Patient, _ = r.patients.FindByID(db, result[i].PatientID)
		}
	}
	return result, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	return r.list(func(a entity.Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *fakeAppointmentRepo) FindAll(db *gorm.DB, doctorID *uuid.UUID) ([]entity.Appointment, error) {
	return r.list(func(a entity.Appointment) bool { return doctorID == nil || a.DoctorID == *doctorID }), nil
}

func (r *fakeAppointmentRepo) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.appointments[id]
	a.Status = status
	r.appointments[id] = a
	return nil
}

func (r *fakeAppointmentRepo) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var n int64
	for id, a := range r.appointments {
		if a.DoctorID == doctorID {
			delete(r.appointments, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.appointments)
}

func (r *fakeAppointmentRepo) get(id uuid.UUID) entity.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appointments[id]
}

// reviews

type fakeReviewRepo struct {
	mu        sync.Mutex
	reviews   []entity.Review
	deleteErr error
}

func (r *fakeReviewRepo) Create(db *gorm.DB, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	review.CreatedAt = time.Now()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *fakeReviewRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].DoctorID == doctorID {
			result = append(result, r.reviews[i])
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) RatingsByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ratings []int
	for _, rv := range r.reviews {
		if rv.DoctorID == doctorID {
			ratings = append(ratings, rv.Rating)
		}
	}
	return ratings, nil
}

func (r *fakeReviewRepo) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	kept := r.reviews[:0]
	var n int64
	for _, rv := range r.reviews {
		if rv.DoctorID == doctorID {
			n++
			continue
		}
		kept = append(kept, rv)
	}
	r.reviews = kept
	return n, nil
}

func (r *fakeReviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reviews)
}

// notifications

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []entity.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(db *gorm.DB, n *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *n)
	return nil
}

func (r *fakeNotificationRepo) FindByUserID(db *gorm.DB, userID uuid.UUID, limit int) ([]entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID == userID {
			result = append(result, r.notifications[i])
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeNotificationRepo) CountUnread(db *gorm.DB, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.notifications {
		if item.UserID == userID && !item.Read {
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) MarkAllRead(db *gorm.DB, userID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for i := range r.notifications {
		if r.notifications[i].UserID == userID && !r.notifications[i].Read {
			r.notifications[i].Read = true
			n++
		}
	}
	return n, nil
}

func (r *fakeNotificationRepo) forUser(userID uuid.UUID) []entity.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []entity.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

// audit

type fakeAuditRepo struct {
	mu   sync.Mutex
	logs []entity.AuditLog
}

func (r *fakeAuditRepo) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeAuditRepo) FindPage(db *gorm.DB, offset, limit int) ([]entity.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := int64(len(r.logs))
	if offset >= len(r.logs) {
		return []entity.AuditLog{}, total, nil
	}
	end := offset + limit
	if end > len(r.logs) {
		end = len(r.logs)
	}
	return append([]entity.AuditLog(nil), r.logs[offset:end]...), total, nil
}

func (r *fakeAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, len(r.logs))
	for i, l := range r.logs {
		actions[i] = l.Action
	}
	return actions
}

// events

type publishedEvent struct {
	key     string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, payload: payload})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.key
	}
	return keys
}

var _ service.EventPublisher = (*fakePublisher)(nil)

// sessions

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Duration
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]time.Duration)}
}

func (s *fakeSessionStore) key(userID uuid.UUID, tokenID string) string {
	return userID.String() + ":" + tokenID
}

func (s *fakeSessionStore) Save(ctx context.Context, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[s.key(userID, tokenID)] = ttl
	return nil
}

func (s *fakeSessionStore) Exists(ctx context.Context, userID uuid.UUID, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[s.key(userID, tokenID)]
	return ok, nil
}

func (s *fakeSessionStore) Revoke(ctx context.Context, userID uuid.UUID, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, s.key(userID, tokenID))
	return nil
}

// identity

type fakeVerifier struct {
	identities map[string]*identity.ExternalIdentity
}

func (v *fakeVerifier) Verify(ctx context.Context, raw string) (*identity.ExternalIdentity, error) {
	if ident, ok := v.identities[raw]; ok {
		return ident, nil
	}
	return nil, identity.ErrInvalidIDToken
}

func strPtr(s string) *string { return &s }
