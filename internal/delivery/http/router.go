package http

import (
	"net/http"

	"go-medical-marketplace/internal/delivery/http/handler"
	"go-medical-marketplace/internal/delivery/http/middleware"
	"go-medical-marketplace/internal/domain/entity"
	"go-medical-marketplace/pkg/response"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Onboarding   *handler.OnboardingHandler
	Doctor       *handler.DoctorHandler
	Appointment  *handler.AppointmentHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	Upload       *handler.UploadHandler
	Admin        *handler.AdminHandler
	AuditLog     *handler.AuditLogHandler
}

type Middlewares struct {
	Auth     *middleware.AuthMiddleware
	Gate     *middleware.GateMiddleware
	CORS     *middleware.CORSMiddleware
	Logging  *middleware.LoggingMiddleware
	Recovery *middleware.RecoveryMiddleware
	// Sentry is optional
	Sentry mux.MiddlewareFunc
}

type Router struct {
	router      *mux.Router
	handlers    Handlers
	middlewares Middlewares
	uploads     http.Handler
}

func NewRouter(handlers Handlers, middlewares Middlewares, uploads http.Handler) *Router {
	return &Router{
		router:      mux.NewRouter(),
		handlers:    handlers,
		middlewares: middlewares,
		uploads:     uploads,
	}
}

func (r *Router) Setup() http.Handler {
	h := r.handlers
	m := r.middlewares

	r.router.Use(m.Recovery.Handle)
	if m.Sentry != nil {
		r.router.Use(m.Sentry)
	}
	r.router.Use(middleware.Tracing, m.Logging.Handle)

	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public routes
	api.HandleFunc("/auth/google", h.Auth.SignInWithGoogle).Methods(http.MethodPost)
	api.HandleFunc("/doctors", h.Doctor.Search).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/reviews", h.Review.ListByDoctor).Methods(http.MethodGet)

	// Groups share the api router so a wrong method on a known path is a 405
	identified := func(f http.HandlerFunc) http.Handler {
		return m.Auth.Identify(f)
	}
	authed := func(f http.HandlerFunc) http.Handler {
		return m.Auth.Authenticate(f)
	}
	doctorOnly := func(f http.HandlerFunc) http.Handler {
		return m.Auth.Authenticate(middleware.RequireDoctor(f))
	}

	// Booking answers 401 itself
	api.Handle("/appointments", identified(h.Appointment.Book)).Methods(http.MethodPost)

	// Authenticated routes
	api.Handle("/auth/signout", authed(h.Auth.SignOut)).Methods(http.MethodPost)
	api.Handle("/auth/session", authed(h.Auth.GetSession)).Methods(http.MethodGet)
	api.Handle("/onboarding", authed(h.Onboarding.Complete)).Methods(http.MethodPost)
	api.Handle("/doctors/apply", authed(h.Doctor.Apply)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}/reviews", authed(h.Review.Submit)).Methods(http.MethodPost)
	api.Handle("/appointments", authed(h.Appointment.ListMine)).Methods(http.MethodGet)
	api.Handle("/notifications", authed(h.Notification.List)).Methods(http.MethodGet)
	api.Handle("/notifications/read", authed(h.Notification.MarkAllRead)).Methods(http.MethodPut)
	api.Handle("/upload", authed(h.Upload.Upload)).Methods(http.MethodPost)

	// Doctor routes
	api.Handle("/appointments/{id}/respond", doctorOnly(h.Appointment.Respond)).Methods(http.MethodPost)
	api.Handle("/doctor/dashboard", doctorOnly(h.Doctor.GetDashboard)).Methods(http.MethodGet)
	api.Handle("/doctor/availability", doctorOnly(h.Doctor.ToggleAvailability)).Methods(http.MethodPost)
	api.Handle("/doctor/settings", doctorOnly(h.Doctor.UpdateSettings)).Methods(http.MethodPut)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(m.Auth.Authenticate, middleware.RequireRole(entity.RoleAdmin))
	admin.HandleFunc("/stats", h.Admin.GetStats).Methods(http.MethodGet)
	admin.HandleFunc("/doctors", h.Admin.ListDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/approve", h.Admin.ApproveDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", h.Admin.TerminateDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments", h.Admin.ListAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/patients/{id}", h.Admin.GetPatient).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs", h.AuditLog.List).Methods(http.MethodGet)

	// Uploaded files
	if r.uploads != nil {
		r.router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", r.uploads)).Methods(http.MethodGet)
	}

	// Page data, gated per request state
	pages := r.router.NewRoute().Subrouter()
	pages.Use(m.Auth.Identify, m.Gate.Handle)
	pages.HandleFunc("/", h.Doctor.Featured).Methods(http.MethodGet)
	pages.HandleFunc("/search", h.Doctor.Search).Methods(http.MethodGet)
	pages.HandleFunc("/onboarding", h.Onboarding.Status).Methods(http.MethodGet)
	pages.HandleFunc("/doctor/dashboard", h.Doctor.GetDashboard).Methods(http.MethodGet)
	pages.HandleFunc("/doctor/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	pages.HandleFunc("/patient/appointments", h.Appointment.ListMine).Methods(http.MethodGet)
	pages.HandleFunc("/admin", h.Admin.GetStats).Methods(http.MethodGet)

	r.router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	// CORS wraps the router so preflight requests never hit a 405
	return m.CORS.Handle(r.router)
}

func methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	response.Error(w, http.StatusMethodNotAllowed, "", nil)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
