package rest

import "net/http"

// Routes holds everything mounted on the mux. Socket and Metrics are optional.
type Routes struct {
	Health        *HealthHandler
	Auth          *AuthHandler
	Records       *RecordHandler
	Reports       *ReportHandler
	Notifications *NotificationHandler
	Socket        http.Handler
	Metrics       http.Handler
	MetricsPath   string
}

// NewRouter registers every endpoint on a fresh ServeMux.
func NewRouter(rt Routes) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.HandleFunc("POST /auth/register", rt.Auth.Register)
	mux.HandleFunc("POST /auth/login", rt.Auth.Login)
	mux.HandleFunc("POST /auth/refresh", rt.Auth.Refresh)
	mux.HandleFunc("POST /auth/logout", rt.Auth.Logout)

	mux.HandleFunc("GET /api/state", rt.Reports.State)
	mux.HandleFunc("GET /api/records/{kind}", rt.Records.List)
	mux.HandleFunc("POST /api/records/{kind}", rt.Records.Create)
	mux.HandleFunc("GET /api/reports/{name}", rt.Reports.Report)
	mux.HandleFunc("GET /api/admin/staff", rt.Reports.Staff)
	mux.HandleFunc("GET /api/notifications", rt.Notifications.List)
	mux.HandleFunc("DELETE /api/notifications/{id}", rt.Notifications.Dismiss)

	if rt.Socket != nil {
		mux.Handle("GET /ws", rt.Socket)
	}
	if rt.Metrics != nil && rt.MetricsPath != "" {
		mux.Handle("GET "+rt.MetricsPath, rt.Metrics)
	}
	return mux
}
