package http

import (
	"net/http"
	"strings"
	"time"

	"itboard/internal/domain/user"
	"itboard/internal/http/handlers"
	"itboard/internal/http/metrics"
	httpmw "itboard/internal/http/middleware"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	ProfileHandler     *handlers.ProfileHandler
	ListingHandler     *handlers.ListingHandler
	ApplicationHandler *handlers.ApplicationHandler
	MessageHandler     *handlers.MessageHandler
	ScoutHandler       *handlers.ScoutHandler
	BillingHandler     *handlers.BillingHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Metrics            *metrics.Collector
	RequestTimeout     time.Duration
}

type Router struct {
	deps RouterDependencies
}

const maxBodyBytes = 1 << 20

func NewRouter(deps RouterDependencies) http.Handler {
	return &Router{deps: deps}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := httpmw.Chain(r.baseHandler(), httpmw.RequestID, httpmw.Logging, httpmw.BodyLimit(maxBodyBytes), httpmw.Recover, httpmw.Metrics(r.deps.Metrics), httpmw.Timeout(r.deps.RequestTimeout))
	handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := req.URL.Path

		switch {
		case req.Method == http.MethodGet && path == "/health":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.Metrics.Handler().ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/register":
			r.deps.AuthHandler.Register(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/login":
			r.deps.AuthHandler.Login(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/refresh":
			r.deps.AuthHandler.Refresh(w, req)
			return
		case req.Method == http.MethodPost && path == "/auth/logout":
			r.deps.AuthHandler.Logout(w, req)
			return
		case req.Method == http.MethodGet && path == "/listings":
			r.deps.ListingHandler.ListPublished(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(path, "/listings/"):
			r.deps.ListingHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/engineers") || strings.HasPrefix(path, "/companies") || strings.HasPrefix(path, "/listings") || strings.HasPrefix(path, "/applications") || strings.HasPrefix(path, "/messages") || strings.HasPrefix(path, "/scout") || strings.HasPrefix(path, "/billing") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		http.NotFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path

	switch {
	case req.Method == http.MethodGet && path == "/engineers/profile":
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ProfileHandler.GetEngineer)).ServeHTTP(w, req)
		return
	case (req.Method == http.MethodPost || req.Method == http.MethodPut) && path == "/engineers/profile":
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ProfileHandler.UpsertEngineer)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/engineers/listings/recommended":
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ListingHandler.ListRecommended)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/companies/profile":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ProfileHandler.GetCompany)).ServeHTTP(w, req)
		return
	case (req.Method == http.MethodPost || req.Method == http.MethodPut) && path == "/companies/profile":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ProfileHandler.UpsertCompany)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/companies/trial":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ProfileHandler.StartTrial)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/companies/listings":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ListingHandler.ListByCompany)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/companies/listings/"):
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ListingHandler.GetByCompany)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/listings":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ListingHandler.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/listings/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ListingHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/listings/"):
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ListingHandler.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/applications":
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ApplicationHandler.Apply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/applications":
		r.deps.ApplicationHandler.List(w, req)
		return
	case req.Method == http.MethodPatch && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/status"):
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ApplicationHandler.UpdateStatus)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/messages"):
		r.deps.MessageHandler.Send(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/") && strings.HasSuffix(path, "/messages"):
		r.deps.MessageHandler.List(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/applications/"):
		r.deps.ApplicationHandler.Get(w, req)
		return
	case req.Method == http.MethodGet && path == "/messages/unread-count":
		r.deps.MessageHandler.UnreadCount(w, req)
		return
	case req.Method == http.MethodPost && path == "/scout":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.ScoutHandler.Send)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/scout":
		r.routeScoutList(w, req)
		return
	case req.Method == http.MethodPost && strings.HasPrefix(path, "/scout/") && strings.HasSuffix(path, "/reply"):
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ScoutHandler.Reply)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/scout/"):
		httpmw.RequireRole(user.RoleEngineer)(http.HandlerFunc(r.deps.ScoutHandler.Get)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/billing/entitlements":
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.BillingHandler.Entitlements)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && strings.HasPrefix(path, "/billing/payments/"):
		httpmw.RequireRole(user.RoleCompany)(http.HandlerFunc(r.deps.BillingHandler.PaymentStatus)).ServeHTTP(w, req)
		return
	}

	http.NotFound(w, req)
}

func (r *Router) routeScoutList(w http.ResponseWriter, req *http.Request) {
	role, _ := httpmw.RoleFromContext(req.Context())
	switch role {
	case user.RoleCompany:
		r.deps.ScoutHandler.ListForCompany(w, req)
	case user.RoleEngineer:
		r.deps.ScoutHandler.ListForEngineer(w, req)
	default:
		http.NotFound(w, req)
	}
}
