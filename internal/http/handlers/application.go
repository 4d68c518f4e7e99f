package handlers

import (
	"net/http"
	"strings"
	"time"

	"itboard/internal/app"
	"itboard/internal/common"
	"itboard/internal/domain/application"
	"itboard/internal/domain/user"
	"itboard/internal/http/middleware"
	"itboard/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	actors       *app.ActorResolver
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, actors *app.ActorResolver, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, actors: actors, limiter: limiter}
}

type applyRequest struct {
	ListingID   string `json:"listing_id"`
	CoverLetter string `json:"cover_letter"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	engineerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.ListingID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"listing_id": "listing_id is required"}))
		return
	}
	listingID, err := common.ParseUUID(req.ListingID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"listing_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + listingID.String() + ":" + engineerID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Apply(r.Context(), listingID, engineerID, req.CoverLetter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List returns the caller's side of the board through the actor interface.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := actor.Applications(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	switch actor.Role() {
	case user.RoleCompany:
		detail, err := h.applications.GetForCompany(r.Context(), applicationID, actor.ID())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, detail)
	default:
		item, err := h.applications.GetForEngineer(r.Context(), applicationID, actor.ID())
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, item)
	}
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.Status == "" {
		response.Error(w, common.NewError(common.CodeValidation, "status is required", nil))
		return
	}
	updated, err := h.applications.UpdateStatus(r.Context(), applicationID, application.Status(req.Status), companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ApplicationHandler) resolveActor(r *http.Request) (app.Actor, error) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return nil, errUnauthorized()
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		return nil, common.NewError(common.CodeForbidden, "role not found", nil)
	}
	return h.actors.Resolve(userID, role)
}
