package handlers

import (
	"net/http"
	"strings"
	"time"

	"itboard/internal/app"
	"itboard/internal/common"
	"itboard/internal/http/middleware"
	"itboard/internal/http/response"
)

type ScoutHandler struct {
	scouts  *app.ScoutService
	limiter middleware.Limiter
}

func NewScoutHandler(scouts *app.ScoutService, limiter middleware.Limiter) *ScoutHandler {
	return &ScoutHandler{scouts: scouts, limiter: limiter}
}

type scoutSendRequest struct {
	EngineerID string `json:"engineer_id"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
	MatchScore int    `json:"match_score"`
}

func (h *ScoutHandler) Send(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req scoutSendRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.EngineerID) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"engineer_id": "engineer_id is required"}))
		return
	}
	engineerID, err := common.ParseUUID(req.EngineerID)
	if err != nil {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"engineer_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("scout:"+companyID.String(), 10, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "scout rate limit exceeded", nil))
			return
		}
	}
	created, err := h.scouts.Send(r.Context(), companyID, engineerID, req.Subject, req.Content, req.MatchScore)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ScoutHandler) ListForEngineer(w http.ResponseWriter, r *http.Request) {
	engineerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.scouts.ListForEngineer(r.Context(), engineerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ScoutHandler) ListForCompany(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.scouts.ListForCompany(r.Context(), companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// Get opens a scout email as the engineer, marking it read.
func (h *ScoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	engineerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	scoutID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.scouts.GetForEngineer(r.Context(), scoutID, engineerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ScoutHandler) Reply(w http.ResponseWriter, r *http.Request) {
	engineerID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	scoutID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.scouts.Reply(r.Context(), scoutID, engineerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
