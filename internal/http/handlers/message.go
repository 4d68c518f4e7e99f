package handlers

import (
	"net/http"
	"time"

	"itboard/internal/app"
	"itboard/internal/common"
	"itboard/internal/http/middleware"
	"itboard/internal/http/response"
)

type MessageHandler struct {
	messages *app.MessageService
	actors   *app.ActorResolver
	limiter  middleware.Limiter
}

func NewMessageHandler(messages *app.MessageService, actors *app.ActorResolver, limiter middleware.Limiter) *MessageHandler {
	return &MessageHandler{messages: messages, actors: actors, limiter: limiter}
}

type messageRequest struct {
	Body string `json:"body"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "msg:" + applicationID.String() + ":" + userID.String()
		if !h.limiter.Allow(key, 1, 2*time.Second) {
			response.Error(w, common.NewError(common.CodeRateLimited, "messages are sent too frequently", nil))
			return
		}
	}
	created, err := h.messages.Send(r.Context(), applicationID, userID, role, req.Body)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
		return
	}
	applicationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	limit, offset := limitOffset(r)
	items, err := h.messages.List(r.Context(), applicationID, userID, role, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type unreadResponse struct {
	Unread int `json:"unread"`
}

// UnreadCount backs the dashboard badge; clients poll it on an interval.
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	role, ok := middleware.RoleFromContext(r.Context())
	if !ok {
		response.Error(w, common.NewError(common.CodeForbidden, "role not found", nil))
		return
	}
	actor, err := h.actors.Resolve(userID, role)
	if err != nil {
		response.Error(w, err)
		return
	}
	total, err := actor.UnreadTotal(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, unreadResponse{Unread: total})
}
