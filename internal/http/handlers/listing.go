package handlers

import (
	"net/http"

	"itboard/internal/app"
	"itboard/internal/domain/listing"
	"itboard/internal/http/middleware"
	"itboard/internal/http/response"
)

type ListingHandler struct {
	listings *app.ListingService
}

func NewListingHandler(listings *app.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type listingRequest struct {
	Kind         string   `json:"kind"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Budget       string   `json:"budget"`
	Location     string   `json:"location"`
	Status       string   `json:"status"`
}

type listingStatusRequest struct {
	Status string `json:"status"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.listings.Create(r.Context(), listing.Listing{
		CompanyID:    userID,
		Kind:         listing.Kind(req.Kind),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Budget:       req.Budget,
		Location:     req.Location,
		Status:       listing.Status(req.Status),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	listingID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.listings.Update(r.Context(), listing.Listing{
		ID:           listingID,
		CompanyID:    userID,
		Kind:         listing.Kind(req.Kind),
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Budget:       req.Budget,
		Location:     req.Location,
		Status:       listing.Status(req.Status),
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	listingID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req listingStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.listings.UpdateStatus(r.Context(), userID, listingID, listing.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	listingID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.listings.Get(r.Context(), listingID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ListingHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	limit, offset := limitOffset(r)
	items, err := h.listings.ListPublished(r.Context(), limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ListingHandler) ListRecommended(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	limit, offset := limitOffset(r)
	items, err := h.listings.ListRecommended(r.Context(), userID, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ListingHandler) ListByCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.listings.ListByCompany(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ListingHandler) GetByCompany(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	listingID, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.listings.GetByCompany(r.Context(), userID, listingID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}
