package handler

import (
	"net/http"
	"time"

	"shelterconnect/internal/apperrors"
	"shelterconnect/internal/domain"
	"shelterconnect/internal/middleware"
	"shelterconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

type createRequestBody struct {
	Title    string `json:"title" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=SUPPLIES SERVICES VOLUNTEERS"`
	Urgency  string `json:"urgency" binding:"required,oneof=HIGH MEDIUM LOW"`
	DueDate  string `json:"due_date"`
	Details  string `json:"details" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// Create handles POST /requests/create (shelters only).
func (h *RequestHandler) Create(c *gin.Context) {
	var body createRequestBody
	if !bindJSON(c, &body) {
		return
	}
	due, err := service.ParseDate("due_date", body.DueDate)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	req, err := h.svc.Create(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), service.CreateRequestInput{
		Title:    body.Title,
		Type:     body.Type,
		Urgency:  body.Urgency,
		DueDate:  due,
		Details:  body.Details,
		Location: body.Location,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request created successfully", "request": req})
}

type updateRequestBody struct {
	ID       uint    `json:"id" binding:"required"`
	Title    *string `json:"title"`
	Type     *string `json:"type"`
	Urgency  *string `json:"urgency"`
	DueDate  *string `json:"due_date"`
	Details  *string `json:"details"`
	Location *string `json:"location"`
	Status   *string `json:"status"`
}

// Update handles PATCH /requests/update: field edits by the creator and status transitions.
func (h *RequestHandler) Update(c *gin.Context) {
	var body updateRequestBody
	if !bindJSON(c, &body) {
		return
	}
	in := service.UpdateRequestInput{
		ID:       body.ID,
		Title:    body.Title,
		Type:     body.Type,
		Urgency:  body.Urgency,
		Details:  body.Details,
		Location: body.Location,
		DueDate:  body.DueDate,
		Status:   body.Status,
	}
	req, err := h.svc.Update(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request updated successfully", "request": req})
}

type archiveRequestBody struct {
	ID uint `json:"id" binding:"required"`
}

// Archive handles PATCH /requests/archive.
func (h *RequestHandler) Archive(c *gin.Context) {
	var body archiveRequestBody
	if !bindJSON(c, &body) {
		return
	}
	req, err := h.svc.Archive(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), body.ID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request archived successfully", "request": req})
}

// Item handles GET /requests/item?id=.
func (h *RequestHandler) Item(c *gin.Context) {
	id, err := parseID("id", c.Query("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	req, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": req})
}

// List handles GET /requests/list.
func (h *RequestHandler) List(c *gin.Context) {
	in, err := listInput(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	page, err := h.svc.List(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), in)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func listInput(c *gin.Context) (service.ListRequestsInput, error) {
	var in service.ListRequestsInput
	var err error
	if in.Page, err = queryInt(c, "page", domain.DefaultPage); err != nil {
		return in, err
	}
	if in.Limit, err = queryInt(c, "limit", domain.DefaultLimit); err != nil {
		return in, err
	}
	if v := c.Query("type"); v != "" {
		t, ok := domain.ParseRequestType(v)
		if !ok {
			return in, apperrors.Validation("type", "Invalid type. Must be one of: SUPPLIES, SERVICES, VOLUNTEERS")
		}
		in.Type = t
	}
	if v := c.Query("urgency"); v != "" {
		u, ok := domain.ParseUrgency(v)
		if !ok {
			return in, apperrors.Validation("urgency", "Invalid urgency. Must be one of: HIGH, MEDIUM, LOW")
		}
		in.Urgency = u
	}
	if v := c.Query("status"); v != "" {
		s, ok := domain.ParseRequestStatus(v)
		if !ok {
			return in, apperrors.Validation("status", "Invalid status. Must be one of: PENDING, IN_PROGRESS, COMPLETED, ARCHIVED")
		}
		in.Status = s
	}
	in.Location = c.Query("location")
	in.Text = c.Query("text")

	dates := []struct {
		field string
		dst   **time.Time
		upper bool
	}{
		{"due_date_start", &in.DueFrom, false},
		{"due_date_end", &in.DueTo, true},
		{"created_date_start", &in.CreatedFrom, false},
		{"created_date_end", &in.CreatedTo, true},
	}
	for _, d := range dates {
		raw := c.Query(d.field)
		t, err := service.ParseDate(d.field, raw)
		if err != nil {
			return in, err
		}
		if d.upper {
			t = endOfDay(raw, t)
		}
		*d.dst = t
	}
	return in, nil
}

// Locations handles GET /requests/locations.
func (h *RequestHandler) Locations(c *gin.Context) {
	locations, err := h.svc.Locations(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}
