// ABOUTME: Handlers for registering, fetching and discovering athlete profiles.
// ABOUTME: Discovery query parameters go through discovery.ParseFilter.
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/scout/internal/discovery"
	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/models"
	"github.com/harperreed/scout/internal/service"
)

// UsersHandler handles /api/users requests.
type UsersHandler struct {
	svc       *service.Service
	authorize Authorizer
	log       logger.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(svc *service.Service, authorize Authorizer, log logger.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, authorize: authorize, log: log}
}

// registerRequest mirrors the signup form. Password is accepted and discarded.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Sport    string `json:"sport"`
	District string `json:"district"`
	Age      *int   `json:"age"`
	Team     string `json:"team"`
}

func (req registerRequest) profile() *models.AthleteProfile {
	p := &models.AthleteProfile{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(req.Name),
		Role:     models.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		District: strings.TrimSpace(req.District),
	}
	switch p.Role {
	case models.RoleAthlete:
		p.Sport = strings.TrimSpace(req.Sport)
		p.Age = req.Age
	case models.RoleCoach:
		p.Team = strings.TrimSpace(req.Team)
	}
	return p.WithEmail(req.Email)
}

// HandleRegister handles POST /api/users/register.
func (h *UsersHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	p := req.profile()
	if err := h.svc.RegisterProfile(p); err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleListAthletes handles GET /api/users/athletes?sport&district&age&name.
func (h *UsersHandler) HandleListAthletes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := discovery.ParseFilter(q.Get("sport"), q.Get("district"), q.Get("age"), q.Get("name"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	roster, err := h.svc.Discover(f)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	if roster == nil {
		roster = []*models.AthleteProfile{}
	}
	writeJSON(w, http.StatusOK, roster)
}

// HandleGetUser handles GET /api/users/{id}.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleUpdateUser handles PUT /api/users/{id}. Only the fields present in the
// body change; role and email rules match registration.
func (h *UsersHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, h.log, err)
		return
	}

	current, err := h.svc.GetProfile(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	if err := h.authorize(r, current.ID); err != nil {
		writeDomainError(w, h.log, fmt.Errorf("%w: %v", ErrForbidden, err))
		return
	}

	p, err := h.svc.UpdateProfile(current.ID.String(), req)
	if err != nil {
		writeDomainError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
