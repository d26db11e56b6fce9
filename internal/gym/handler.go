package gym

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// CreateGym godoc
// @Summary      Create gym
// @Description  Registers a new gym owned by the authenticated profile.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateGymRequest  true  "Gym data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, err := h.svc.CreateGym(c.Request.Context(), profileID, req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			api.Fail(c, http.StatusConflict, ErrSlugTaken.Error())
			return
		}
		logger.Error("create gym failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to create gym")
		return
	}

	api.OK(c, http.StatusCreated, "Gym created", gym)
}

// ListGyms godoc
// @Summary      List gyms
// @Description  Returns all active gyms.
// @Tags         gyms
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.svc.GetAllGyms(c.Request.Context())
	if err != nil {
		logger.Error("list gyms failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list gyms")
		return
	}
	api.OK(c, http.StatusOK, "", gyms)
}

// GetGym godoc
// @Summary      Get gym by id
// @Tags         gyms
// @Produce      json
// @Param        id   path      int  true  "Gym ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /gyms/{id} [get]
func (h *Handler) GetGym(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	gym, err := h.svc.GetGymByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrGymNotFound) {
			api.Fail(c, http.StatusNotFound, ErrGymNotFound.Error())
			return
		}
		logger.Error("get gym failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch gym")
		return
	}

	api.OK(c, http.StatusOK, "", gym)
}

// GetGymBySlug godoc
// @Summary      Get gym by slug
// @Tags         gyms
// @Produce      json
// @Param        slug  path      string  true  "Gym slug"
// @Success      200   {object}  api.Envelope
// @Failure      404   {object}  api.ErrorEnvelope
// @Router       /gyms/slug/{slug} [get]
func (h *Handler) GetGymBySlug(c *gin.Context) {
	gym, err := h.svc.GetGymBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrGymNotFound) {
			api.Fail(c, http.StatusNotFound, ErrGymNotFound.Error())
			return
		}
		logger.Error("get gym by slug failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch gym")
		return
	}

	api.OK(c, http.StatusOK, "", gym)
}

// GetMyGyms godoc
// @Summary      List gyms owned by the authenticated profile
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /gyms/my [get]
func (h *Handler) GetMyGyms(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	gyms, err := h.svc.GetMyGyms(c.Request.Context(), profileID)
	if err != nil {
		logger.Error("list own gyms failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list gyms")
		return
	}

	api.OK(c, http.StatusOK, "", gyms)
}

// UpdateGym godoc
// @Summary      Update gym
// @Description  Owners and managers may update gym details.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int               true  "Gym ID"
// @Param        request  body      UpdateGymRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      403      {object}  api.ErrorEnvelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /gyms/{id} [patch]
func (h *Handler) UpdateGym(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if !h.requireAccess(c, id, profileID, RoleManager) {
		return
	}

	var req UpdateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	gym, err := h.svc.UpdateGym(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrGymNotFound) {
			api.Fail(c, http.StatusNotFound, ErrGymNotFound.Error())
			return
		}
		logger.Error("update gym failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to update gym")
		return
	}

	api.OK(c, http.StatusOK, "Gym updated", gym)
}

// DeleteGym godoc
// @Summary      Deactivate gym
// @Description  Soft-deletes a gym. Only the owner may do this.
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Gym ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /gyms/{id} [delete]
func (h *Handler) DeleteGym(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	access, err := h.checkAccess(c, id, profileID)
	if err != nil {
		return
	}
	if !access.IsOwner {
		api.Fail(c, http.StatusForbidden, "Only the owner can deactivate a gym")
		return
	}

	if err := h.svc.DeleteGym(c.Request.Context(), id); err != nil {
		logger.Error("delete gym failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to deactivate gym")
		return
	}

	api.OK(c, http.StatusOK, "Gym deactivated", nil)
}

// AddEmployee godoc
// @Summary      Add employee
// @Description  Adds an employee to the gym by account email. Owners and managers only.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Gym ID"
// @Param        request  body      AddEmployeeRequest  true  "Employee data"
// @Success      201      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/employees [post]
func (h *Handler) AddEmployee(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if !h.requireAccess(c, gymID, profileID, RoleManager) {
		return
	}

	var req AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	employment, err := h.svc.AddEmployee(c.Request.Context(), gymID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			api.Fail(c, http.StatusNotFound, ErrProfileNotFound.Error())
		case errors.Is(err, ErrAlreadyEmployed):
			api.Fail(c, http.StatusConflict, ErrAlreadyEmployed.Error())
		default:
			logger.Error("add employee failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to add employee")
		}
		return
	}

	api.OK(c, http.StatusCreated, "Employee added", employment)
}

// ListEmployees godoc
// @Summary      List gym employees
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Gym ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/employees [get]
func (h *Handler) ListEmployees(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if !h.requireAccess(c, gymID, profileID, RoleManager) {
		return
	}

	employees, err := h.svc.ListEmployees(c.Request.Context(), gymID)
	if err != nil {
		logger.Error("list employees failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list employees")
		return
	}

	api.OK(c, http.StatusOK, "", employees)
}

// UpdateEmployment godoc
// @Summary      Update employment
// @Description  Changes an employee's role or deactivates the employment.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id            path      int                      true  "Gym ID"
// @Param        employmentId  path      int                      true  "Employment ID"
// @Param        request       body      UpdateEmploymentRequest  true  "Fields to update"
// @Success      200           {object}  api.Envelope
// @Failure      404           {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/employees/{employmentId} [patch]
func (h *Handler) UpdateEmployment(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	employmentID, err := strconv.Atoi(c.Param("employmentId"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid employment id")
		return
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if !h.requireAccess(c, gymID, profileID, RoleManager) {
		return
	}

	var req UpdateEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	employment, err := h.svc.UpdateEmployment(c.Request.Context(), gymID, employmentID, req)
	if err != nil {
		if errors.Is(err, ErrEmploymentNotFound) {
			api.Fail(c, http.StatusNotFound, ErrEmploymentNotFound.Error())
			return
		}
		logger.Error("update employment failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to update employment")
		return
	}

	api.OK(c, http.StatusOK, "Employment updated", employment)
}

// checkAccess resolves access or writes the error response and returns a
// non-nil error so the caller can bail out.
func (h *Handler) checkAccess(c *gin.Context, gymID, profileID int, roles ...EmployeeRole) (*Access, error) {
	access, err := h.svc.CheckAccess(c.Request.Context(), gymID, profileID, roles...)
	if err != nil {
		switch {
		case errors.Is(err, ErrGymNotFound):
			api.Fail(c, http.StatusNotFound, ErrGymNotFound.Error())
		case errors.Is(err, ErrAccessDenied):
			api.Fail(c, http.StatusForbidden, ErrAccessDenied.Error())
		default:
			logger.Error("access check failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to verify gym access")
		}
		return nil, err
	}
	return access, nil
}

func (h *Handler) requireAccess(c *gin.Context, gymID, profileID int, roles ...EmployeeRole) bool {
	_, err := h.checkAccess(c, gymID, profileID, roles...)
	return err == nil
}
