package subscription

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FitnessGH/fitness-gh-backend/internal/api"
	"github.com/FitnessGH/fitness-gh-backend/internal/auth"
	"github.com/FitnessGH/fitness-gh-backend/internal/gym"
	"github.com/FitnessGH/fitness-gh-backend/internal/logger"
	"github.com/FitnessGH/fitness-gh-backend/internal/metrics"
)

type Handler struct {
	svc  Service
	gyms gym.Service
}

func NewHandler(svc Service, gyms gym.Service) *Handler {
	return &Handler{svc: svc, gyms: gyms}
}

// CreatePlan godoc
// @Summary      Create subscription plan
// @Description  Creates a plan for a gym. Owners and managers only.
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Gym ID"
// @Param        request  body      CreatePlanRequest  true  "Plan data"
// @Success      201      {object}  api.Envelope
// @Failure      400      {object}  api.ErrorEnvelope
// @Failure      403      {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/plans [post]
func (h *Handler) CreatePlan(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	if !h.requireGymAccess(c, gymID, gym.RoleManager) {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.svc.CreatePlan(c.Request.Context(), gymID, req)
	if err != nil {
		logger.Error("create plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	api.OK(c, http.StatusCreated, "Plan created", plan)
}

// ListGymPlans godoc
// @Summary      List plans for a gym
// @Description  Public listing returns only active plans.
// @Tags         plans
// @Produce      json
// @Param        id   path      int  true  "Gym ID"
// @Success      200  {object}  api.Envelope
// @Router       /gyms/{id}/plans [get]
func (h *Handler) ListGymPlans(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	plans, err := h.svc.GetGymPlans(c.Request.Context(), gymID, true)
	if err != nil {
		logger.Error("list plans failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list plans")
		return
	}

	api.OK(c, http.StatusOK, "", plans)
}

// GetPlan godoc
// @Summary      Get plan by id
// @Tags         plans
// @Produce      json
// @Param        id   path      int  true  "Plan ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /plans/{id} [get]
func (h *Handler) GetPlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, err := h.svc.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			api.Fail(c, http.StatusNotFound, ErrPlanNotFound.Error())
			return
		}
		logger.Error("get plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch plan")
		return
	}

	api.OK(c, http.StatusOK, "", plan)
}

// UpdatePlan godoc
// @Summary      Update plan
// @Tags         plans
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Plan ID"
// @Param        request  body      UpdatePlanRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /plans/{id} [patch]
func (h *Handler) UpdatePlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, ok := h.planWithGymAccess(c, planID, gym.RoleManager)
	if !ok {
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.UpdatePlan(c.Request.Context(), plan.ID, req)
	if err != nil {
		logger.Error("update plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to update plan")
		return
	}

	api.OK(c, http.StatusOK, "Plan updated", updated)
}

// DeletePlan godoc
// @Summary      Deactivate plan
// @Description  Soft-deletes a plan so it no longer appears in public listings. Existing memberships keep running.
// @Tags         plans
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Plan ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /plans/{id} [delete]
func (h *Handler) DeletePlan(c *gin.Context) {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid plan id")
		return
	}

	plan, ok := h.planWithGymAccess(c, planID, gym.RoleManager)
	if !ok {
		return
	}

	if err := h.svc.DeletePlan(c.Request.Context(), plan.ID); err != nil {
		logger.Error("delete plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to deactivate plan")
		return
	}

	api.OK(c, http.StatusOK, "Plan deactivated", nil)
}

// CreateMembership godoc
// @Summary      Subscribe to a plan
// @Description  Creates a PENDING membership for the authenticated member. Activation happens on payment or via staff.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMembershipRequest  true  "Membership data"
// @Success      201      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /memberships [post]
func (h *Handler) CreateMembership(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.svc.GetPlan(c.Request.Context(), req.PlanID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			api.Fail(c, http.StatusNotFound, ErrPlanNotFound.Error())
			return
		}
		logger.Error("get plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch plan")
		return
	}

	m, err := h.svc.CreateMembership(c.Request.Context(), profileID, plan.GymID, plan.ID, req.StartDate, req.AutoRenew)
	if err != nil {
		if errors.Is(err, ErrDuplicateMembership) {
			api.Fail(c, http.StatusConflict, ErrDuplicateMembership.Error())
			return
		}
		logger.Error("create membership failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to create membership")
		return
	}

	metrics.RecordMembershipCreated("member")
	api.OK(c, http.StatusCreated, "Membership created", m)
}

// StaffCreateMembership godoc
// @Summary      Create membership for a member by email
// @Description  Staff walk-in flow. The membership is created PENDING and must be activated separately.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                           true  "Gym ID"
// @Param        request  body      StaffCreateMembershipRequest  true  "Membership data"
// @Success      201      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Failure      409      {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/memberships [post]
func (h *Handler) StaffCreateMembership(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	if !h.requireGymAccess(c, gymID) {
		return
	}

	var req StaffCreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	m, err := h.svc.CreateMembershipByEmail(c.Request.Context(), gymID, req.Email, req.PlanID, req.StartDate, req.AutoRenew)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			api.Fail(c, http.StatusNotFound, ErrProfileNotFound.Error())
		case errors.Is(err, ErrPlanNotFound):
			api.Fail(c, http.StatusNotFound, ErrPlanNotFound.Error())
		case errors.Is(err, ErrDuplicateMembership):
			api.Fail(c, http.StatusConflict, ErrDuplicateMembership.Error())
		default:
			logger.Error("staff create membership failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to create membership")
		}
		return
	}

	metrics.RecordMembershipCreated("staff")
	api.OK(c, http.StatusCreated, "Membership created", m)
}

// GetMyMemberships godoc
// @Summary      List memberships of the authenticated member
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Envelope
// @Router       /memberships/my [get]
func (h *Handler) GetMyMemberships(c *gin.Context) {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return
	}

	memberships, err := h.svc.GetProfileMemberships(c.Request.Context(), profileID)
	if err != nil {
		logger.Error("list own memberships failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list memberships")
		return
	}

	api.OK(c, http.StatusOK, "", memberships)
}

// GetMembership godoc
// @Summary      Get membership by id
// @Description  Accessible to the member who owns it and to staff of the gym.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  api.Envelope
// @Failure      403  {object}  api.ErrorEnvelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /memberships/{id} [get]
func (h *Handler) GetMembership(c *gin.Context) {
	m, ok := h.membershipForCaller(c, false)
	if !ok {
		return
	}
	api.OK(c, http.StatusOK, "", m)
}

// ListGymMemberships godoc
// @Summary      List memberships of a gym
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id      path      int     true   "Gym ID"
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  api.Envelope
// @Failure      403     {object}  api.ErrorEnvelope
// @Router       /gyms/{id}/memberships [get]
func (h *Handler) ListGymMemberships(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid gym id")
		return
	}

	if !h.requireGymAccess(c, gymID) {
		return
	}

	var status *MembershipStatus
	if raw := c.Query("status"); raw != "" {
		s := MembershipStatus(raw)
		status = &s
	}

	memberships, err := h.svc.GetGymMemberships(c.Request.Context(), gymID, status)
	if err != nil {
		logger.Error("list gym memberships failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to list memberships")
		return
	}

	api.OK(c, http.StatusOK, "", memberships)
}

// UpdateMembership godoc
// @Summary      Update membership
// @Description  Staff-only partial update of status, auto renew or end date.
// @Tags         memberships
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Membership ID"
// @Param        request  body      UpdateMembershipRequest  true  "Fields to update"
// @Success      200      {object}  api.Envelope
// @Failure      404      {object}  api.ErrorEnvelope
// @Router       /memberships/{id} [patch]
func (h *Handler) UpdateMembership(c *gin.Context) {
	m, ok := h.membershipForCaller(c, true)
	if !ok {
		return
	}

	var req UpdateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.UpdateMembership(c.Request.Context(), m.ID, req)
	if err != nil {
		logger.Error("update membership failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to update membership")
		return
	}

	api.OK(c, http.StatusOK, "Membership updated", updated)
}

// ActivateMembership godoc
// @Summary      Activate membership
// @Description  Staff activation. Resets the start date to now and recomputes the end date from the plan.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /memberships/{id}/activate [post]
func (h *Handler) ActivateMembership(c *gin.Context) {
	m, ok := h.membershipForCaller(c, true)
	if !ok {
		return
	}

	activated, err := h.svc.ActivateMembership(c.Request.Context(), m.ID, nil)
	if err != nil {
		logger.Error("activate membership failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to activate membership")
		return
	}

	metrics.RecordMembershipActivated("staff")
	api.OK(c, http.StatusOK, "Membership activated", activated)
}

// CancelMembership godoc
// @Summary      Cancel membership
// @Description  Idempotent. The member who owns the membership or gym staff may cancel.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Router       /memberships/{id}/cancel [post]
func (h *Handler) CancelMembership(c *gin.Context) {
	m, ok := h.membershipForCaller(c, false)
	if !ok {
		return
	}

	cancelled, err := h.svc.CancelMembership(c.Request.Context(), m.ID)
	if err != nil {
		logger.Error("cancel membership failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to cancel membership")
		return
	}

	metrics.RecordMembershipCancellation()
	api.OK(c, http.StatusOK, "Membership cancelled", cancelled)
}

// RecordVisit godoc
// @Summary      Record a gym visit
// @Description  Staff check-in. Fails when the membership is not active, has expired or the visit cap is reached.
// @Tags         memberships
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Membership ID"
// @Success      200  {object}  api.Envelope
// @Failure      404  {object}  api.ErrorEnvelope
// @Failure      409  {object}  api.ErrorEnvelope
// @Router       /memberships/{id}/visits [post]
func (h *Handler) RecordVisit(c *gin.Context) {
	m, ok := h.membershipForCaller(c, true)
	if !ok {
		return
	}

	updated, err := h.svc.RecordVisit(c.Request.Context(), m.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrMembershipNotActive):
			api.Fail(c, http.StatusConflict, ErrMembershipNotActive.Error())
		case errors.Is(err, ErrMembershipExpired):
			api.Fail(c, http.StatusConflict, ErrMembershipExpired.Error())
		case errors.Is(err, ErrVisitLimitReached):
			api.Fail(c, http.StatusConflict, ErrVisitLimitReached.Error())
		default:
			logger.Error("record visit failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to record visit")
		}
		return
	}

	metrics.RecordVisit()
	api.OK(c, http.StatusOK, "Visit recorded", updated)
}

func (h *Handler) requireGymAccess(c *gin.Context, gymID int, roles ...gym.EmployeeRole) bool {
	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return false
	}

	_, err := h.gyms.CheckAccess(c.Request.Context(), gymID, profileID, roles...)
	if err != nil {
		switch {
		case errors.Is(err, gym.ErrGymNotFound):
			api.Fail(c, http.StatusNotFound, gym.ErrGymNotFound.Error())
		case errors.Is(err, gym.ErrAccessDenied):
			api.Fail(c, http.StatusForbidden, gym.ErrAccessDenied.Error())
		default:
			logger.Error("access check failed", "error", err)
			api.Fail(c, http.StatusInternalServerError, "Failed to verify gym access")
		}
		return false
	}
	return true
}

// planWithGymAccess loads the plan and verifies the caller can manage its gym.
func (h *Handler) planWithGymAccess(c *gin.Context, planID int, roles ...gym.EmployeeRole) (*Plan, bool) {
	plan, err := h.svc.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			api.Fail(c, http.StatusNotFound, ErrPlanNotFound.Error())
			return nil, false
		}
		logger.Error("get plan failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch plan")
		return nil, false
	}

	if !h.requireGymAccess(c, plan.GymID, roles...) {
		return nil, false
	}
	return plan, true
}

// membershipForCaller loads the membership from the :id path param and checks
// the caller is either its owning member (unless staffOnly) or gym staff.
func (h *Handler) membershipForCaller(c *gin.Context, staffOnly bool) (*MembershipWithPlan, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Invalid membership id")
		return nil, false
	}

	profileID, ok := auth.GetProfileID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, "Not authenticated")
		return nil, false
	}

	m, err := h.svc.GetMembership(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrMembershipNotFound) {
			api.Fail(c, http.StatusNotFound, ErrMembershipNotFound.Error())
			return nil, false
		}
		logger.Error("get membership failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, "Failed to fetch membership")
		return nil, false
	}

	if !staffOnly && m.ProfileID == profileID {
		return m, true
	}

	if !h.requireGymAccess(c, m.GymID) {
		return nil, false
	}
	return m, true
}
