package api

import (
	"errors"
	"log"
	"net/http"

	"household-meal-planner/internal/app"
	"household-meal-planner/internal/auth"
	"household-meal-planner/internal/member"
	"household-meal-planner/internal/planner"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name                string   `json:"name" binding:"required"`
	Email               string   `json:"email" binding:"required,email"`
	Password            string   `json:"password" binding:"required"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

type loginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type familyMember struct {
	ID                  string              `json:"id"`
	DietaryRestrictions member.Restrictions `json:"dietary_restrictions"`
}

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	m, err := h.service.Register(c.Request.Context(), app.RegisterInput{
		Name:                req.Name,
		Email:               req.Email,
		Password:            req.Password,
		DietaryRestrictions: req.DietaryRestrictions,
	})
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	case errors.Is(err, member.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"detail": "Email already registered"})
		return
	case err != nil:
		internalError(c, "register member", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": m.ID})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		unauthorized(c, "Incorrect username or password")
		return
	}
	if err != nil {
		internalError(c, "log in", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

func (h *handlers) listMembers(c *gin.Context) {
	members, err := h.service.Members(c.Request.Context())
	if err != nil {
		internalError(c, "list members", err)
		return
	}

	out := make([]familyMember, 0, len(members))
	for _, m := range members {
		out = append(out, familyMember{ID: m.ID, DietaryRestrictions: m.Restrictions})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) myPlan(c *gin.Context) {
	m := currentMember(c)
	plan, err := h.service.MyPlan(c.Request.Context(), m.ID)
	if errors.Is(err, planner.ErrPlanNotFound) {
		c.JSON(http.StatusOK, gin.H{"days": []planner.DayPlan{}})
		return
	}
	if err != nil {
		internalError(c, "load meal plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *handlers) refreshMyPlan(c *gin.Context) {
	m := currentMember(c)
	plan, err := h.service.RefreshMember(c.Request.Context(), m.ID)
	if err != nil {
		internalError(c, "refresh meal plan", err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func internalError(c *gin.Context, action string, err error) {
	log.Printf("Failed to %s: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
