// Package api exposes a small token-authenticated JSON surface alongside the
// HTML app, for scripts and mobile clients.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"attendease/internal/account"
	"attendease/internal/attendance"
	"attendease/internal/auth"
	"attendease/internal/config"
	"attendease/internal/domain"
	"attendease/internal/httpmiddleware"
)

// Handler serves /api/v1.
type Handler struct {
	cfg      config.App
	accounts *account.Service
	records  *attendance.Service
}

// NewHandler wires the API against the shared services.
func NewHandler(cfg config.App, accounts *account.Service, records *attendance.Service) *Handler {
	return &Handler{cfg: cfg, accounts: accounts, records: records}
}

// Register mounts the API routes on a router group.
func (h *Handler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	v1.POST("/tokens", h.issueTokens)

	authed := v1.Group("", h.bearerAuth())
	authed.GET("/attendance/summary", h.requireRole("student"), h.attendanceSummary)
	authed.GET("/class/summary", h.requireRole("teacher"), h.classSummary)
}

func (h *Handler) issueTokens(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}

	u, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	profile, err := h.accounts.ResolveProfile(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "account has no student or teacher profile"})
		return
	}

	tokens, err := auth.Issue(u.ID, profile.Role(), h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("token issue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"role":          profile.Role(),
	})
}

// bearerAuth validates the Authorization header and stashes the claims.
func (h *Handler) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}
		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), h.cfg.JWTSigningKey, h.cfg.JWTIssuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

func (h *Handler) requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok || claims.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": role + " access required"})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get("claims")
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

func (h *Handler) attendanceSummary(c *gin.Context) {
	claims, _ := claimsFrom(c)
	profile, err := h.accounts.ResolveProfile(c.Request.Context(), claims.UserID())
	if err != nil || profile.Student == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "student profile required"})
		return
	}
	sum, err := h.records.StudentSummary(c.Request.Context(), profile.Student.ID)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("student summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"roll_no":    profile.Student.RollNo,
		"total":      sum.Total,
		"present":    sum.Present,
		"absent":     sum.Absent,
		"percentage": sum.Percentage,
	})
}

func (h *Handler) classSummary(c *gin.Context) {
	claims, _ := claimsFrom(c)
	profile, err := h.accounts.ResolveProfile(c.Request.Context(), claims.UserID())
	if err != nil || profile.Teacher == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "teacher profile required"})
		return
	}
	kind := attendance.ParseRangeKind(c.Query("filter"))
	sum, err := h.records.ClassSummary(c.Request.Context(), profile.Teacher.ID, kind, time.Now().UTC())
	if err != nil {
		if _, ok := domain.IsValidation(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("class summary failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary unavailable"})
		return
	}
	c.JSON(http.StatusOK, sum)
}
