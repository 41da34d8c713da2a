package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendease/internal/account"
	"attendease/internal/domain"
	"attendease/internal/httpmiddleware"
)

const (
	ctxUserID  = "user_id"
	ctxProfile = "profile"
)

// RequireAuth redirects anonymous visitors to the login page.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := h.sessions.UserID(c.Request)
		if userID == 0 {
			h.sessions.Flash(c.Writer, c.Request, "Please log in first.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// resolveProfile loads the signed-in user's profile into the context. Users
// with neither profile (admin accounts) are flashed back to the home page.
func (h *Handler) resolveProfile(c *gin.Context) (account.Profile, bool) {
	if v, ok := c.Get(ctxProfile); ok {
		if p, ok := v.(account.Profile); ok {
			return p, true
		}
	}
	userID := c.GetInt64(ctxUserID)
	profile, err := h.accounts.ResolveProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			h.sessions.Flash(c.Writer, c.Request, "No student or teacher profile is linked to this account.")
		} else {
			httpmiddleware.Logger(c).WithError(err).Error("profile lookup failed")
			h.sessions.Flash(c.Writer, c.Request, "Something went wrong, please try again.")
		}
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return account.Profile{}, false
	}
	c.Set(ctxProfile, profile)
	return profile, true
}

// RequireStudent lets only student accounts through.
func (h *Handler) RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := h.resolveProfile(c)
		if !ok {
			return
		}
		if profile.Student == nil {
			h.sessions.Flash(c.Writer, c.Request, "That page is for students.")
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTeacher lets only teacher accounts through.
func (h *Handler) RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := h.resolveProfile(c)
		if !ok {
			return
		}
		if profile.Teacher == nil {
			h.sessions.Flash(c.Writer, c.Request, "That page is for teachers.")
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
