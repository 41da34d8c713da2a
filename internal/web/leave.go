package web

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"attendease/internal/domain"
	"attendease/internal/httpmiddleware"
)

func (h *Handler) applyLeaveForm(c *gin.Context) {
	h.render(c, http.StatusOK, "apply_leave.html", nil)
}

func (h *Handler) applyLeave(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	st := profile.Student

	dateStr := c.PostForm("date")
	reason := c.PostForm("reason")

	if _, err := h.leaves.Apply(c.Request.Context(), st.ID, dateStr, reason); err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			h.render(c, http.StatusOK, "apply_leave.html", gin.H{
				"Error":  ve.Message,
				"Date":   dateStr,
				"Reason": reason,
			})
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("leave apply failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not submit your request, please try again.")
		c.Redirect(http.StatusFound, "/apply-leave")
		return
	}
	h.sessions.Flash(c.Writer, c.Request, "Leave request submitted.")
	c.Redirect(http.StatusFound, "/student/dashboard")
}

func (h *Handler) leaveInfo(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	st := profile.Student

	breakdown, err := h.leaves.ForStudent(c.Request.Context(), st.ID)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("leave lookup failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load your leave requests.")
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}
	h.render(c, http.StatusOK, "leave_info.html", gin.H{
		"Student":   st,
		"Breakdown": breakdown,
	})
}

func (h *Handler) leaveRequests(c *gin.Context) {
	requests, err := h.leaves.All(c.Request.Context())
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("leave list failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load leave requests.")
		c.Redirect(http.StatusFound, "/teacher/dashboard")
		return
	}
	h.render(c, http.StatusOK, "leave_requests.html", gin.H{"Requests": requests})
}

func (h *Handler) approveLeaveForm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/leave-requests")
		return
	}
	l, err := h.leaves.Request(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.String(http.StatusNotFound, "Leave request not found.")
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("leave lookup failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load the leave request.")
		c.Redirect(http.StatusFound, "/leave-requests")
		return
	}
	h.render(c, http.StatusOK, "approve_leave.html", gin.H{"Leave": l})
}

func (h *Handler) approveLeave(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	t := profile.Teacher

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/leave-requests")
		return
	}
	decision := c.PostForm("status")
	note := c.PostForm("approval")

	if _, err := h.leaves.Decide(c.Request.Context(), t.ID, id, decision, note); err != nil {
		if domain.IsNotFound(err) {
			c.String(http.StatusNotFound, "Leave request not found.")
			return
		}
		if ve, ok := domain.IsValidation(err); ok {
			h.sessions.Flash(c.Writer, c.Request, ve.Message)
		} else {
			httpmiddleware.Logger(c).WithError(err).Error("leave decision failed")
			h.sessions.Flash(c.Writer, c.Request, "Could not save the decision, please try again.")
		}
		c.Redirect(http.StatusFound, "/leave-requests")
		return
	}
	h.sessions.Flash(c.Writer, c.Request, "Leave request "+decision+".")
	c.Redirect(http.StatusFound, "/leave-requests")
}
