package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"attendease/internal/attendance"
	"attendease/internal/domain"
	"attendease/internal/httpmiddleware"
)

const dateLayout = "2006-01-02"

func (h *Handler) studentDashboard(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	st := profile.Student

	sum, err := h.records.StudentSummary(c.Request.Context(), st.ID)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("student summary failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load your attendance summary.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	recent, err := h.records.History(c.Request.Context(), st.ID, 10)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("attendance history failed")
	}
	leaves, err := h.leaves.ForStudent(c.Request.Context(), st.ID)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("leave lookup failed")
	}
	h.render(c, http.StatusOK, "student_dashboard.html", gin.H{
		"Student": st,
		"Summary": sum,
		"Recent":  recent,
		"Leaves":  leaves,
	})
}

func (h *Handler) teacherDashboard(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	t := profile.Teacher

	kind := attendance.ParseRangeKind(c.Query("filter"))
	sum, err := h.records.ClassSummary(c.Request.Context(), t.ID, kind, time.Now().UTC())
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("class summary failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load the class summary.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "teacher_dashboard.html", gin.H{
		"Teacher": t,
		"Summary": sum,
		"Filter":  string(kind),
	})
}

func (h *Handler) markAttendanceForm(c *gin.Context) {
	students, err := h.records.Students(c.Request.Context())
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("student list failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load the student list.")
		c.Redirect(http.StatusFound, "/teacher/dashboard")
		return
	}
	h.render(c, http.StatusOK, "mark_attendance.html", gin.H{
		"Students": students,
		"Today":    time.Now().UTC().Format(dateLayout),
	})
}

func (h *Handler) markAttendance(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	t := profile.Teacher

	if err := c.Request.ParseForm(); err != nil {
		h.sessions.Flash(c.Writer, c.Request, "Invalid form submission.")
		c.Redirect(http.StatusFound, "/mark-attendance")
		return
	}
	dateStr := c.PostForm("date")
	statusByStudent := parseStatusByStudent(c.Request.PostForm)

	date, err := h.records.Mark(c.Request.Context(), t.ID, dateStr, statusByStudent)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			students, lerr := h.records.Students(c.Request.Context())
			if lerr != nil {
				httpmiddleware.Logger(c).WithError(lerr).Error("student list failed")
			}
			h.render(c, http.StatusOK, "mark_attendance.html", gin.H{
				"Error":    ve.Message,
				"Students": students,
				"Today":    time.Now().UTC().Format(dateLayout),
			})
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("attendance save failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not save attendance, please try again.")
		c.Redirect(http.StatusFound, "/mark-attendance")
		return
	}
	h.sessions.Flash(c.Writer, c.Request, "Attendance saved for "+date.Format("Jan 02, 2006")+".")
	c.Redirect(http.StatusFound, "/teacher/dashboard")
}

// viewAttendance shows a student their full history and overall stats.
func (h *Handler) viewAttendance(c *gin.Context) {
	profile, _ := h.resolveProfile(c)
	st := profile.Student

	sum, err := h.records.StudentSummary(c.Request.Context(), st.ID)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("student summary failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load your attendance.")
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}
	records, err := h.records.History(c.Request.Context(), st.ID, 0)
	if err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("attendance history failed")
		h.sessions.Flash(c.Writer, c.Request, "Could not load your attendance.")
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}
	h.render(c, http.StatusOK, "view_attendance.html", gin.H{
		"Student": st,
		"Summary": sum,
		"Records": records,
	})
}

// parseStatusByStudent collects student_<id> fields from a posted form. Keys
// that do not parse as ids are ignored.
func parseStatusByStudent(form url.Values) map[int64]string {
	out := make(map[int64]string)
	for key, vals := range form {
		if !strings.HasPrefix(key, "student_") || len(vals) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "student_"), 10, 64)
		if err != nil {
			continue
		}
		out[id] = vals[0]
	}
	return out
}
