// Package web serves the server-rendered HTML app: registration, login, the
// role dashboards, attendance marking and viewing, and the leave workflow.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"attendease/internal/account"
	"attendease/internal/attendance"
	"attendease/internal/auth"
	"attendease/internal/domain"
	"attendease/internal/httpmiddleware"
	"attendease/internal/leave"
)

// Handler holds the services behind the HTML routes.
type Handler struct {
	sessions *auth.Sessions
	accounts *account.Service
	records  *attendance.Service
	leaves   *leave.Service
}

// NewHandler wires the HTML app against the shared services.
func NewHandler(sessions *auth.Sessions, accounts *account.Service, records *attendance.Service, leaves *leave.Service) *Handler {
	return &Handler{sessions: sessions, accounts: accounts, records: records, leaves: leaves}
}

// Register mounts every HTML route.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.home)
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
	r.GET("/register/student", h.registerStudentForm)
	r.POST("/register/student", h.registerStudent)
	r.GET("/register/teacher", h.registerTeacherForm)
	r.POST("/register/teacher", h.registerTeacher)

	authed := r.Group("", h.RequireAuth())
	authed.GET("/dashboard", h.dashboard)

	student := authed.Group("", h.RequireStudent())
	student.GET("/student/dashboard", h.studentDashboard)
	student.GET("/view-attendance", h.viewAttendance)
	student.GET("/apply-leave", h.applyLeaveForm)
	student.POST("/apply-leave", h.applyLeave)
	student.GET("/leave-info", h.leaveInfo)

	teacher := authed.Group("", h.RequireTeacher())
	teacher.GET("/teacher/dashboard", h.teacherDashboard)
	teacher.GET("/mark-attendance", h.markAttendanceForm)
	teacher.POST("/mark-attendance", h.markAttendance)
	teacher.GET("/leave-requests", h.leaveRequests)
	teacher.GET("/approve-leave/:id", h.approveLeaveForm)
	teacher.POST("/approve-leave/:id", h.approveLeave)
}

// render wraps c.HTML, folding in flash messages and session state.
func (h *Handler) render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = h.sessions.Flashes(c.Writer, c.Request)
	data["SignedIn"] = h.sessions.UserID(c.Request) != 0
	c.HTML(status, tmpl, data)
}

func (h *Handler) home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", nil)
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", nil)
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	u, err := h.accounts.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		h.render(c, http.StatusOK, "login.html", gin.H{
			"Error":    "Invalid username or password.",
			"Username": username,
		})
		return
	}
	if err := h.sessions.SignIn(c.Writer, c.Request, u.ID); err != nil {
		httpmiddleware.Logger(c).WithError(err).Error("session save failed")
		h.render(c, http.StatusOK, "login.html", gin.H{"Error": "Could not start a session, please try again."})
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) logout(c *gin.Context) {
	_ = h.sessions.SignOut(c.Writer, c.Request)
	h.sessions.Flash(c.Writer, c.Request, "You have been logged out.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) registerStudentForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register_student.html", nil)
}

func (h *Handler) registerStudent(c *gin.Context) {
	in := account.StudentInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		RollNo:   c.PostForm("roll_no"),
		Name:     c.PostForm("name"),
		Subject:  c.PostForm("subject"),
	}
	u, err := h.accounts.RegisterStudent(c.Request.Context(), in)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			h.render(c, http.StatusOK, "register_student.html", gin.H{"Error": ve.Message, "Form": in})
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("student registration failed")
		h.render(c, http.StatusOK, "register_student.html", gin.H{"Error": "Registration failed, please try again.", "Form": in})
		return
	}
	if err := h.sessions.SignIn(c.Writer, c.Request, u.ID); err != nil {
		h.sessions.Flash(c.Writer, c.Request, "Registration successful. Please log in.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.sessions.Flash(c.Writer, c.Request, "Welcome to AttendEase, "+in.Name+"!")
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) registerTeacherForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register_teacher.html", nil)
}

func (h *Handler) registerTeacher(c *gin.Context) {
	in := account.TeacherInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		Name:     c.PostForm("name"),
		Subject:  c.PostForm("subject"),
	}
	u, err := h.accounts.RegisterTeacher(c.Request.Context(), in)
	if err != nil {
		if ve, ok := domain.IsValidation(err); ok {
			h.render(c, http.StatusOK, "register_teacher.html", gin.H{"Error": ve.Message, "Form": in})
			return
		}
		httpmiddleware.Logger(c).WithError(err).Error("teacher registration failed")
		h.render(c, http.StatusOK, "register_teacher.html", gin.H{"Error": "Registration failed, please try again.", "Form": in})
		return
	}
	if err := h.sessions.SignIn(c.Writer, c.Request, u.ID); err != nil {
		h.sessions.Flash(c.Writer, c.Request, "Registration successful. Please log in.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	h.sessions.Flash(c.Writer, c.Request, "Welcome to AttendEase, "+in.Name+"!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// dashboard routes the signed-in user to the page for their role.
func (h *Handler) dashboard(c *gin.Context) {
	profile, ok := h.resolveProfile(c)
	if !ok {
		return
	}
	if profile.Student != nil {
		c.Redirect(http.StatusFound, "/student/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/teacher/dashboard")
}
