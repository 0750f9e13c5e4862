package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"greenfield-library/internal/auth"
	"greenfield-library/internal/models"
	"greenfield-library/internal/services"
)

type LibraryHandler struct {
	svc  services.LibraryService
	auth *auth.Manager
}

func RegisterRoutes(r *gin.Engine, svc services.LibraryService, mgr *auth.Manager) {
	h := &LibraryHandler{svc: svc, auth: mgr}

	r.GET("/", h.home)
	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	// Student endpoints
	r.GET("/student", mgr.Require(models.UserRoleStudent), h.studentDashboard)
	r.GET("/books", mgr.Require(models.UserRoleStudent), h.listBooks)
	r.POST("/request/:id", mgr.Require(models.UserRoleStudent), h.requestBook)
	r.GET("/my-books", mgr.Require(models.UserRoleStudent), h.myBooks)

	// Admin endpoints
	r.GET("/admin", mgr.Require(models.UserRoleAdmin), h.adminDashboard)
	r.GET("/admin-books", mgr.Require(models.UserRoleAdmin), h.adminBooks)
	r.POST("/upload", mgr.Require(models.UserRoleAdmin), h.uploadBook)
	r.POST("/toggle-status/:id", mgr.Require(models.UserRoleAdmin), h.toggleStatus)
	r.GET("/requests", mgr.Require(models.UserRoleAdmin), h.listRequests)
	r.POST("/approve/:id", mgr.Require(models.UserRoleAdmin), h.approveRequest)
	r.GET("/students", mgr.Require(models.UserRoleAdmin), h.listStudents)
	r.GET("/student/:id", mgr.Require(models.UserRoleAdmin), h.studentDetail)
}

func dashboardPath(role models.UserRole) string {
	if role == models.UserRoleAdmin {
		return "/admin"
	}
	return "/student"
}

func (h *LibraryHandler) home(c *gin.Context) {
	sess, err := h.auth.SessionFromRequest(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, dashboardPath(sess.Role))
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=admin student"`
}

func (h *LibraryHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.Register(req.Name, req.Email, req.Password, models.UserRole(req.Role))
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *LibraryHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(auth.SessionCookie, token, int(h.auth.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": dashboardPath(user.Role)})
}

func (h *LibraryHandler) logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *LibraryHandler) studentDashboard(c *gin.Context) {
	categories, err := h.svc.Categories(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *LibraryHandler) adminDashboard(c *gin.Context) {
	categories, err := h.svc.Categories(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics, err := h.svc.DashboardMetrics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "metrics": metrics})
}

func (h *LibraryHandler) listBooks(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)

	books, err := h.svc.ListBooks(services.BookFilter{
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		StudentView: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	categories, err := h.svc.Categories(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	statuses, err := h.svc.RequestStatusesForUser(sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"books":          books,
		"categories":     categories,
		"request_status": statuses,
	})
}

func (h *LibraryHandler) adminBooks(c *gin.Context) {
	books, err := h.svc.ListBooks(services.BookFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	categories, err := h.svc.Categories(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "categories": categories})
}

type uploadBookRequest struct {
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author" binding:"required"`
	Semester string `json:"semester"`
	Category string `json:"category" binding:"required"`
}

func (h *LibraryHandler) uploadBook(c *gin.Context) {
	var req uploadBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	book, err := h.svc.AddBook(req.Title, req.Author, req.Semester, req.Category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *LibraryHandler) toggleStatus(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}

	if err := h.svc.ToggleBookStatus(bookID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin-books")
}

// requestBook always redirects back to the catalog, whether a request was
// created or an existing one made the call a no-op.
func (h *LibraryHandler) requestBook(c *gin.Context) {
	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	sess, _ := auth.CurrentSession(c)

	if err := h.svc.CreateRequest(sess.UserID, bookID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/books")
}

func (h *LibraryHandler) listRequests(c *gin.Context) {
	details, err := h.svc.ListRequests()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, details)
}

func (h *LibraryHandler) approveRequest(c *gin.Context) {
	reqID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	if err := h.svc.ApproveRequest(reqID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/requests")
}

func (h *LibraryHandler) myBooks(c *gin.Context) {
	sess, _ := auth.CurrentSession(c)

	books, err := h.svc.ApprovedBooks(sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *LibraryHandler) listStudents(c *gin.Context) {
	students, err := h.svc.ListStudents(c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *LibraryHandler) studentDetail(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid student id"})
		return
	}

	report, err := h.svc.StudentDetail(studentID)
	if err != nil {
		if errors.Is(err, services.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
