package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"greenfield-library/internal/models"
	"greenfield-library/internal/notify"
	"greenfield-library/internal/repositories"
)

// ─── Sentinel Errors ──────────────────────────────────────────────────────────

var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials is returned when login email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrStudentNotFound is returned when a student detail lookup misses.
	ErrStudentNotFound = errors.New("student not found")
)

// ─── Notification Subjects ────────────────────────────────────────────────────

const (
	subjectWelcome         = "Welcome to Greenfield Library"
	subjectNewRegistration = "New User Registration"
	subjectLogin           = "Student Login"
	subjectNewBook         = "New Book Added"
	subjectNewRequest      = "New Book Request"
	subjectApproved        = "Book Request Approved"
)

// unknownField substitutes for a vanished User or Book when enriching
// request listings and notification bodies.
const unknownField = "Unknown"

// ─── View Types ───────────────────────────────────────────────────────────────

// BookFilter narrows a catalog listing. StudentView additionally sorts
// available books first, then by title.
type BookFilter struct {
	Category    string
	Search      string
	StudentView bool
}

// RequestDetail is a request joined with requester and book info for the
// admin review screen.
type RequestDetail struct {
	ID     uuid.UUID            `json:"id"`
	Name   string               `json:"name"`
	Email  string               `json:"email"`
	Title  string               `json:"title"`
	Status models.RequestStatus `json:"status"`
}

// StudentSummary is one row of the admin student listing.
type StudentSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	TotalRequests int       `json:"total_requests"`
	Approved      int       `json:"approved"`
	Pending       int       `json:"pending"`
}

// StudentRequest is one of a student's requests joined with its book.
type StudentRequest struct {
	ID        uuid.UUID            `json:"id"`
	Status    models.RequestStatus `json:"status"`
	Title     string               `json:"title"`
	Author    string               `json:"author"`
	Category  string               `json:"category"`
	CreatedAt time.Time            `json:"created_at"`
}

// StudentReport is the admin drill-down view of a single student.
type StudentReport struct {
	Student       models.User      `json:"student"`
	Requests      []StudentRequest `json:"requests"`
	TotalRequests int              `json:"total_requests"`
	Approved      int              `json:"approved"`
	Pending       int              `json:"pending"`
}

// Metrics feeds the admin dashboard.
type Metrics struct {
	TotalBooks       int `json:"total_books"`
	ApprovedRequests int `json:"books_approved"`
	BooksLent        int `json:"books_lended"`
	TotalRequests    int `json:"total_requests"`
}

// ─── Service Interface ────────────────────────────────────────────────────────

// LibraryService defines the application-level operations of the library system.
type LibraryService interface {
	Register(name, email, password string, role models.UserRole) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)

	AddBook(title, author, semester, category string) (*models.Book, error)
	ListBooks(filter BookFilter) ([]models.Book, error)
	Categories(studentView bool) ([]string, error)
	ToggleBookStatus(bookID uuid.UUID) error
	DashboardMetrics() (*Metrics, error)

	CreateRequest(userID, bookID uuid.UUID) error
	ApproveRequest(requestID uuid.UUID) error
	ListRequests() ([]RequestDetail, error)
	RequestStatusesForUser(userID uuid.UUID) (map[uuid.UUID]models.RequestStatus, error)
	ApprovedBooks(userID uuid.UUID) ([]models.Book, error)

	ListStudents(search string) ([]StudentSummary, error)
	StudentDetail(studentID uuid.UUID) (*StudentReport, error)
}

// ─── Implementation ───────────────────────────────────────────────────────────

type libraryService struct {
	users    repositories.UserRepository
	books    repositories.BookRepository
	requests repositories.RequestRepository
	notifier *notify.Sender
}

// NewLibraryService wires up all dependencies and returns a LibraryService.
func NewLibraryService(
	users repositories.UserRepository,
	books repositories.BookRepository,
	requests repositories.RequestRepository,
	notifier *notify.Sender,
) LibraryService {
	return &libraryService{
		users:    users,
		books:    books,
		requests: requests,
		notifier: notifier,
	}
}
