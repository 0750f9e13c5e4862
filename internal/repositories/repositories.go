package repositories

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"greenfield-library/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist, regardless
// of which backend is in use.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail is returned by UserRepository.Create when the email is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ListByRole(role models.UserRole) ([]models.User, error)
	AdminEmails() ([]string, error)
}

type BookRepository interface {
	Create(book *models.Book) error
	GetByID(id uuid.UUID) (*models.Book, error)
	List() ([]models.Book, error)
	ListByCategory(category string) ([]models.Book, error)
	UpdateStatus(id uuid.UUID, status models.BookStatus) error
}

type RequestRepository interface {
	Create(req *models.Request) error
	GetByID(id uuid.UUID) (*models.Request, error)
	GetByUserAndBook(userID, bookID uuid.UUID) (*models.Request, error)
	List() ([]models.Request, error)
	ListByUser(userID uuid.UUID) ([]models.Request, error)
	UpdateStatus(id uuid.UUID, status models.RequestStatus) error
}

// concrete gorm-backed implementations

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) ListByRole(role models.UserRole) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) AdminEmails() ([]string, error) {
	var emails []string
	if err := r.db.Model(&models.User{}).
		Where("role = ?", models.UserRoleAdmin).
		Pluck("email", &emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

func (r *bookRepository) GetByID(id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

func (r *bookRepository) List() ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) ListByCategory(category string) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Where("category = ?", category).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) UpdateStatus(id uuid.UUID, status models.BookStatus) error {
	return r.db.Model(&models.Book{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(req *models.Request) error {
	return r.db.Create(req).Error
}

func (r *requestRepository) GetByID(id uuid.UUID) (*models.Request, error) {
	var req models.Request
	if err := r.db.First(&req, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *requestRepository) GetByUserAndBook(userID, bookID uuid.UUID) (*models.Request, error) {
	var req models.Request
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&req).Error
	if err != nil {
		return nil, translate(err)
	}
	return &req, nil
}

func (r *requestRepository) List() ([]models.Request, error) {
	var reqs []models.Request
	if err := r.db.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepository) ListByUser(userID uuid.UUID) ([]models.Request, error) {
	var reqs []models.Request
	if err := r.db.Where("user_id = ?", userID).Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requestRepository) UpdateStatus(id uuid.UUID, status models.RequestStatus) error {
	return r.db.Model(&models.Request{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// translate maps gorm's not-found error onto the backend-neutral sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// isUniqueViolation checks whether a PostgreSQL unique-constraint error occurred.
// PostgreSQL error code 23505 = unique_violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
