package repositories

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"greenfield-library/internal/models"
)

// MemoryStore is a mutex-guarded in-memory backend implementing all three
// repository interfaces. Records are kept in insertion order so listings
// behave like the SQL backend's storage order. It backs the unit tests and
// the STORE_BACKEND=memory dev mode.
//
// Each operation is atomic on its own; there is no cross-operation locking,
// so a concurrent check-then-insert can still race just like on SQL.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []models.User
	books    []models.Book
	requests []models.Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ─── Users ────────────────────────────────────────────────────────────────────

func (s *MemoryStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryStore) GetByID(id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListByRole(role models.UserRole) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.User
	for i := range s.users {
		if s.users[i].Role == role {
			out = append(out, s.users[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) AdminEmails() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for i := range s.users {
		if s.users[i].Role == models.UserRoleAdmin {
			out = append(out, s.users[i].Email)
		}
	}
	return out, nil
}

// ─── Books ────────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateBook(book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	s.books = append(s.books, *book)
	return nil
}

func (s *MemoryStore) GetBookByID(id uuid.UUID) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.books {
		if s.books[i].ID == id {
			b := s.books[i]
			return &b, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListBooks() ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

func (s *MemoryStore) ListBooksByCategory(category string) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Book
	for i := range s.books {
		if s.books[i].Category == category {
			out = append(out, s.books[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateBookStatus(id uuid.UUID, status models.BookStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.books {
		if s.books[i].ID == id {
			s.books[i].Status = status
			return nil
		}
	}
	return nil
}

// ─── Requests ─────────────────────────────────────────────────────────────────

func (s *MemoryStore) CreateRequest(req *models.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	s.requests = append(s.requests, *req)
	return nil
}

func (s *MemoryStore) GetRequestByID(id uuid.UUID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			r := s.requests[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetRequestByUserAndBook(userID, bookID uuid.UUID) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.requests {
		if s.requests[i].UserID == userID && s.requests[i].BookID == bookID {
			r := s.requests[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRequests() ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Request, len(s.requests))
	copy(out, s.requests)
	return out, nil
}

func (s *MemoryStore) ListRequestsByUser(userID uuid.UUID) ([]models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Request
	for i := range s.requests {
		if s.requests[i].UserID == userID {
			out = append(out, s.requests[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateRequestStatus(id uuid.UUID, status models.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.requests {
		if s.requests[i].ID == id {
			s.requests[i].Status = status
			return nil
		}
	}
	return nil
}

// Adapter views so a single MemoryStore can be handed out as the three
// repository interfaces without method-name clashes.

func (s *MemoryStore) Users() UserRepository { return s }

type memoryBooks struct{ *MemoryStore }

func (s *MemoryStore) Books() BookRepository { return memoryBooks{s} }

func (m memoryBooks) Create(book *models.Book) error { return m.CreateBook(book) }
func (m memoryBooks) GetByID(id uuid.UUID) (*models.Book, error) { return m.GetBookByID(id) }
func (m memoryBooks) List() ([]models.Book, error) { return m.ListBooks() }
func (m memoryBooks) ListByCategory(category string) ([]models.Book, error) {
	return m.ListBooksByCategory(category)
}
func (m memoryBooks) UpdateStatus(id uuid.UUID, status models.BookStatus) error {
	return m.UpdateBookStatus(id, status)
}

type memoryRequests struct{ *MemoryStore }

func (s *MemoryStore) Requests() RequestRepository { return memoryRequests{s} }

func (m memoryRequests) Create(req *models.Request) error { return m.CreateRequest(req) }
func (m memoryRequests) GetByID(id uuid.UUID) (*models.Request, error) {
	return m.GetRequestByID(id)
}
func (m memoryRequests) GetByUserAndBook(userID, bookID uuid.UUID) (*models.Request, error) {
	return m.GetRequestByUserAndBook(userID, bookID)
}
func (m memoryRequests) List() ([]models.Request, error) { return m.ListRequests() }
func (m memoryRequests) ListByUser(userID uuid.UUID) ([]models.Request, error) {
	return m.ListRequestsByUser(userID)
}
func (m memoryRequests) UpdateStatus(id uuid.UUID, status models.RequestStatus) error {
	return m.UpdateRequestStatus(id, status)
}
