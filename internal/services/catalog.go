package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"greenfield-library/internal/models"
	"greenfield-library/internal/repositories"
)

// ─── Catalog ──────────────────────────────────────────────────────────────────

// AddBook uploads a new book, always starting out available, and notifies
// every admin.
func (s *libraryService) AddBook(title, author, semester, category string) (*models.Book, error) {
	book := &models.Book{
		Title:    title,
		Author:   author,
		Semester: semester,
		Category: category,
		Status:   models.BookStatusAvailable,
	}
	if err := s.books.Create(book); err != nil {
		log.Printf("[ERROR] AddBook: failed to create book %q: %v", title, err)
		return nil, err
	}
	log.Printf("[INFO] AddBook: created book %q by %s (id=%s)", title, author, book.ID)

	if admins := s.adminEmails(); len(admins) > 0 {
		s.notifier.Send(subjectNewBook, admins,
			fmt.Sprintf("A new book has been added to the library.\n\nTitle: %s\nAuthor: %s\nSemester: %s\nCategory: %s", title, author, semester, category))
	}
	return book, nil
}

// ListBooks returns the catalog narrowed by filter. Search matches title or
// author case-insensitively. Student listings sort available books first,
// then by title; admin listings keep storage order.
func (s *libraryService) ListBooks(filter BookFilter) ([]models.Book, error) {
	var books []models.Book
	var err error
	if filter.Category != "" {
		books, err = s.books.ListByCategory(filter.Category)
	} else {
		books, err = s.books.List()
	}
	if err != nil {
		return nil, err
	}

	if q := strings.ToLower(strings.TrimSpace(filter.Search)); q != "" {
		matched := books[:0:0]
		for _, b := range books {
			if strings.Contains(strings.ToLower(b.Title), q) ||
				strings.Contains(strings.ToLower(b.Author), q) {
				matched = append(matched, b)
			}
		}
		books = matched
	}

	if filter.StudentView {
		sort.SliceStable(books, func(i, j int) bool {
			ai := books[i].Status == models.BookStatusAvailable
			aj := books[j].Status == models.BookStatusAvailable
			if ai != aj {
				return ai
			}
			return books[i].Title < books[j].Title
		})
	}
	return books, nil
}

// Categories returns the distinct sorted categories present in the catalog.
// The student view only counts categories with at least one available book.
func (s *libraryService) Categories(studentView bool) ([]string, error) {
	books, err := s.books.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, b := range books {
		if b.Category == "" {
			continue
		}
		if studentView && b.Status != models.BookStatusAvailable {
			continue
		}
		seen[b.Category] = struct{}{}
	}
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, nil
}

// ToggleBookStatus flips a book between available and unavailable. A missing
// book is a no-op.
func (s *libraryService) ToggleBookStatus(bookID uuid.UUID) error {
	book, err := s.books.GetByID(bookID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[WARN] ToggleBookStatus: book %s not found, skipping", bookID)
			return nil
		}
		return err
	}
	next := models.BookStatusUnavailable
	if book.Status == models.BookStatusUnavailable {
		next = models.BookStatusAvailable
	}
	if err := s.books.UpdateStatus(bookID, next); err != nil {
		log.Printf("[ERROR] ToggleBookStatus: failed to update book %s: %v", bookID, err)
		return err
	}
	log.Printf("[INFO] ToggleBookStatus: book %s is now %s", bookID, next)
	return nil
}

// DashboardMetrics aggregates the counters on the admin dashboard.
func (s *libraryService) DashboardMetrics() (*Metrics, error) {
	books, err := s.books.List()
	if err != nil {
		return nil, err
	}
	reqs, err := s.requests.List()
	if err != nil {
		return nil, err
	}

	approved := 0
	lent := make(map[uuid.UUID]struct{})
	for _, req := range reqs {
		if req.Status == models.RequestStatusApproved {
			approved++
			lent[req.BookID] = struct{}{}
		}
	}
	return &Metrics{
		TotalBooks:       len(books),
		ApprovedRequests: approved,
		BooksLent:        len(lent),
		TotalRequests:    len(reqs),
	}, nil
}

// ApprovedBooks returns the books a user's approved requests point at,
// sorted by title. Requests whose book has vanished are skipped.
func (s *libraryService) ApprovedBooks(userID uuid.UUID) ([]models.Book, error) {
	reqs, err := s.requests.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	var books []models.Book
	for _, req := range reqs {
		if req.Status != models.RequestStatusApproved {
			continue
		}
		book, err := s.books.GetByID(req.BookID)
		if err != nil {
			continue
		}
		books = append(books, *book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

// ─── Student Management ───────────────────────────────────────────────────────

// ListStudents returns every student with request counters, filtered by a
// case-insensitive substring on name or email, sorted by name.
func (s *libraryService) ListStudents(search string) ([]StudentSummary, error) {
	students, err := s.users.ListByRole(models.UserRoleStudent)
	if err != nil {
		return nil, err
	}
	reqs, err := s.requests.List()
	if err != nil {
		return nil, err
	}

	byUser := make(map[uuid.UUID][]models.Request)
	for _, req := range reqs {
		byUser[req.UserID] = append(byUser[req.UserID], req)
	}

	q := strings.ToLower(strings.TrimSpace(search))
	summaries := make([]StudentSummary, 0, len(students))
	for _, st := range students {
		if q != "" &&
			!strings.Contains(strings.ToLower(st.Name), q) &&
			!strings.Contains(strings.ToLower(st.Email), q) {
			continue
		}
		summary := StudentSummary{ID: st.ID, Name: st.Name, Email: st.Email}
		for _, req := range byUser[st.ID] {
			summary.TotalRequests++
			switch req.Status {
			case models.RequestStatusApproved:
				summary.Approved++
			case models.RequestStatusPending:
				summary.Pending++
			}
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

// StudentDetail returns one student's profile with their requests joined to
// book details, newest first. Requests whose book has vanished are skipped,
// matching the listing behavior.
func (s *libraryService) StudentDetail(studentID uuid.UUID) (*StudentReport, error) {
	user, err := s.users.GetByID(studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if user.Role != models.UserRoleStudent {
		return nil, ErrStudentNotFound
	}

	reqs, err := s.requests.ListByUser(studentID)
	if err != nil {
		return nil, err
	}

	report := &StudentReport{Student: *user, Requests: []StudentRequest{}}
	for _, req := range reqs {
		book, err := s.books.GetByID(req.BookID)
		if err != nil {
			continue
		}
		report.Requests = append(report.Requests, StudentRequest{
			ID:        req.ID,
			Status:    req.Status,
			Title:     book.Title,
			Author:    book.Author,
			Category:  book.Category,
			CreatedAt: req.CreatedAt,
		})
	}
	sort.Slice(report.Requests, func(i, j int) bool {
		return report.Requests[i].CreatedAt.After(report.Requests[j].CreatedAt)
	})
	for _, req := range report.Requests {
		report.TotalRequests++
		switch req.Status {
		case models.RequestStatusApproved:
			report.Approved++
		case models.RequestStatusPending:
			report.Pending++
		}
	}
	return report, nil
}
