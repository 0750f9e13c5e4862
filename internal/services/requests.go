package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"greenfield-library/internal/models"
	"greenfield-library/internal/repositories"
)

// ─── Request Lifecycle ────────────────────────────────────────────────────────

// CreateRequest records a student's claim on a book. If a request for the
// same (user, book) pair already exists the call is a no-op, so repeated
// submissions are idempotent. The caller is not told whether a request was
// created.
//
// The dedup check-then-insert is not atomic: two truly concurrent submissions
// for the same pair can both pass the check. That race is accepted; the
// approval flow tolerates the resulting extra row.
//
// If the referenced book exists, every admin is notified with requester name,
// email and book title. The notification is fired only after the insert has
// committed and its failure never rolls the request back.
func (s *libraryService) CreateRequest(userID, bookID uuid.UUID) error {
	existing, err := s.requests.GetByUserAndBook(userID, bookID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	if existing != nil {
		log.Printf("[INFO] CreateRequest: user %s already requested book %s, skipping", userID, bookID)
		return nil
	}

	req := &models.Request{
		UserID:    userID,
		BookID:    bookID,
		Status:    models.RequestStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.requests.Create(req); err != nil {
		log.Printf("[ERROR] CreateRequest: failed to create request for user %s / book %s: %v", userID, bookID, err)
		return err
	}
	log.Printf("[INFO] CreateRequest: request created (id=%s) for user %s / book %s", req.ID, userID, bookID)

	book, err := s.books.GetByID(bookID)
	if err != nil {
		// A vanished book only suppresses the notification.
		log.Printf("[WARN] CreateRequest: book %s not found, skipping admin notification: %v", bookID, err)
		return nil
	}

	name, email := unknownField, unknownField
	if user, err := s.users.GetByID(userID); err == nil {
		name, email = user.Name, user.Email
	} else {
		log.Printf("[WARN] CreateRequest: requester %s not found: %v", userID, err)
	}

	if admins := s.adminEmails(); len(admins) > 0 {
		s.notifier.Send(subjectNewRequest, admins,
			fmt.Sprintf("Student %s (%s) has requested the book: %s\n\nPlease review and approve the request.", name, email, book.Title))
	}
	return nil
}

// ApproveRequest marks a request approved and notifies the requesting
// student. A missing request is a no-op; re-approving an already approved
// request is idempotent. A vanished user or book is tolerated, rendering as
// "Unknown" and suppressing the mail when no recipient address remains.
func (s *libraryService) ApproveRequest(requestID uuid.UUID) error {
	req, err := s.requests.GetByID(requestID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			log.Printf("[WARN] ApproveRequest: request %s not found, skipping", requestID)
			return nil
		}
		return err
	}

	title := unknownField
	if book, err := s.books.GetByID(req.BookID); err == nil {
		title = book.Title
	}

	if err := s.requests.UpdateStatus(req.ID, models.RequestStatusApproved); err != nil {
		log.Printf("[ERROR] ApproveRequest: failed to approve request %s: %v", requestID, err)
		return err
	}
	log.Printf("[INFO] ApproveRequest: request %s approved (book=%q)", requestID, title)

	user, err := s.users.GetByID(req.UserID)
	if err != nil {
		log.Printf("[WARN] ApproveRequest: requester %s not found, skipping notification", req.UserID)
		return nil
	}
	s.notifier.Send(subjectApproved, []string{user.Email},
		fmt.Sprintf("Hello %s,\n\nYour request for the book '%s' has been approved.\n\nHappy reading!", user.Name, title))
	return nil
}

// ListRequests returns every request enriched with requester and book info
// for the admin review screen, in storage order.
func (s *libraryService) ListRequests() ([]RequestDetail, error) {
	reqs, err := s.requests.List()
	if err != nil {
		return nil, err
	}
	details := make([]RequestDetail, 0, len(reqs))
	for _, req := range reqs {
		detail := RequestDetail{
			ID:     req.ID,
			Name:   unknownField,
			Email:  unknownField,
			Title:  unknownField,
			Status: req.Status,
		}
		if user, err := s.users.GetByID(req.UserID); err == nil {
			detail.Name, detail.Email = user.Name, user.Email
		}
		if book, err := s.books.GetByID(req.BookID); err == nil {
			detail.Title = book.Title
		}
		details = append(details, detail)
	}
	return details, nil
}

// RequestStatusesForUser maps book ID to request status for every request the
// user has made. The catalog uses it to annotate listings.
func (s *libraryService) RequestStatusesForUser(userID uuid.UUID) (map[uuid.UUID]models.RequestStatus, error) {
	reqs, err := s.requests.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	statuses := make(map[uuid.UUID]models.RequestStatus, len(reqs))
	for _, req := range reqs {
		statuses[req.BookID] = req.Status
	}
	return statuses, nil
}
