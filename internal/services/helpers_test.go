package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"greenfield-library/internal/models"
	"greenfield-library/internal/notify"
	"greenfield-library/internal/repositories"
)

type sentMessage struct {
	Subject    string
	Recipients []string
	Body       string
}

// captureChannel records every message instead of delivering it. Setting
// fail makes every send error, to exercise the swallow-and-log path.
type captureChannel struct {
	mu   sync.Mutex
	fail bool
	sent []sentMessage
}

func (c *captureChannel) Send(subject string, recipients []string, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("channel down")
	}
	c.sent = append(c.sent, sentMessage{Subject: subject, Recipients: recipients, Body: body})
	return nil
}

func (c *captureChannel) bySubject(subject string) []sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMessage
	for _, m := range c.sent {
		if m.Subject == subject {
			out = append(out, m)
		}
	}
	return out
}

func (c *captureChannel) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

type testEnv struct {
	svc     LibraryService
	store   *repositories.MemoryStore
	channel *captureChannel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	channel := &captureChannel{}
	svc := NewLibraryService(store.Users(), store.Books(), store.Requests(), notify.NewSender(channel))
	return &testEnv{svc: svc, store: store, channel: channel}
}

func (e *testEnv) seedUser(t *testing.T, name, email string, role models.UserRole) models.User {
	t.Helper()
	user := models.User{ID: uuid.New(), Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, e.store.Create(&user))
	return user
}

func (e *testEnv) seedBook(t *testing.T, title, author, category string, status models.BookStatus) models.Book {
	t.Helper()
	book := models.Book{ID: uuid.New(), Title: title, Author: author, Semester: "3", Category: category, Status: status}
	require.NoError(t, e.store.CreateBook(&book))
	return book
}
