package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenfield-library/internal/models"
)

func TestMemoryStoreUserEmailUniqueness(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Create(&models.User{Name: "Sam", Email: "sam@lib.edu", Role: models.UserRoleStudent}))

	err := store.Create(&models.User{Name: "Other", Email: "SAM@lib.edu", Role: models.UserRoleAdmin})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	users, err := store.ListByRole(models.UserRoleStudent)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestMemoryStoreAssignsIDs(t *testing.T) {
	store := NewMemoryStore()

	user := models.User{Name: "Sam", Email: "sam@lib.edu", Role: models.UserRoleStudent}
	require.NoError(t, store.Create(&user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	book := models.Book{Title: "Compilers", Author: "Aho", Status: models.BookStatusAvailable}
	require.NoError(t, store.CreateBook(&book))
	assert.NotEqual(t, uuid.Nil, book.ID)
}

func TestMemoryStoreNotFoundSentinel(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetBookByID(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetRequestByUserAndBook(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreListsPreserveInsertionOrder(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.CreateBook(&models.Book{Title: "Zed", Status: models.BookStatusAvailable}))
	require.NoError(t, store.CreateBook(&models.Book{Title: "Alpha", Status: models.BookStatusAvailable}))

	books, err := store.ListBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Zed", books[0].Title)
	assert.Equal(t, "Alpha", books[1].Title)
}

func TestMemoryStoreStatusUpdatesMissingRecordsAreNoOps(t *testing.T) {
	store := NewMemoryStore()

	assert.NoError(t, store.UpdateBookStatus(uuid.New(), models.BookStatusUnavailable))
	assert.NoError(t, store.UpdateRequestStatus(uuid.New(), models.RequestStatusApproved))
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()

	book := models.Book{Title: "Compilers", Author: "Aho", Status: models.BookStatusAvailable}
	require.NoError(t, store.CreateBook(&book))

	got, err := store.GetBookByID(book.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := store.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Compilers", again.Title)
}
