package services

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"greenfield-library/internal/models"
	"greenfield-library/internal/repositories"
)

// Register creates a new account with a bcrypt-hashed password. A duplicate
// email is rejected without touching storage. On success a welcome mail goes
// to the new user and a registration notice to every admin.
func (s *libraryService) Register(name, email, password string, role models.UserRole) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			log.Printf("[WARN] Register: email %s already registered", email)
			return nil, ErrEmailTaken
		}
		log.Printf("[ERROR] Register: failed to create user %s: %v", email, err)
		return nil, err
	}
	log.Printf("[INFO] Register: created %s %q (id=%s)", role, email, user.ID)

	s.notifier.Send(subjectWelcome, []string{email},
		fmt.Sprintf("Hello %s,\n\nYour account has been created successfully.\n\nRole: %s\nEmail: %s\n\nYou can now log in and start using the library system.", name, role, email))

	if admins := s.adminEmails(); len(admins) > 0 {
		s.notifier.Send(subjectNewRegistration, admins,
			fmt.Sprintf("A new %s has registered.\n\nName: %s\nEmail: %s", role, name, email))
	}
	return user, nil
}

// Authenticate checks email/password and returns the matching user. Student
// logins additionally notify the admin list.
func (s *libraryService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Printf("[WARN] Authenticate: password mismatch for %s", email)
		return nil, ErrInvalidCredentials
	}
	log.Printf("[INFO] Authenticate: %s logged in (role=%s)", email, user.Role)

	if user.Role == models.UserRoleStudent {
		if admins := s.adminEmails(); len(admins) > 0 {
			s.notifier.Send(subjectLogin, admins,
				fmt.Sprintf("Student login:\n\nName: %s\nEmail: %s", user.Name, user.Email))
		}
	}
	return user, nil
}

// adminEmails returns every admin recipient. Lookup failures are logged and
// yield an empty list so a broken admin query never blocks the caller's action.
func (s *libraryService) adminEmails() []string {
	emails, err := s.users.AdminEmails()
	if err != nil {
		log.Printf("[ERROR] adminEmails: %v", err)
		return nil
	}
	return emails
}
