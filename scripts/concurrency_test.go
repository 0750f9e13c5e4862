//go:build ignore
// +build ignore

// Manual concurrency probe for the book-request endpoint.
//
// Usage:
//
//	STUDENT_EMAIL=sam@lib.edu STUDENT_PASSWORD=pw BOOK_ID=<uuid> \
//	  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Logs in as the student and grabs the session cookie.
//  2. Fires N goroutines (REQUESTS env, default 10) all submitting the same
//     book request simultaneously.
//  3. Prints the response tally.
//
// The create-request flow deduplicates with a check-then-insert that is not
// atomic, so truly simultaneous submissions can slip past the check and leave
// more than one request row for the same (user, book) pair. This script makes
// that window observable; inspect GET /requests as an admin afterwards to
// count the rows that actually landed.
//
// Prerequisites:
//   - Server must be running.
//   - The student account and the book must exist.

package main

import (
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	email := os.Getenv("STUDENT_EMAIL")
	password := os.Getenv("STUDENT_PASSWORD")
	bookID := os.Getenv("BOOK_ID")
	if email == "" || password == "" || bookID == "" {
		log.Fatal("STUDENT_EMAIL, STUDENT_PASSWORD and BOOK_ID must be set")
	}

	n := 10
	if v := os.Getenv("REQUESTS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("invalid REQUESTS %q: %v", v, err)
		}
		n = parsed
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Timeout: 10 * time.Second,
		Jar:     jar,
		// Keep redirects visible instead of following them.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// Log in once; the jar keeps the session cookie for all goroutines.
	loginBody := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	resp, err := client.Post(serverAddr+"/login", "application/json", strings.NewReader(loginBody))
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("login failed with status %d", resp.StatusCode)
	}

	fmt.Printf("=== Request Dedup Concurrency Probe ===\n")
	fmt.Printf("Server   : %s\n", serverAddr)
	fmt.Printf("Book     : %s\n", bookID)
	fmt.Printf("Requests : %d\n\n", n)

	statuses := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			<-start
			resp, err := client.Post(serverAddr+"/request/"+bookID, "application/json", nil)
			if err != nil {
				errs[idx] = err
				return
			}
			resp.Body.Close()
			statuses[idx] = resp.StatusCode
		}(i)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)
	wg.Wait()

	var redirects, failures int
	for i := 0; i < n; i++ {
		switch {
		case errs[i] != nil:
			failures++
			fmt.Printf("  [ERR ] #%-3d err=%v\n", i, errs[i])
		case statuses[i] == http.StatusSeeOther:
			redirects++
		default:
			failures++
			fmt.Printf("  [FAIL] #%-3d status=%d\n", i, statuses[i])
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Redirects : %d (every accepted submission looks identical)\n", redirects)
	fmt.Printf("Failures  : %d\n", failures)
	fmt.Println("\nNow list GET /requests as an admin: more than one row for this")
	fmt.Println("(user, book) pair means the check-then-insert race fired.")

	if failures > 0 {
		os.Exit(1)
	}
}
