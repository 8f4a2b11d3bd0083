// Package auth provides authentication and authorization for the library:
//
//   - bcrypt password hashing and verification (password.go)
//   - server-side sessions backed by SQLite via scs (sessions.go)
//   - registration/login/logout HTTP endpoints (handlers.go)
//   - per-route gates: RequireAuth and RequireAdmin (middleware.go)
//   - CSRF protection and security headers (csrf.go, security_headers.go)
//
// The gates are declarative route metadata: handlers never re-check
// permissions, they assume the gate in front of them has run.
package auth
