// Package service holds the business rules of the task service: credential
// handling, existence checks and task ownership.
package service

// Hasher hashes and verifies passwords
type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hashed string) (bool, error)
}

// Notifier tells a user about account events
type Notifier interface {
	SendWelcome(to, firstName string) error
}
