package domain

import (
	"strings"
	"time"
)

// Method is how an account was originally established. It is stored as the
// record's signInMethod and never changes after creation.
type Method string

const (
	MethodEmail     Method = "email"
	MethodPhone     Method = "phone"
	MethodFederated Method = "google"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodEmail, MethodPhone, MethodFederated:
		return true
	}
	return false
}

// Label is the user-facing name of the method, as used in error messages.
func (m Method) Label() string {
	switch m {
	case MethodFederated:
		return "Google"
	default:
		return string(m)
	}
}

// Account is the credential store's record for one patient.
type Account struct {
	ID            string
	Email         string
	PhoneNumber   string
	SignInMethod  Method
	PasswordHash  string // argon2 encoded; empty for federated accounts
	FirstName     string
	MiddleName    string
	LastName      string
	FullName      string
	PhotoURL      string
	FederatedID   string
	EmailVerified bool
	PhoneVerified bool
	LastSignInAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ContactIdentifier returns the identifier that matches the account's method.
func (a Account) ContactIdentifier() string {
	if a.SignInMethod == MethodPhone {
		return a.PhoneNumber
	}
	return a.Email
}

// Profile holds the name fields captured at sign-up.
type Profile struct {
	FirstName  string
	MiddleName string
	LastName   string
}

// ComposeFullName joins the non-empty name parts with single spaces.
func ComposeFullName(first, middle, last string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{first, middle, last} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// SplitDisplayName splits a federated display name into first, middle and
// last. Everything between the first and last word is the middle name.
func SplitDisplayName(name string) Profile {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return Profile{}
	case 1:
		return Profile{FirstName: words[0]}
	case 2:
		return Profile{FirstName: words[0], LastName: words[1]}
	default:
		return Profile{
			FirstName:  words[0],
			MiddleName: strings.Join(words[1:len(words)-1], " "),
			LastName:   words[len(words)-1],
		}
	}
}
