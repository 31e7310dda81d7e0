package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Messages flattens the field errors for the response envelope.
func (v ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(v))
	for field, msg := range v {
		msgs = append(msgs, field+": "+msg)
	}
	return msgs
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func ValidateRegister(username, email, fullName, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Invalid email address")
	}

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(fullName) > 100 {
		errs.Add("fullName", "Full name is too long")
	}

	if strings.TrimSpace(password) == "" {
		errs.Add("password", "Password is required")
	} else if len(password) < 8 {
		errs.Add("password", "Password must be at least 8 characters")
	}

	return errs
}

func ValidateLogin(username, email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(username) == "" && strings.TrimSpace(email) == "" {
		errs.Add("username", "Username or email is required")
	}

	if password == "" {
		errs.Add("password", "Password is required")
	}

	return errs
}

func ValidateChangePassword(oldPassword, newPassword string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(oldPassword) == "" {
		errs.Add("oldPassword", "Old password is required")
	}
	if strings.TrimSpace(newPassword) == "" {
		errs.Add("newPassword", "New password is required")
	} else if len(newPassword) < 8 {
		errs.Add("newPassword", "New password must be at least 8 characters")
	}

	return errs
}

func ValidateUpdateDetails(username, email, fullName string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	if username == "" && email == "" && fullName == "" {
		errs.Add("details", "At least one of username, email or fullName is required")
		return errs
	}

	if username != "" && !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			errs.Add("email", "Invalid email address")
		}
	}

	return errs
}
