// Package validation normalizes and checks raw registration input. It is
// pure: no database, no fiber, no clock.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ibrahimchallal/tournament_service/internal/domain"
	"github.com/ibrahimchallal/tournament_service/internal/dto"
)

var (
	emailPattern = regexp.MustCompile(`^\d{13}@ofppt-edu\.ma$`)
	// Separators are tolerated by the pattern, but NormalizePhone runs first
	// so by the time we match there are only digits and a leading '+'.
	phonePattern = regexp.MustCompile(`^(?:\+212|0)([ \-]?\d){9}$`)
)

const maxEmailLen = 255

// FieldError names the first field that violated a rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// NormalizePhone strips whitespace and invisible bidi marks, drops every '+'
// that is not the first character, then drops anything that is not a digit.
// Running it on an already-normalized number is a no-op.
func NormalizePhone(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || isBidiMark(r) {
			return -1
		}
		return r
	}, raw)

	var b strings.Builder
	for i, r := range stripped {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isBidiMark(r rune) bool {
	switch {
	case r == '‎' || r == '‏':
		return true
	case r >= '‪' && r <= '‮':
		return true
	case r >= '⁦' && r <= '⁩':
		return true
	}
	return false
}

// NormalizeEmail removes every whitespace character.
func NormalizeEmail(raw string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw))
}

// Validate runs the pipeline in fixed field order (group, full name, phone,
// email) and stops at the first violated rule. On success the returned
// Registration carries the normalized values and is safe to persist.
func Validate(input dto.RegistrationRequest) (domain.Registration, *FieldError) {
	var rec domain.Registration

	group := input.Group
	if group == "" {
		return rec, &FieldError{Field: "group", Message: "Please select your group"}
	}
	if !domain.IsValidGroupCode(group) {
		return rec, &FieldError{Field: "group", Message: "Select a valid group"}
	}

	fullName := strings.TrimSpace(input.FullName)
	// Length rules count characters, not bytes: Arabic names are multi-byte.
	nameLen := utf8.RuneCountInString(fullName)
	if nameLen < 3 {
		return rec, &FieldError{Field: "full_name", Message: "Full name must be at least 3 characters"}
	}
	if nameLen > 100 {
		return rec, &FieldError{Field: "full_name", Message: "Full name must be less than 100 characters"}
	}

	phone := NormalizePhone(input.Phone)
	if !phonePattern.MatchString(phone) {
		return rec, &FieldError{Field: "phone", Message: "Enter a valid Moroccan phone (0XXXXXXXXX or +212XXXXXXXXX)"}
	}

	email := NormalizeEmail(input.Email)
	if len(email) > maxEmailLen {
		return rec, &FieldError{Field: "email", Message: "Email must be less than 255 characters"}
	}
	if !emailPattern.MatchString(email) {
		return rec, &FieldError{Field: "email", Message: "Email must be 13 digits followed by @ofppt-edu.ma"}
	}

	rec.GroupCode = group
	rec.FullName = fullName
	rec.Phone = phone
	rec.Email = email
	return rec, nil
}
