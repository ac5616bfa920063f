package service

import (
	"fmt"
	"strings"
	"unicode"
)

const minPasswordLength = 8

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "11111111": {},
	"abc12345": {}, "football": {}, "baseball": {}, "sunshine": {}, "princess": {},
	"welcome1": {}, "letmein1": {}, "trustno1": {}, "superman": {}, "passw0rd": {},
}

// passwordAttribute is a user attribute the password must not resemble.
type passwordAttribute struct {
	label string
	value string
}

// validatePassword returns the reasons password is rejected, if any.
func validatePassword(password string, attrs ...passwordAttribute) []string {
	var problems []string

	if len([]rune(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf(
			"This password is too short. It must contain at least %d characters.", minPasswordLength))
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}

	lower := strings.ToLower(password)
	for _, attr := range attrs {
		for _, part := range similarityParts(attr.value) {
			if strings.Contains(lower, part) || (len(lower) >= 3 && strings.Contains(part, lower)) {
				problems = append(problems, fmt.Sprintf("The password is too similar to the %s.", attr.label))
				break
			}
		}
	}
	return problems
}

// similarityParts splits an attribute such as an email into the pieces a
// password is compared against. Pieces shorter than three characters are
// ignored.
func similarityParts(value string) []string {
	value = strings.ToLower(value)
	var parts []string
	for _, p := range strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(p) >= 3 {
			parts = append(parts, p)
		}
	}
	return parts
}
