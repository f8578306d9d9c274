package service

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

const (
	MinPasswordLen = 8

	// passwords at least this similar to an account attribute are rejected
	maxSimilarity = 0.7
)

var nonWord = regexp.MustCompile(`\W+`)

//go:embed common_passwords.txt
var commonPasswordList string

// commonPasswords is keyed by lowercased entry.
var commonPasswords = sync.OnceValue(func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range strings.Fields(commonPasswordList) {
		set[strings.ToLower(p)] = struct{}{}
	}
	return set
})

// checkPasswordPolicy returns every rule the password breaks, in a fixed order.
func checkPasswordPolicy(password, username, email string) []string {
	var violations []string

	if msg := checkSimilarity(password, username, email); msg != "" {
		violations = append(violations, msg)
	}
	if utf8.RuneCountInString(password) < MinPasswordLen {
		violations = append(violations, fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLen))
	}
	if len(password) > MaxPasswordBytes {
		violations = append(violations, fmt.Sprintf("This password is too long. It must contain at most %d bytes.", MaxPasswordBytes))
	}
	if _, ok := commonPasswords()[strings.ToLower(strings.TrimSpace(password))]; ok {
		violations = append(violations, "This password is too common.")
	}
	if isNumeric(password) {
		violations = append(violations, "This password is entirely numeric.")
	}

	return violations
}

func checkSimilarity(password, username, email string) string {
	pw := strings.ToLower(password)
	attrs := []struct {
		value string
		label string
	}{
		{username, "username"},
		{email, "email address"},
	}
	for _, attr := range attrs {
		if attr.value == "" {
			continue
		}
		value := strings.ToLower(attr.value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			if part == "" || exceedsLengthRatio(pw, part) {
				continue
			}
			if similarity(pw, part) >= maxSimilarity {
				return fmt.Sprintf("The password is too similar to the %s.", attr.label)
			}
		}
	}
	return ""
}

// exceedsLengthRatio skips parts that are too short for a long password to resemble.
func exceedsLengthRatio(password, part string) bool {
	pwLen := utf8.RuneCountInString(password)
	partLen := utf8.RuneCountInString(part)
	return pwLen >= 10*partLen && float64(partLen) < maxSimilarity/2*float64(pwLen)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similarity is the multiset ratio: 2*shared runes / total length,
// ignoring order. It is an upper bound on the block-matching ratio.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}

	avail := make(map[rune]int, len(rb))
	for _, r := range rb {
		avail[r]++
	}
	matches := 0
	for _, r := range ra {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}
