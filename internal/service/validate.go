package service

import (
	"regexp"
	"slices"
	"strings"

	"sownmark/internal/repository"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// ten digits, mobile numbers start with 6-9
	phonePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func oneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, value)
}

// NormalizePage applies the page/limit defaults and clamps limit to [1, MaxLimit].
func NormalizePage(page, limit int) repository.Page {
	if page < 1 {
		page = DefaultPage
	}
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	return repository.Page{Page: page, Limit: limit}
}

// cleanList trims entries and drops empty ones, keeping order.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// emptyToNil turns a blank optional value into a missing one.
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
