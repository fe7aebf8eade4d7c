package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/north-cloud/content-feed/internal/models"
)

// Validation messages shown to administrators.
const (
	MsgInvalidType      = "Invalid content type."
	MsgURLRequired      = "URL is required."
	MsgURLInvalid       = "URL is not valid."
	MsgURLTooLong       = "URL must not exceed 500 characters."
	MsgPositionNegative = "Position must be zero or greater."
)

// ValidationError lists every problem found in an input at once.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, " ")
}

// ItemInput is what an administrator submits for create and edit.
type ItemInput struct {
	Type     string `json:"type"`
	URL      string `json:"url"`
	Active   *bool  `json:"active"`
	Position *int   `json:"position"`
}

// validInput is ItemInput after validation.
type validInput struct {
	Type     models.ContentType
	URL      string
	Active   *bool
	Position *int
}

func validateInput(in ItemInput) (validInput, error) {
	var errs []string

	ct, err := models.ParseContentType(in.Type)
	if err != nil {
		errs = append(errs, MsgInvalidType)
	}

	rawURL := strings.TrimSpace(in.URL)
	if msg := validateURL(rawURL); msg != "" {
		errs = append(errs, msg)
	}

	if in.Position != nil && *in.Position < 0 {
		errs = append(errs, MsgPositionNegative)
	}

	if len(errs) > 0 {
		return validInput{}, &ValidationError{Errors: errs}
	}
	return validInput{Type: ct, URL: rawURL, Active: in.Active, Position: in.Position}, nil
}

// validateURL returns the first problem with rawURL, or "".
func validateURL(rawURL string) string {
	switch {
	case rawURL == "":
		return MsgURLRequired
	case utf8.RuneCountInString(rawURL) > models.MaxURLLength:
		return MsgURLTooLong
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return MsgURLInvalid
	}
	return ""
}
