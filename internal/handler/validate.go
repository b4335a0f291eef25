package handler

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/microblog/internal/domain"
)

func requireField(verr *domain.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, "must not be blank")
	}
}

func maxLength(verr *domain.ValidationError, field, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		verr.Add(field, fmt.Sprintf("size must be at most %d characters", limit))
	}
}

func checkEmail(verr *domain.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		verr.Add(field, "must be a well-formed email address")
	}
}
