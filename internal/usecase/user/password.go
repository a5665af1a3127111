package user

import (
	"fmt"
	"strings"

	"sportsdesk/internal/domain/entity"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 8

var weakPasswords = []string{
	"password",
	"password1",
	"password123",
	"12345678",
	"123456789",
	"1234567890",
	"qwertyuiop",
	"letmein1",
	"welcome1",
	"football",
	"baseball",
	"iloveyou",
}

// ValidatePassword applies the registration password policy.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLength {
		return &entity.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	lower := strings.ToLower(pw)
	for _, weak := range weakPasswords {
		if lower == weak {
			return &entity.ValidationError{Field: "password", Message: "is too common"}
		}
	}
	if isRepeatedChar(pw) || isDigitSequence(pw) {
		return &entity.ValidationError{Field: "password", Message: "must not be a simple pattern"}
	}
	return nil
}

// 同じ文字の繰り返し ("aaaaaaaa")
func isRepeatedChar(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// 昇順・降順の数字列 ("23456789", "98765432")
func isDigitSequence(s string) bool {
	if len(s) < 2 {
		return false
	}
	asc, desc := true, true
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		if i == 0 {
			continue
		}
		diff := int(s[i]) - int(s[i-1])
		if diff != 1 && diff != -9 {
			asc = false
		}
		if diff != -1 && diff != 9 {
			desc = false
		}
	}
	return asc || desc
}
