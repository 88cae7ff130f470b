package services

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MinPasswordLength counts characters, not bytes
const MinPasswordLength = 10

// ValidatePassword checks the office password policy:
// - at least MinPasswordLength characters
// - at least one letter (any script, Arabic has no case)
// - at least one digit
// - at least one symbol or punctuation mark
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return fmt.Errorf("كلمة المرور يجب أن تتكون من %d أحرف على الأقل", MinPasswordLength)
	}

	var hasLetter, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if !hasLetter {
		return errors.New("كلمة المرور يجب أن تحتوي على حرف واحد على الأقل")
	}
	if !hasNumber {
		return errors.New("كلمة المرور يجب أن تحتوي على رقم واحد على الأقل")
	}
	if !hasSpecial {
		return errors.New("كلمة المرور يجب أن تحتوي على رمز خاص واحد على الأقل")
	}

	return nil
}
