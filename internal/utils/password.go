package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt не принимает пароли длиннее 72 байт
	MaxPasswordBytes = 72
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// небольшой список самых частых паролей
var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "admin123": {},
	"letmein1": {}, "abc12345": {}, "trustno1": {}, "superman": {}, "starwars": {},
	"passw0rd": {}, "whatever": {}, "dragon123": {}, "monkey123": {}, "11111111": {},
	"00000000": {}, "asdfghjkl": {}, "zaq12wsx": {}, "1q2w3e4r": {}, "changeme": {},
}

// ValidatePassword проверяет сложность пароля и возвращает список замечаний.
// Пустой список: пароль подходит.
func ValidatePassword(password string, attrs ...string) []string {
	var problems []string
	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if len(password) > MaxPasswordBytes {
		problems = append(problems, "This password is too long. It must contain at most 72 bytes.")
	}
	if password != "" && isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		problems = append(problems, "This password is too common.")
	}
	for _, a := range attrs {
		if similar(password, a) {
			problems = append(problems, "The password is too similar to your personal information.")
			break
		}
	}
	return problems
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// similar: пароль содержит атрибут (или локальную часть email) либо наоборот.
func similar(password, attr string) bool {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if at := strings.IndexByte(attr, '@'); at > 0 {
		attr = attr[:at]
	}
	if len(attr) < 3 {
		return false
	}
	pw := strings.ToLower(password)
	return strings.Contains(pw, attr) || strings.Contains(attr, pw)
}
