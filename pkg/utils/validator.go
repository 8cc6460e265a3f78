package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex = regexp.MustCompile(`\D`)
)

// ValidateEmail validates an email address
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// NormalizeDocument strips punctuation from a CNPJ/CPF so values like
// "12.345.678/0001-95" and "12345678000195" compare equal.
func NormalizeDocument(doc string) string {
	return digitRegex.ReplaceAllString(doc, "")
}

// ValidateCNPJ validates a Brazilian company tax id (14 digits).
func ValidateCNPJ(cnpj string) error {
	if len(NormalizeDocument(cnpj)) != 14 {
		return fmt.Errorf("CNPJ must have 14 digits: %s", cnpj)
	}
	return nil
}

// ValidateCPF validates a Brazilian personal tax id (11 digits).
func ValidateCPF(cpf string) error {
	if len(NormalizeDocument(cpf)) != 11 {
		return fmt.Errorf("CPF must have 11 digits: %s", cpf)
	}
	return nil
}
