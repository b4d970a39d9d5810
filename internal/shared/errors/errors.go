// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"strings"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные (в том числе битый/просроченный токен)
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Токен валиден, но пользователя из него уже нет
	ErrPrincipalNotFound = errors.New("principal not found")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Ошибка хранилища
	ErrStorage = errors.New("storage failure")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован (нет прав на действие)
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// ожидаемая ошибка (для тестов)
	ErrExpectedError = errors.New("expected error")
)

// только для встреч
var (
	// пользователь уже записан на встречу
	ErrAlreadyRegistered = errors.New("already registered")
	// пользователь не записан на встречу
	ErrNotRegistered = errors.New("not registered")
)

// FieldError — ошибка одного поля входных данных.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError — список ошибок полей.
//
// errors.Is(err, ErrInvalidInput) для неё возвращает true,
// поэтому api слой обрабатывает её тем же кейсом, что и обычный invalid input.
type ValidationError struct {
	Fields []FieldError
}

// Add добавляет ошибку поля.
func (v *ValidationError) Add(field, message string) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: message})
}

// HasErrors сообщает, есть ли хоть одна ошибка.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// Err возвращает nil, если ошибок нет.
func (v *ValidationError) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	if !v.HasErrors() {
		return ErrInvalidInput.Error()
	}
	names := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		names = append(names, f.Field)
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(names, ", ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// FieldsOf достаёт список ошибок полей из цепочки err.
func FieldsOf(err error) []FieldError {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Fields
	}
	return nil
}
