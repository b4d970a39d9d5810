package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
)

const (
	minPasswordLen = 5
	maxTitleLen    = 255
	maxNameLen     = 255
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserInput — данные регистрации пользователя.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

func (in UserInput) normalize() UserInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

// Validate проверяет все поля и возвращает *ValidationError со списком ошибок.
func (in UserInput) Validate() error {
	var v serr.ValidationError
	switch {
	case in.Name == "":
		v.Add("name", "name is required")
	case utf8.RuneCountInString(in.Name) > maxNameLen:
		v.Add("name", "name is too long")
	}
	switch {
	case in.Email == "":
		v.Add("email", "email is required")
	case !emailRe.MatchString(in.Email):
		v.Add("email", "email is not valid")
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		v.Add("password", "password must be at least 5 characters")
	}
	return v.Err()
}

// MeetingInput — данные создания или полной замены встречи.
type MeetingInput struct {
	Title       string
	Description string
	Time        string
}

// meetingFields — провалидированные поля встречи.
type meetingFields struct {
	title       string
	description string
	at          time.Time
}

// Validate проверяет поля встречи. Время разбирается здесь же,
// чтобы ни одна запись не появилась с невалидным временем.
func (in MeetingInput) Validate() error {
	_, err := in.parse()
	return err
}

func (in MeetingInput) parse() (meetingFields, error) {
	var v serr.ValidationError
	f := meetingFields{
		title:       strings.TrimSpace(in.Title),
		description: strings.TrimSpace(in.Description),
	}

	switch {
	case f.title == "":
		v.Add("title", "title is required")
	case utf8.RuneCountInString(f.title) > maxTitleLen:
		v.Add("title", "title is too long")
	}
	if f.description == "" {
		v.Add("description", "description is required")
	}

	if strings.TrimSpace(in.Time) == "" {
		v.Add("time", "time is required")
	} else if at, err := ParseMeetingTime(in.Time); err != nil {
		v.Add("time", err.Error())
	} else {
		f.at = at
	}

	if err := v.Err(); err != nil {
		return meetingFields{}, err
	}
	return f, nil
}
