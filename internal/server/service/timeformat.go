package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	_ "time/tzdata"
)

// Формат времени встречи: YYYYMMDDHHMM[SS]<зона>.
// Зона — UTC, Z или идентификатор IANA, например 201801151330UTC
// или 20180115133000Europe/Berlin.
const (
	meetingLayoutMinutes = "200601021504"
	meetingLayoutSeconds = "20060102150405"
)

var meetingTimeRe = regexp.MustCompile(`^(\d{12}(?:\d{2})?)([A-Za-z][A-Za-z0-9_/+\-]*)$`)

var errBadMeetingTime = errors.New("expected YYYYMMDDHHMM[SS] followed by a time zone, e.g. 201801151330UTC")

// ParseMeetingTime разбирает строку времени встречи.
func ParseMeetingTime(s string) (time.Time, error) {
	m := meetingTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, errBadMeetingTime
	}
	digits, zone := m[1], m[2]

	// Local — часовой пояс сервера, момент времени зависел бы от того, где он запущен
	if zone == "Local" {
		return time.Time{}, errors.New("unknown time zone " + zone)
	}

	loc := time.UTC
	if zone != "UTC" && zone != "Z" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return time.Time{}, errors.New("unknown time zone " + zone)
		}
		loc = l
	}

	layout := meetingLayoutMinutes
	if len(digits) == len(meetingLayoutSeconds) {
		layout = meetingLayoutSeconds
	}
	t, err := time.ParseInLocation(layout, digits, loc)
	if err != nil {
		return time.Time{}, errBadMeetingTime
	}
	return t, nil
}

// FormatMeetingTime — обратная операция, всегда с секундами и зоной UTC.
func FormatMeetingTime(t time.Time) string {
	return t.UTC().Format(meetingLayoutSeconds) + "UTC"
}
