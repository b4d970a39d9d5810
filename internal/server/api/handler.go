// Package api реализует HTTP-слой сервера встреч.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - гипермедиа-подсказки о следующих действиях (links.go).
//
// Маршруты и middleware подключаются в internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-meetings/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-meetings/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-meetings/internal/shared/logger"
	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика и аутентификация токенов);
//   - Log: логгер для записи событий и ошибок.
type Handler struct {
	Svc *service.Services
	Log *logger.HTTPLogger
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger) *Handler {
	return &Handler{Svc: svc, Log: log}
}

// StatusOf возвращает HTTP-статус для доменной ошибки.
func StatusOf(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, serr.ErrInvalidInput), errors.Is(err, serr.ErrBadJSON):
		return http.StatusBadRequest
	case errors.Is(err, serr.ErrInvalidCredentials), errors.Is(err, serr.ErrPrincipalNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, serr.ErrUnauthorized), errors.Is(err, serr.ErrNotRegistered):
		return http.StatusForbidden
	case errors.Is(err, serr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, serr.ErrAlreadyRegistered), errors.Is(err, serr.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicError — текст ошибки, который можно отдать клиенту.
// Подробности ошибок хранилища наружу не уходят.
func publicError(err error) string {
	for _, e := range []error{
		serr.ErrInvalidInput, serr.ErrBadJSON, serr.ErrInvalidCredentials, serr.ErrPrincipalNotFound,
		serr.ErrNotRegistered, serr.ErrUnauthorized, serr.ErrNotFound,
		serr.ErrAlreadyRegistered, serr.ErrAlreadyExists,
	} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "request body too large"
	}
	return serr.ErrInternal.Error()
}

// WriteError пишет ErrorResponse со статусом status.
func WriteError(w http.ResponseWriter, status int, msg string, err error) {
	writeJSON(w, status, shared.ErrorResponse{
		Msg:    msg,
		Error:  publicError(err),
		Fields: serr.FieldsOf(err),
	})
}

// fail отвечает ошибкой; 5xx дополнительно пишутся в лог с исходной причиной.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		h.Log.Error(msg,
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Error(err),
		)
	}
	WriteError(w, status, msg, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON читает тело запроса. Битый JSON — ErrBadJSON,
// превышение лимита тела — *http.MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return serr.ErrBadJSON
	}
	return nil
}

// pathID достаёт {id} из пути. Не-UUID не может указывать на запись — ErrNotFound.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, serr.ErrNotFound
	}
	return id, nil
}
