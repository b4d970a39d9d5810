// Package api содержит HTTP-клиент для взаимодействия с сервером встреч.
//
// Клиент инкапсулирует базовый URL сервера и настроенный http.Client,
// предоставляя методы для отправки JSON-запросов (POST/GET/PUT/DELETE)
// с авторизацией через Bearer токен.
//
// Особенности:
//   - baseURL нормализуется (обрезаются завершающие "/").
//   - По умолчанию добавляется заголовок Accept: application/json.
//   - Заголовок Content-Type: application/json добавляется только при наличии тела запроса.
//   - При ответах 204 No Content тело не читается и это считается успехом.
//   - Пустое тело ответа (EOF при декодировании) не считается ошибкой.
//   - При ошибочных ответах (не 2xx) возвращается *Error с разобранным ErrorResponse.
//
// ВНИМАНИЕ: NewClient включает InsecureSkipVerify=true (TLS сертификат не проверяется).
// Это допустимо только для разработки и локального окружения.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// Client реализует HTTP-клиент для общения с сервером встреч.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient создаёт новый HTTP-клиент для общения с сервером.
//
// baseURL — адрес сервера, например "http://127.0.0.1:8080".
// Таймаут запросов 10 секунд.
func NewClient(baseURL string) *Client {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, // только для dev
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: tr,
		},
	}
}

// Error — ошибочный ответ сервера.
type Error struct {
	Status   int
	Response shared.ErrorResponse
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Response.Msg)
	if e.Response.Error != "" {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Response.Error)
	}
	for _, f := range e.Response.Fields {
		fmt.Fprintf(&b, "\n  %s: %s", f.Field, f.Message)
	}
	if b.Len() == 0 {
		return http.StatusText(e.Status)
	}
	return b.String()
}

// StatusOf возвращает HTTP-статус ошибки сервера или 0, если err не *Error.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// readAPIError разбирает тело ошибочного ответа.
// Если тело не JSON — его текст (или res.Status) попадает в Msg.
func readAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(res.Body)
	e := &Error{Status: res.StatusCode}
	if err := json.Unmarshal(raw, &e.Response); err != nil || (e.Response.Msg == "" && e.Response.Error == "") {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = res.Status
		}
		e.Response = shared.ErrorResponse{Msg: msg}
	}
	return e
}

// decodeJSONOrOK декодирует JSON из r в resp.
// resp == nil и пустое тело (io.EOF) ошибкой не считаются.
func decodeJSONOrOK(r io.Reader, resp any) error {
	if resp == nil {
		return nil
	}
	err := json.NewDecoder(r).Decode(resp)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// do выполняет запрос: req (если не nil) сериализуется в JSON,
// 2xx-ответ декодируется в resp, остальные превращаются в *Error.
func (c *Client) do(ctx context.Context, method, path string, req, resp any, authToken string) error {
	var body io.Reader
	if req != nil {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(req); err != nil {
			return err
		}
		body = &buf
	}

	r, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	r.Header.Set("Accept", "application/json")
	if req != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if authToken != "" {
		r.Header.Set("Authorization", "Bearer "+authToken)
	}

	res, err := c.http.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return readAPIError(res)
	}

	// 204/пустое тело — ок
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	return decodeJSONOrOK(res.Body, resp)
}

// PostJSON выполняет POST-запрос к серверу, сериализуя req в JSON.
func (c *Client) PostJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	return c.do(ctx, http.MethodPost, path, req, resp, authToken)
}

// GetJSON выполняет GET-запрос к серверу и (опционально) декодирует JSON-ответ.
func (c *Client) GetJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodGet, path, nil, resp, authToken)
}

// PutJSON выполняет PUT-запрос к серверу, сериализуя req в JSON.
func (c *Client) PutJSON(ctx context.Context, path string, req, resp any, authToken string) error {
	return c.do(ctx, http.MethodPut, path, req, resp, authToken)
}

// DeleteJSON выполняет DELETE-запрос к серверу и (опционально) декодирует JSON-ответ.
func (c *Client) DeleteJSON(ctx context.Context, path string, resp any, authToken string) error {
	return c.do(ctx, http.MethodDelete, path, nil, resp, authToken)
}
