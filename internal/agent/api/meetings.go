package api

import (
	"context"
	"net/url"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

func meetingPath(id string) string {
	return PathPrefix + "/meeting/" + url.PathEscape(id)
}

// ListMeetings возвращает все встречи. Токен не нужен.
func (c *Client) ListMeetings(ctx context.Context) (shared.MeetingListResponse, error) {
	var resp shared.MeetingListResponse
	err := c.GetJSON(ctx, PathPrefix+"/meeting", &resp, "")
	return resp, err
}

// GetMeeting возвращает встречу с участниками. Токен не нужен.
func (c *Client) GetMeeting(ctx context.Context, id string) (shared.MeetingResponse, error) {
	var resp shared.MeetingResponse
	err := c.GetJSON(ctx, meetingPath(id), &resp, "")
	return resp, err
}

// CreateMeeting создаёт встречу; автор становится её участником.
func (c *Client) CreateMeeting(ctx context.Context, token string, req shared.MeetingRequest) (shared.MeetingResponse, error) {
	var resp shared.MeetingResponse
	err := c.PostJSON(ctx, PathPrefix+"/meeting", req, &resp, token)
	return resp, err
}

// UpdateMeeting изменяет встречу. Разрешено только участникам.
func (c *Client) UpdateMeeting(ctx context.Context, token, id string, req shared.MeetingRequest) (shared.MeetingResponse, error) {
	var resp shared.MeetingResponse
	err := c.PutJSON(ctx, meetingPath(id), req, &resp, token)
	return resp, err
}

// DeleteMeeting удаляет встречу. Разрешено только участникам.
func (c *Client) DeleteMeeting(ctx context.Context, token, id string) (shared.MeetingDeletedResponse, error) {
	var resp shared.MeetingDeletedResponse
	err := c.DeleteJSON(ctx, meetingPath(id), &resp, token)
	return resp, err
}
