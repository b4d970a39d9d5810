package api

import (
	"context"
	"net/url"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// Register записывает пользователя userID на встречу meetingID.
func (c *Client) Register(ctx context.Context, token, meetingID, userID string) (shared.RegistrationResponse, error) {
	var resp shared.RegistrationResponse
	err := c.PostJSON(ctx, PathPrefix+"/meeting/registration", shared.RegistrationRequest{
		MeetingID: meetingID,
		UserID:    userID,
	}, &resp, token)
	return resp, err
}

// Unregister отписывает владельца токена от встречи meetingID.
func (c *Client) Unregister(ctx context.Context, token, meetingID string) (shared.RegistrationResponse, error) {
	var resp shared.RegistrationResponse
	err := c.DeleteJSON(ctx, PathPrefix+"/meeting/registration/"+url.PathEscape(meetingID), &resp, token)
	return resp, err
}
