package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRefreshCmd создаёт команду обновления пары токенов по сохранённому refresh.
func NewRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Обновить access токен по refresh токену",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return errors.New("no refresh_token in config, run: meetings signin")
			}

			// генерирует новую пару по refresh
			resp, err := NewAPIClient(app.ServerURL).Refresh(cmd.Context(), app.Creds.RefreshToken)
			if err != nil {
				return err
			}
			if err := app.saveTokens(resp.Token, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}
}
