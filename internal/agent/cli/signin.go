package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSignInCmd создаёт CLI-команду входа.
//
// Получает пару access/refresh токенов и сохраняет их в локальный конфиг.
//
//	meetings signin --email alice@example.com --password-stdin < pass.txt
func NewSignInCmd(app *App) *cobra.Command {
	var email string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Вход пользователя (получить access/refresh токены)",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.read(cmd)
			if err != nil {
				return err
			}

			resp, err := NewAPIClient(app.ServerURL).SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			app.Creds.Email = email
			if err := app.saveTokens(resp.Token, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "signin ok (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for signin")
	pw.bind(cmd)
	cmd.MarkFlagRequired("email")

	return cmd
}
