package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegisterCmd создаёт CLI-команду для регистрации пользователя.
//
// Пример использования:
//
//	meetings register --name alice --email alice@example.com --password secret
//
// Выводит id созданного пользователя: он нужен для записи на встречи.
func NewRegisterCmd(app *App) *cobra.Command {
	var name, email string
	var pw passwordFlags

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := pw.read(cmd)
			if err != nil {
				return err
			}

			resp, err := NewAPIClient(app.ServerURL).CreateUser(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s <%s> id=%s\n", resp.Msg, resp.User.Name, resp.User.Email, resp.User.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	pw.bind(cmd)
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}
