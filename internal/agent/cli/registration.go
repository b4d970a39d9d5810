package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRegistrationCmd создаёт группу команд записи на встречу.
//
//	meetings registration add --meeting <id> --user <id>
//	meetings registration remove <meeting-id>
func NewRegistrationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "registration",
		Aliases: []string{"reg"},
		Short:   "Запись на встречу и отписка",
	}
	cmd.AddCommand(newRegistrationAddCmd(app))
	cmd.AddCommand(newRegistrationRemoveCmd(app))
	return cmd
}

func newRegistrationAddCmd(app *App) *cobra.Command {
	var meetingID, userID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Записать пользователя на встречу",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.accessToken()
			if err != nil {
				return err
			}
			resp, err := NewAPIClient(app.ServerURL).Register(cmd.Context(), token, meetingID, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			printMeeting(cmd.OutOrStdout(), resp.Meeting)
			return nil
		},
	}

	cmd.Flags().StringVar(&meetingID, "meeting", "", "meeting id")
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.MarkFlagRequired("meeting")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newRegistrationRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <meeting-id>",
		Short: "Отписаться от встречи",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.accessToken()
			if err != nil {
				return err
			}
			resp, err := NewAPIClient(app.ServerURL).Unregister(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			return nil
		},
	}
}
