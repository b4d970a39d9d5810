package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	shared "github.com/IvanChernomyrdin/go-meetings/internal/shared/models"
)

// NewMeetingCmd создаёт группу команд для работы со встречами.
//
//	meetings meeting list
//	meetings meeting show <id>
//	meetings meeting create --title T --description D --time 201801151330UTC
//	meetings meeting update <id> --title T --time 201801151330UTC
//	meetings meeting delete <id>
func NewMeetingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Просмотр и управление встречами",
	}

	cmd.AddCommand(newMeetingListCmd(app))
	cmd.AddCommand(newMeetingShowCmd(app))
	cmd.AddCommand(newMeetingCreateCmd(app))
	cmd.AddCommand(newMeetingUpdateCmd(app))
	cmd.AddCommand(newMeetingDeleteCmd(app))
	return cmd
}

func newMeetingListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Список всех встреч",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewAPIClient(app.ServerURL).ListMeetings(cmd.Context())
			if err != nil {
				return err
			}

			if len(resp.Meetings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no meetings")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tTITLE")
			for _, m := range resp.Meetings {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Time.UTC().Format(time.RFC3339), m.Title)
			}
			return tw.Flush()
		},
	}
}

func newMeetingShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Встреча и её участники",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewAPIClient(app.ServerURL).GetMeeting(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printMeeting(cmd.OutOrStdout(), resp.Meeting.Meeting)
			return nil
		},
	}
}

// meetingFlags — поля встречи для create и update.
type meetingFlags struct {
	title       string
	description string
	at          string
}

func (f *meetingFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "meeting title")
	cmd.Flags().StringVar(&f.description, "description", "", "meeting description")
	cmd.Flags().StringVar(&f.at, "time", "", "meeting time, YYYYMMDDHHMM[SS]<zone>, e.g. 201801151330UTC")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("time")
}

func (f *meetingFlags) request() shared.MeetingRequest {
	return shared.MeetingRequest{Title: f.title, Description: f.description, Time: f.at}
}

func newMeetingCreateCmd(app *App) *cobra.Command {
	var f meetingFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать встречу (вы станете её участником)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.accessToken()
			if err != nil {
				return err
			}
			resp, err := NewAPIClient(app.ServerURL).CreateMeeting(cmd.Context(), token, f.request())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			printMeeting(cmd.OutOrStdout(), resp.Meeting.Meeting)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newMeetingUpdateCmd(app *App) *cobra.Command {
	var f meetingFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Изменить встречу (только для участников)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.accessToken()
			if err != nil {
				return err
			}
			resp, err := NewAPIClient(app.ServerURL).UpdateMeeting(cmd.Context(), token, args[0], f.request())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			printMeeting(cmd.OutOrStdout(), resp.Meeting.Meeting)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newMeetingDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить встречу (только для участников)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := app.accessToken()
			if err != nil {
				return err
			}
			resp, err := NewAPIClient(app.ServerURL).DeleteMeeting(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			return nil
		},
	}
}

func printMeeting(w io.Writer, m shared.Meeting) {
	fmt.Fprintf(w, "id:          %s\n", m.ID)
	fmt.Fprintf(w, "title:       %s\n", m.Title)
	if m.Description != "" {
		fmt.Fprintf(w, "description: %s\n", m.Description)
	}
	fmt.Fprintf(w, "time:        %s\n", m.Time.UTC().Format(time.RFC3339))
	if len(m.Users) > 0 {
		fmt.Fprintln(w, "attendees:")
		for _, u := range m.Users {
			fmt.Fprintf(w, "  - %s <%s> %s\n", u.Name, u.Email, u.ID)
		}
	}
}
