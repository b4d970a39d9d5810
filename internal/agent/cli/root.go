// Package cli реализует командный интерфейс (CLI) клиента сервера встреч.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access/refresh токены) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-meetings/internal/agent/config"
)

// ErrNotSignedIn — в локальном конфиге нет access токена.
var ErrNotSignedIn = errors.New("not signed in, run: meetings signin")

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8080").
	ServerURL string

	// CredsPath — путь к файлу с сохранёнными учётными данными.
	CredsPath string
	// Creds — загруженные учётные данные. Заполняется в PersistentPreRunE.
	Creds *config.Credentials
}

// accessToken возвращает сохранённый access токен или ErrNotSignedIn.
func (a *App) accessToken() (string, error) {
	if a.Creds == nil || a.Creds.AccessToken == "" {
		return "", ErrNotSignedIn
	}
	return a.Creds.AccessToken, nil
}

// saveTokens сохраняет пару токенов в состоянии и в файле.
func (a *App) saveTokens(access, refresh string) error {
	a.Creds.AccessToken = access
	a.Creds.RefreshToken = refresh
	return config.Save(a.CredsPath, a.Creds)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются командой version.
// В PersistentPreRunE определяется путь к файлу учётных данных и загружаются токены.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "Meetings CLI — клиент сервиса встреч",
		Long: `Meetings CLI.

Команды:
  register      Регистрация нового пользователя
  signin        Вход (получить access/refresh)
  refresh       Обновить access по refresh токену
  meeting       Просмотр и управление встречами
  registration  Запись на встречу и отписка
  version       Версия и дата сборки

Примеры:
  meetings register --name alice --email alice@example.com --password secret
  meetings signin --email alice@example.com
  meetings meeting create --title Planning --time 201801151330UTC
  meetings registration add --meeting <meeting-id> --user <user-id>
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("MEETINGS_SERVER", "http://127.0.0.1:8080"), "server base URL")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "credentials file (default ~/.meetings/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewSignInCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewMeetingCmd(app))
	cmd.AddCommand(NewRegistrationCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
