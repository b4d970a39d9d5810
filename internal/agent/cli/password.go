package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword читает пароль пользователя.
//
// Режимы:
//   - fromStdin=true: читает пароль из STDIN полностью (удобно для скриптов/CI);
//   - fromStdin=false: читает пароль интерактивно из терминала со скрытым вводом.
//
// Если stdin не терминал, а fromStdin=false, возвращается ошибка. Пустой пароль — ошибка.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		pw := bytes.TrimRight(b, "\r\n")
		if len(pw) == 0 {
			return "", errors.New("empty password on stdin")
		}
		return string(pw), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pwBytes, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	pw := strings.TrimSpace(string(pwBytes))
	if pw == "" {
		return "", errors.New("empty password")
	}
	return pw, nil
}

// passwordFlags — общие флаги ввода пароля для register и signin.
type passwordFlags struct {
	password  string
	fromStdin bool
}

func (p *passwordFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.password, "password", "", "password (prompted if omitted)")
	cmd.Flags().BoolVar(&p.fromStdin, "password-stdin", false, "read password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func (p *passwordFlags) read(cmd *cobra.Command) (string, error) {
	if p.password != "" {
		return p.password, nil
	}
	return ReadPassword(cmd, p.fromStdin)
}
