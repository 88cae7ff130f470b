package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"law_desk_app_go/db"
	"law_desk_app_go/services"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	userName  string
	userEmail string
)

// createUserCmd adds an office account
var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create an office account",
	Long: `Create an office account. Missing name or email are prompted for.
The password is read without echo from a terminal, or as the next line of
standard input when it is piped.`,
	Args: cobra.NoArgs,
	RunE: runCreateUser,
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	name := userName
	if name == "" {
		fmt.Fprint(out, "Name: ")
		name = readLine(in)
	}
	email := userEmail
	if email == "" {
		fmt.Fprint(out, "Email: ")
		email = readLine(in)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(cmd, in)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Fprintln(out)

	user, err := services.CreateUser(db.DB, name, email, password)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
			}
		}
		return err
	}

	fmt.Fprintf(out, "Created user %s <%s> (%s)\n", user.Name, user.Email, user.ID)
	return nil
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// readPassword hides input on a terminal and falls back to a plain line otherwise
func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
