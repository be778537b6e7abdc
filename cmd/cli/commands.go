package main

import (
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/txnimport/pkg/app"
	authsvc "github.com/amirasaad/txnimport/pkg/service/auth"
	"github.com/amirasaad/txnimport/pkg/service/imports"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type appLoader func() (*app.App, func(), error)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	boldColor = color.New(color.Bold)
)

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand(load appLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txnimport",
		Short: "Import bank statements and export Sossoldi backups",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newFormatsCommand(load),
		newProfileCommand(load),
		newAccountsCommand(load),
		newImportCommand(load),
		newExportCommand(load),
		newTokenCommand(load),
	)
	return rootCmd
}

func withApp(load appLoader, fn func(a *app.App) error) error {
	a, cleanup, err := load()
	defer cleanup()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return fn(a)
}

func parseUser(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user %q: %w", raw, err)
	}
	return id, nil
}

func newFormatsCommand(load appLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the supported bank formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(load, func(a *app.App) error {
				out := cmd.OutOrStdout()
				registry := a.Deps.Dispatcher.Registry()
				for _, format := range registry.Formats() {
					s, err := registry.Get(format)
					if err != nil {
						return err
					}
					boldColor.Fprintf(out, "%-10s", format) //nolint:errcheck
					fmt.Fprintf(out, " %s\n", s.BankName())  //nolint:errcheck
				}
				return nil
			})
		},
	}
}

func newProfileCommand(load appLoader) *cobra.Command {
	var userFlag, username, first, last string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create the user if needed and set first and last name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				ctx := cmd.Context()
				if username == "" {
					username = id.String()[:8]
				}
				if _, err := a.UserService.EnsureUser(ctx, id, username); err != nil {
					return err
				}
				u, err := a.UserService.CompleteProfile(ctx, id, first, last)
				if err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), "Profile saved for %s %s\n", u.FirstName, u.LastName) //nolint:errcheck
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&username, "username", "", "username stored on first use")
	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")
	return cmd
}

func newAccountsCommand(load appLoader) *cobra.Command {
	var userFlag string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank accounts",
	}
	cmd.PersistentFlags().StringVar(&userFlag, "user", "", "user id (uuid)")
	_ = cmd.MarkPersistentFlagRequired("user")

	list := &cobra.Command{
		Use:   "list",
		Short: "List bank accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				overview, err := a.AccountService.ListAccounts(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, acc := range overview.Accounts {
					marker := " "
					if acc.Main {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %4d  %-28s %-34s %s\n", marker, acc.ID, acc.Name, acc.IBAN, acc.BankType) //nolint:errcheck
				}
				if overview.NeedsMain {
					warnColor.Fprintln(out, "No main account selected, run 'accounts set-main'") //nolint:errcheck
				}
				return nil
			})
		},
	}

	var name, iban, bankType string
	var makeMain bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a bank account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				acc, err := a.AccountService.CreateAccount(cmd.Context(), id, name, iban, bankType)
				if err != nil {
					return err
				}
				if makeMain {
					if err := a.AccountService.SetMainAccount(cmd.Context(), id, acc.ID); err != nil {
						return err
					}
				}
				okColor.Fprintf(cmd.OutOrStdout(), "Account %d created\n", acc.ID) //nolint:errcheck
				return nil
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "account name")
	add.Flags().StringVar(&iban, "iban", "", "account IBAN")
	add.Flags().StringVar(&bankType, "bank-type", "", "import format of the bank's statements")
	add.Flags().BoolVar(&makeMain, "main", false, "make this the main account")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("iban")

	var accountID uint
	setMain := &cobra.Command{
		Use:   "set-main",
		Short: "Select the main account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				if err := a.AccountService.SetMainAccount(cmd.Context(), id, accountID); err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), "Account %d is now the main account\n", accountID) //nolint:errcheck
				return nil
			})
		},
	}
	setMain.Flags().UintVar(&accountID, "id", 0, "account id")
	_ = setMain.MarkFlagRequired("id")

	var deleteID uint
	remove := &cobra.Command{
		Use:   "delete",
		Short: "Delete an account and its transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				if err := a.AccountService.DeleteAccount(cmd.Context(), id, deleteID); err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), "Account %d deleted\n", deleteID) //nolint:errcheck
				return nil
			})
		},
	}
	remove.Flags().UintVar(&deleteID, "id", 0, "account id")
	_ = remove.MarkFlagRequired("id")

	cmd.AddCommand(list, add, setMain, remove)
	return cmd
}

func newImportCommand(load appLoader) *cobra.Command {
	var userFlag, file, format string
	var accountID uint

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a bank statement CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			f, err := os.Open(file) //nolint:gosec
			if err != nil {
				return err
			}
			defer f.Close() //nolint:errcheck

			return withApp(load, func(a *app.App) error {
				res, err := a.ImportService.Import(cmd.Context(), imports.Request{
					UserID:    id,
					AccountID: accountID,
					Format:    format,
					File:      f,
				})
				if err != nil {
					return err
				}
				okColor.Fprintf(cmd.OutOrStdout(), //nolint:errcheck
					"Imported %d rows (%d new, %d skipped) as %s\n",
					res.Imported, res.Created, res.Skipped, res.Format)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id (uuid)")
	cmd.Flags().StringVar(&file, "file", "", "path to the statement CSV")
	cmd.Flags().StringVar(&format, "format", "", "bank format, defaults to the account's bank type")
	cmd.Flags().UintVar(&accountID, "account", 0, "destination account id, defaults to the main account")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newExportCommand(load appLoader) *cobra.Command {
	var userFlag, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as a Sossoldi CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := parseUser(userFlag)
			if err != nil {
				return err
			}
			return withApp(load, func(a *app.App) error {
				if outPath == "" || outPath == "-" {
					return a.ExportService.Sossoldi(cmd.Context(), id, cmd.OutOrStdout())
				}
				data, err := a.ExportService.SossoldiBytes(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := os.WriteFile(outPath, data, 0o600); err != nil {
					return err
				}
				okColor.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", outPath) //nolint:errcheck
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id (uuid)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newTokenCommand(load appLoader) *cobra.Command {
	var userFlag, username string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := uuid.New()
			if userFlag != "" {
				var err error
				if id, err = parseUser(userFlag); err != nil {
					return err
				}
			}
			return withApp(load, func(a *app.App) error {
				token, err := a.AuthService.GenerateToken(authsvc.Identity{UserID: id, Username: username})
				if err != nil {
					return err
				}
				writeToken(cmd.OutOrStdout(), id, token)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user id (uuid), random when empty")
	cmd.Flags().StringVar(&username, "username", "", "username claim")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func writeToken(w io.Writer, id uuid.UUID, token string) {
	boldColor.Fprintf(w, "user:  ") //nolint:errcheck
	fmt.Fprintln(w, id)            //nolint:errcheck
	boldColor.Fprintf(w, "token: ") //nolint:errcheck
	fmt.Fprintln(w, token)         //nolint:errcheck
}
