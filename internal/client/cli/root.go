package cli

import (
	"os"

	"storefront/internal/cart"
	"storefront/internal/client/session"

	"github.com/spf13/cobra"
)

// DefaultServerURL is used when neither --server nor STOREFRONT_API is set.
const DefaultServerURL = "http://localhost:8000"

type rootFlags struct {
	server      string
	sessionPath string
}

// NewRootCmd creates the storefront command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	var app *App

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront terminal client",
		Long:          `Sign up, log in and browse the storefront from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path := flags.sessionPath
			if path == "" {
				var err error
				if path, err = session.DefaultPath(); err != nil {
					return err
				}
			}
			app = newApp(flags.server, session.NewStore(path), cmd.InOrStdin(), cmd.OutOrStdout())
			return nil
		},
	}

	server := os.Getenv("STOREFRONT_API")
	if server == "" {
		server = DefaultServerURL
	}
	cmd.PersistentFlags().StringVar(&flags.server, "server", server, "API base URL (env STOREFRONT_API)")
	cmd.PersistentFlags().StringVar(&flags.sessionPath, "session", "", "session file (default $XDG_CONFIG_HOME/storefront/session.json)")

	var name, phone string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Register(cmd.Context(), name, phone)
		},
	}
	registerCmd.Flags().StringVar(&name, "name", "", "full name")
	registerCmd.Flags().StringVar(&phone, "phone", "", "10-digit phone number")

	var loginPhone string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Login(cmd.Context(), loginPhone)
		},
	}
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "10-digit phone number")

	cmd.AddCommand(
		registerCmd,
		loginCmd,
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the stored session",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Logout(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "home",
			Short: "Show the protected home page",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Home()
			},
		},
		&cobra.Command{
			Use:   "profile",
			Short: "Fetch your profile from the server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Profile(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "shop",
			Short: "Browse products and build a cart",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.Shop(cmd.Context(), cart.DefaultCatalog())
			},
		},
	)
	return cmd
}
