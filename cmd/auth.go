package cmd

import (
	"fmt"

	"github.com/kickit-app/kickit/internal/api/models"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/spf13/cobra"
)

var signinFlags struct {
	Username string
}

var signupFlags struct {
	Username string
	Name     string
	Email    string
}

var signinCmd = &cobra.Command{
	Use:     "signin",
	Short:   "Sign in to KickIt",
	Example: `kickit signin --username ada`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		form := models.SignInForm{}
		if form.Username, err = p.valueOr(signinFlags.Username, "Username"); err != nil {
			return err
		}
		if form.Password, err = p.Password("Password"); err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return userError(err, kickit.MsgMissingFields)
		}

		resp, err := s.auth().Signin(cmd.Context(), form.Credentials())
		if err != nil {
			return userError(err, "Unable to sign in")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", resp.User.DisplayName()) //nolint:errcheck
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Short:   "Create a KickIt account",
	Example: `kickit signup --username ada --name "Ada Lovelace" --email ada@example.com`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
		form := models.SignUpForm{}
		if form.Name, err = p.valueOr(signupFlags.Name, "Full name"); err != nil {
			return err
		}
		if form.Username, err = p.valueOr(signupFlags.Username, "Username"); err != nil {
			return err
		}
		if form.Email, err = p.valueOr(signupFlags.Email, "Email"); err != nil {
			return err
		}
		if form.Password, err = p.Password("Password"); err != nil {
			return err
		}
		if form.ConfirmPassword, err = p.Password("Confirm password"); err != nil {
			return err
		}
		if err := form.Validate(); err != nil {
			return userError(err, kickit.MsgMissingFields)
		}

		resp, err := s.auth().Signup(cmd.Context(), form.Request())
		if err != nil {
			return userError(err, "Unable to sign up")
		}
		if resp.Token == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Run `kickit signin` to sign in.") //nolint:errcheck
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are signed in.\n", resp.User.DisplayName()) //nolint:errcheck
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.auth().Signout(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out") //nolint:errcheck
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		user, _, ok := s.auth().Current()
		if !ok {
			return errNotSignedIn
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", user.DisplayName(), user.ID) //nolint:errcheck
		if user.Email != "" {
			fmt.Fprintln(out, user.Email) //nolint:errcheck
		}
		fmt.Fprintf(out, "API: %s\n", s.client.BaseURL()) //nolint:errcheck
		return nil
	},
}

func init() {
	signinCmd.Flags().StringVarP(&signinFlags.Username, "username", "u", "", "Username")

	signupCmd.Flags().StringVarP(&signupFlags.Username, "username", "u", "", "Username")
	signupCmd.Flags().StringVar(&signupFlags.Name, "name", "", "Full name")
	signupCmd.Flags().StringVar(&signupFlags.Email, "email", "", "Email address")

	rootCmd.AddCommand(signinCmd, signupCmd, signoutCmd, whoamiCmd)
}
