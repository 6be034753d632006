package main

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atinyakov/puzzlenotes/internal/client/api"
	"github.com/atinyakov/puzzlenotes/internal/client/router"
	"github.com/spf13/cobra"
)

func (c *cli) loginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.app.Router.Push(router.LoginPath)
			if err != nil {
				return err
			}
			if d.Outcome == router.RedirectedToHome {
				p, _ := c.app.Session.Profile()
				fmt.Fprintf(c.out, "already logged in as %s\n", cmp.Or(p.Username, "current user"))
				return nil
			}

			username, password = c.ask.credentials(username, password)
			res, err := c.app.Session.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			target := cmp.Or(router.RedirectTarget(c.app.Router.Current()), router.HomePath)
			if _, err := c.app.Router.Push(target); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "logged in as %s\n", cmp.Or(res.UserInfo.Username, username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var username, password, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/register"); err != nil {
				return err
			}
			username, password = c.ask.credentials(username, password)
			if email == "" {
				email = c.ask.ask("Email", "")
			}
			if err := c.app.Session.Register(cmd.Context(), username, password, email); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "registered %s, run 'puzzle login' to start a session\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	var local bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if local {
				c.app.Session.Logout()
			} else {
				c.app.Session.LogoutRemote(cmd.Context())
			}
			fmt.Fprintln(c.out, "logged out")
			return nil
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "forget the session without telling the server")
	return cmd
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/profile"); err != nil {
				return err
			}
			p, err := c.app.Session.FetchProfile(cmd.Context())
			if err != nil {
				return err
			}
			return c.printJSON(p)
		},
	}
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the stored session is still accepted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !c.app.Session.Validate(cmd.Context()) {
				fmt.Fprintln(c.out, "session invalid")
				return errLoginRequired
			}
			fmt.Fprintln(c.out, "session valid")
			return nil
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/profile"); err != nil {
				return err
			}
			p, ok := c.app.Session.Profile()
			if !ok {
				var err error
				if p, err = c.app.Session.FetchProfile(cmd.Context()); err != nil {
					return err
				}
			}
			return c.printJSON(p)
		},
	}

	var in api.ProfileUpdate
	update := &cobra.Command{
		Use:   "update",
		Short: "Change profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/profile"); err != nil {
				return err
			}
			if in == (api.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update")
			}
			p, err := c.app.Session.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			return c.printJSON(p)
		},
	}
	update.Flags().StringVar(&in.Nickname, "nickname", "", "display name")
	update.Flags().StringVar(&in.Email, "email", "", "email address")
	update.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	update.Flags().StringVar(&in.Bio, "bio", "", "short biography")
	update.Flags().StringVar(&in.Location, "location", "", "location")
	update.Flags().StringVar(&in.Website, "website", "", "website URL")

	avatar := &cobra.Command{
		Use:   "avatar <image>",
		Short: "Upload a new avatar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.enter("/user/profile"); err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			url, err := c.app.Session.UploadAvatar(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.out, url)
			return nil
		},
	}

	cmd.AddCommand(update, avatar)
	return cmd
}
