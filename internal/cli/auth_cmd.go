// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, signup, logout, and whoami command handlers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/jeranaias/docket-tui/internal/api"
)

// HandleLogin prompts for credentials, exchanges them for a token, and
// stores it for later commands.
func HandleLogin(args Args) error {
	if err := RequiresTTY("log in"); err != nil {
		return err
	}

	backend := NewBackend(args)

	email := args.Email
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	if email == "" {
		return errors.New("email is required")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password is required")
	}

	if err := backend.Ctrl.Login(context.Background(), email, password); err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			PrintError("Invalid email or password.")
			return err
		}
		PrintError("Login failed: " + err.Error())
		return err
	}

	user := backend.Ctrl.User()
	PrintSuccess(fmt.Sprintf("Signed in as %s (%s)", user.FullName, user.Email))
	return nil
}

// HandleSignup creates an account, then suggests logging in.
func HandleSignup(args Args) error {
	if err := RequiresTTY("sign up"); err != nil {
		return err
	}

	backend := NewBackend(args)

	email := args.Email
	if email == "" {
		var err error
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	fullName, err := promptLine("Full name: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	if email == "" || fullName == "" || password == "" {
		return errors.New("email, full name, and password are all required")
	}

	req := api.SignupRequest{Email: email, FullName: fullName, Password: password}
	user, err := backend.Client.Signup(context.Background(), req)
	if err != nil {
		PrintError("Signup failed: " + err.Error())
		return err
	}

	PrintSuccess(fmt.Sprintf("Account created for %s. Run `docket login` to sign in.", user.Email))
	return nil
}

// HandleLogout discards the stored token.
func HandleLogout(args Args) error {
	backend := NewBackend(args)

	if err := backend.Ctrl.Logout(); err != nil {
		PrintError("Failed to clear stored token: " + err.Error())
		return err
	}
	if !args.Quiet {
		PrintSuccess("Signed out.")
	}
	return nil
}

// HandleWhoami shows the signed-in account, or a hint when anonymous.
func HandleWhoami(args Args) error {
	backend := NewBackend(args)

	return OutputJSON(args.JSON, "whoami", func() (interface{}, error) {
		err := backend.Ctrl.Load(context.Background())
		user := backend.Ctrl.User()

		if user == nil {
			if err != nil {
				return nil, fmt.Errorf("could not reach the server: %w", err)
			}
			return nil, errors.New("not signed in; run `docket login`")
		}

		if !args.JSON {
			fmt.Println(TitleStyle.Render("Account"))
			fmt.Println(LabelStyle.Render("Email") + ValueStyle.Render(user.Email))
			fmt.Println(LabelStyle.Render("Name") + ValueStyle.Render(user.FullName))
			fmt.Println(LabelStyle.Render("Server") + ValueStyle.Render(backend.Client.BaseURL()))
			if !user.IsActive {
				PrintWarning("This account is deactivated.")
			}
		}

		return WhoamiData{
			ID:       user.ID,
			Email:    user.Email,
			FullName: user.FullName,
			IsActive: user.IsActive,
			Server:   backend.Client.BaseURL(),
		}, nil
	})
}

// HandleVersion prints version information, honoring --json.
func HandleVersion(args Args) error {
	return OutputJSON(args.JSON, "version", func() (interface{}, error) {
		if !args.JSON {
			PrintVersion()
		}
		return VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}, nil
	})
}
