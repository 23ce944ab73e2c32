package cli

import (
	"context"
	"fmt"
)

func (a *App) Login(ctx context.Context) error {

	phone, err := a.prompt("Enter phone")
	if err != nil {
		return err
	}

	password, err := a.promptPassword()
	if err != nil {
		return err
	}

	accounts, err := a.accountService.Login(ctx, phone, password)
	if err != nil {
		fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		return err
	}

	if len(accounts) == 0 {
		fmt.Fprintln(a.out, "Login unsuccessful: phone or password is incorrect")
		return nil
	}

	a.userName = accounts[0].Username
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", accounts[0].Username, accounts[0].Status())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.accountService.Logout(ctx); err != nil {
		fmt.Fprintf(a.out, "Logout failed: %v\n", err)
		return err
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
