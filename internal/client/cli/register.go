package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophsignup/internal/client/client"
)

func (a *App) Register(ctx context.Context) error {

	var in client.RegisterInput
	var err error

	if in.Username, err = a.prompt("Enter user name"); err != nil {
		return err
	}
	if in.Phone, err = a.prompt("Enter phone"); err != nil {
		return err
	}
	if in.Email, err = a.prompt("Enter email"); err != nil {
		return err
	}
	if in.Password, err = a.promptPassword(); err != nil {
		return err
	}
	if in.InvitationCode, err = a.prompt("Enter invitation code (optional)"); err != nil {
		return err
	}

	account, err := a.accountService.Register(ctx, in)
	if err != nil {
		if errors.Is(err, client.ErrAlreadyExists) {
			fmt.Fprintln(a.out, "Registration failed: user name, phone or email is already taken")
		} else {
			fmt.Fprintf(a.out, "Registration failed: %v\n", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Registered %s. A verification code was sent to %s; use 'verify' to confirm.\n",
		account.Username, account.Email)
	return nil
}
