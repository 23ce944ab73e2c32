package cli

import (
	"context"
	"fmt"
)

func (a *App) Verify(ctx context.Context) error {

	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}
	code, err := a.prompt("Enter verification code")
	if err != nil {
		return err
	}

	updated, err := a.accountService.Verify(ctx, email, code)
	if err != nil {
		fmt.Fprintf(a.out, "Verification failed: %v\n", err)
		return err
	}

	if len(updated) == 0 {
		fmt.Fprintln(a.out, "Verification failed: code does not match or account is already verified")
		return nil
	}

	fmt.Fprintf(a.out, "Account %s verified\n", updated[0].Username)
	return nil
}

func (a *App) Resend(ctx context.Context) error {

	email, err := a.prompt("Enter email")
	if err != nil {
		return err
	}

	updated, err := a.accountService.ResendVerificationCode(ctx, email)
	if err != nil {
		fmt.Fprintf(a.out, "Resend failed: %v\n", err)
		return err
	}

	if len(updated) == 0 {
		fmt.Fprintln(a.out, "Nothing to resend: unknown email or account already verified")
		return nil
	}

	fmt.Fprintf(a.out, "A new verification code was sent to %s\n", email)
	return nil
}
