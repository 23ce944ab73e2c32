package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/client/client"
)

func (a *App) Me(ctx context.Context) error {

	account, err := a.accountService.Me(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			a.userName = ""
			fmt.Fprintln(a.out, "Not logged in")
		} else {
			fmt.Fprintf(a.out, "Error: %v\n", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:         %d\n", account.ID)
	fmt.Fprintf(a.out, "User name:  %s\n", account.Username)
	fmt.Fprintf(a.out, "Phone:      %s\n", account.Phone)
	fmt.Fprintf(a.out, "Email:      %s\n", account.Email)
	if account.InvitationCode != "" {
		fmt.Fprintf(a.out, "Invitation: %s\n", account.InvitationCode)
	}
	fmt.Fprintf(a.out, "Status:     %s\n", account.Status())
	if !account.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Created:    %s\n", account.CreatedAt.Format(time.DateTime+" -07:00"))
	}
	return nil
}
