package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophsignup/internal/client/client"
	"github.com/dmitrijs2005/gophsignup/internal/client/config"
	"github.com/dmitrijs2005/gophsignup/internal/client/services"
)

type App struct {
	config         *config.Config
	accountService services.AccountService
	userName       string
	reader         *bufio.Reader
	out            io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	db, err := client.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing session database: %w", err)
	}

	apiClient, err := client.NewAccountClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	as := services.NewAccountService(apiClient, db)

	return &App{config: c, accountService: as, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.accountService.Close(ctx)

	fmt.Fprintln(a.out, "Welcome to gophsignup CLI (type 'help' for commands)")

	if name, err := a.accountService.RestoreSession(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not restore session: %v\n", err)
	} else if name != "" {
		a.userName = name
		fmt.Fprintf(a.out, "Restored session of %s\n", name)
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) prompt(text string) (string, error) {
	return GetSimpleText(a.reader, text, a.out)
}

func (a *App) promptPassword() (string, error) {
	pw, err := GetPassword(a.out)
	if err != nil {
		return "", err
	}
	s := string(pw)
	wipeByteArray(pw)
	return s, nil
}
