package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

func (a *App) listCredentials(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: creds <environment-id>")
		return
	}

	creds, err := a.creds.ListByEnv(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	if len(creds) == 0 {
		fmt.Fprintln(a.out, "No credentials for this environment")
		return
	}

	for _, c := range creds {
		fmt.Fprintf(a.out, "%s  %s / %s\n", c.Id, c.Username, c.Account)
	}
}

func (a *App) addCredential(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: addcred <environment-id>")
		return
	}

	if _, err := a.envs.Get(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	account, err := GetSimpleText(a.in, "Account (optional)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	password, err := GetSecret("Password", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	defer common.WipeByteArray(password)

	cred, err := a.creds.Add(ctx, models.Credential{
		EnvId:    args[0],
		Username: username,
		Account:  account,
		Password: string(password),
	})
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Credential added: %s\n", cred.Id)
}

func (a *App) deleteCredential(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delcred <credential-id>")
		return
	}

	if err := a.creds.Delete(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Credential deleted")
}

func (a *App) showCredential(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: show <credential-id>")
		return
	}

	cred, err := a.creds.Reveal(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Username: %s\nAccount:  %s\nPassword: %s\n", cred.Username, cred.Account, cred.Password)
}
