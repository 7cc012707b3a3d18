package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "LoginKeeper admin console (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, "lk> ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Fprintln(a.out, "Commands: list, addenv, delenv, creds, addcred, delcred, show, match, secret, backup, restore, exit")

		case "list":
			a.listEnvironments(ctx)
		case "addenv":
			a.addEnvironment(ctx)
		case "delenv":
			a.deleteEnvironment(ctx, args)
		case "creds":
			a.listCredentials(ctx, args)
		case "addcred":
			a.addCredential(ctx, args)
		case "delcred":
			a.deleteCredential(ctx, args)
		case "show":
			a.showCredential(ctx, args)
		case "match":
			a.matchURL(ctx, args)
		case "secret":
			a.setMasterSecret(ctx)
		case "backup":
			a.runBackup(ctx)
		case "restore":
			a.runRestore(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}
