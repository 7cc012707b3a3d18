package cli

import (
	"context"
	"fmt"
)

func (a *App) runBackup(ctx context.Context) {
	key, err := a.backup.Export(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Backup failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Backup uploaded: %s\n", key)
}

func (a *App) runRestore(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: restore <object-key>")
		return
	}

	confirm, err := GetSimpleText(a.in, "This replaces the whole vault. Type 'yes' to continue", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled")
		return
	}

	if err := a.backup.Restore(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Restore failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Vault restored")
}
