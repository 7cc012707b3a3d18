package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/common"
)

// setMasterSecret prompts twice and stores the new master secret. Existing
// credentials stay encrypted under blobs made with the old secret; they will
// be returned as stored until re-saved (see DecryptPassword policy).
func (a *App) setMasterSecret(ctx context.Context) {
	secret, err := GetSecret("New master secret", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	defer common.WipeByteArray(secret)

	confirm, err := GetSecret("Repeat master secret", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	defer common.WipeByteArray(confirm)

	if string(secret) != string(confirm) {
		fmt.Fprintln(a.out, "Secrets do not match")
		return
	}
	if len(secret) == 0 {
		fmt.Fprintln(a.out, "Secret must not be empty")
		return
	}

	if err := a.secrets.SetMasterSecret(ctx, string(secret)); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintln(a.out, "Master secret updated")
}
