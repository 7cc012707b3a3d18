package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/loginkeeper/internal/models"
)

func (a *App) listEnvironments(ctx context.Context) {
	envs, err := a.envs.List(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	if len(envs) == 0 {
		fmt.Fprintln(a.out, "No environments registered")
		return
	}

	for _, env := range envs {
		fmt.Fprintf(a.out, "%d. %s  %s  [%s]\n", env.Position, env.Name, env.LoginURL, env.Id)
	}
}

func (a *App) addEnvironment(ctx context.Context) {
	name, err := GetSimpleText(a.in, "Environment name", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	loginURL, err := GetSimpleText(a.in, "Login URL (may end with /*)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	buttonId, err := GetSimpleText(a.in, "Login button id (optional)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	buttonClass, err := GetSimpleText(a.in, "Login button class (optional)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	env, err := a.envs.Add(ctx, models.Environment{
		Name:             name,
		LoginURL:         loginURL,
		LoginButtonId:    buttonId,
		LoginButtonClass: buttonClass,
	})
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(a.out, "Environment added: %s\n", env.Id)
}

func (a *App) deleteEnvironment(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delenv <environment-id>")
		return
	}

	if err := a.envs.Delete(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Environment deleted together with its credentials")
}

func (a *App) matchURL(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: match <url>")
		return
	}

	env, ok, err := a.envs.Match(ctx, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Error: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(a.out, "No environment matches")
		return
	}
	fmt.Fprintf(a.out, "Matched: %s (%s)\n", env.Name, env.Id)
}
