package cli

import (
	"context"
	"strconv"
	"strings"
)

func (a *App) Keys(ctx context.Context) error {
	keys, err := a.store.LoadAPIKeys(ctx)
	if err != nil {
		a.println(err.Error())
		return err
	}
	if len(keys) == 0 {
		a.println("No API keys. Create one with: mkkey <name>")
		return nil
	}
	for _, k := range keys {
		a.printf("%-4d %-20s %s\n", k.ID, k.Name, k.Description)
	}
	return nil
}

func (a *App) MkKey(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: mkkey <name> [description]")
		return nil
	}
	description := ""
	if len(args) > 1 {
		description = strings.Join(args[1:], " ")
	}
	key, err := a.store.CreateAPIKey(ctx, args[0], description)
	if err != nil {
		a.println(err.Error())
		return err
	}
	// Shown once; the listing does not repeat token material.
	a.printf("Created key %d\n  token:          %s\n  delivery token: %s\n  preview token:  %s\n",
		key.ID, key.Token, key.DeliveryToken, key.PreviewToken)
	return nil
}

func (a *App) RmKey(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: rmkey <id>")
		return nil
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		a.println("Key ids are numeric:", args[0])
		return err
	}
	if err := a.store.DeleteAPIKey(ctx, id); err != nil {
		a.println(err.Error())
		return err
	}
	a.println("Revoked.")
	return nil
}
