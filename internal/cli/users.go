package cli

import (
	"context"
	"strconv"

	"cmsadmin/internal/api"
	"cmsadmin/pkg/domain"
)

func (a *App) Users(ctx context.Context, args []string) error {
	opts := api.ListUsersOptions{Limit: 20}
	if len(args) > 0 {
		opts.RoleFilter = args[0]
	}
	if len(args) > 1 {
		page, err := strconv.Atoi(args[1])
		if err != nil {
			a.println("Page must be a number:", args[1])
			return err
		}
		opts.Page = page
	}
	page, err := a.store.ListUsers(ctx, opts)
	if err != nil {
		a.println(err.Error())
		return err
	}
	for _, u := range page.Items {
		a.printf("%-30s %-10s %s\n", u.Email, u.Role, u.FullName)
	}
	a.printf("Page %d of %d (%d users)\n", page.Page, page.TotalPages(), page.Total)
	return nil
}

func (a *App) Roles(ctx context.Context) error {
	roles, err := a.store.ListRoles(ctx)
	if err != nil {
		a.println(err.Error())
		return err
	}
	for _, r := range roles {
		a.printf("%d  %s\n", r.ID, r.Name)
	}
	return nil
}

func (a *App) Assign(ctx context.Context, args []string) error {
	if len(args) != 2 {
		a.println("Usage: assign <email> <role>")
		return nil
	}
	role := domain.NormalizeRole(domain.Role(args[1]))
	if err := a.store.AssignRole(ctx, args[0], role); err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("%s is now %s\n", args[0], role)
	return nil
}
