package cli

import (
	"context"
	"os"
	"strings"

	"cmsadmin/internal/api"
)

func (a *App) Login(ctx context.Context, args []string) error {
	email := strings.Join(args, " ")
	if email == "" {
		var err error
		email, err = promptLine(a.reader, "Enter email", a.out)
		if err != nil {
			a.println(err.Error())
			return err
		}
	}
	password, err := promptPassword(a.out, "Enter password")
	if err != nil {
		a.println(err.Error())
		return err
	}
	user, err := a.store.Login(ctx, email, password)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Logged in as %s (%s)\n", user.Email, user.Role)
	return nil
}

func (a *App) Logout(_ context.Context) error {
	a.store.Logout()
	a.println("Logged out.")
	return nil
}

func (a *App) Register(ctx context.Context, args []string) error {
	email := strings.Join(args, " ")
	var err error
	if email == "" {
		email, err = promptLine(a.reader, "Enter email", a.out)
		if err != nil {
			a.println(err.Error())
			return err
		}
	}
	fullName, err := promptLine(a.reader, "Enter full name", a.out)
	if err != nil {
		a.println(err.Error())
		return err
	}
	password, err := promptPassword(a.out, "Enter password")
	if err != nil {
		a.println(err.Error())
		return err
	}
	user, err := a.store.Register(ctx, api.RegisterRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	}, "", nil)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Registered %s. You can login now.\n", user.Email)
	return nil
}

func (a *App) WhoAmI(_ context.Context) error {
	u := a.store.CurrentUser()
	if u == nil {
		a.println("No session.")
		return nil
	}
	a.printf("%s (%s)\n", u.Email, a.store.CurrentRole())
	if u.FullName != "" {
		a.println("Name:", u.FullName)
	}
	return nil
}

// Profile without arguments fetches and prints the caller's profile;
// "profile name <...>" / "profile phone <...>" patch a single field.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		user, err := a.store.LoadMyProfile(ctx)
		if err != nil {
			a.println(err.Error())
			return err
		}
		a.printf("Email:  %s\nName:   %s\nRole:   %s\n", user.Email, user.FullName, user.Role)
		if user.Phone != "" {
			a.println("Phone: ", user.Phone)
		}
		if user.AvatarURL != "" {
			a.println("Avatar:", user.AvatarURL)
		}
		return nil
	}
	if len(args) < 2 {
		a.println("Usage: profile [name|phone|birthdate|gender <value>]")
		return nil
	}
	value := strings.Join(args[1:], " ")
	var patch api.ProfilePatch
	switch args[0] {
	case "name":
		patch.FullName = &value
	case "phone":
		patch.Phone = &value
	case "birthdate":
		patch.Birthdate = &value
	case "gender":
		patch.Gender = &value
	default:
		a.println("Unknown profile field:", args[0])
		return nil
	}
	user, err := a.store.UpdateMyProfile(ctx, patch)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Profile updated for %s.\n", user.Email)
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	current, err := promptPassword(a.out, "Current password")
	if err != nil {
		a.println(err.Error())
		return err
	}
	next, err := promptPassword(a.out, "New password")
	if err != nil {
		a.println(err.Error())
		return err
	}
	if err := a.store.ChangeMyPassword(ctx, current, next); err != nil {
		a.println(err.Error())
		return err
	}
	a.println("Password changed.")
	return nil
}

func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: avatar <path>")
		return nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		a.println(err.Error())
		return err
	}
	defer f.Close()
	user, err := a.store.UploadMyAvatar(ctx, f.Name(), f)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Avatar updated: %s\n", user.AvatarURL)
	return nil
}
