package cli

import "context"

// Theme without arguments prints the current theme; "theme dark" /
// "theme light" switches the mode keeping the colors.
func (a *App) Theme(ctx context.Context, args []string) error {
	if len(args) == 0 {
		theme, err := a.store.LoadTheme(ctx)
		if err != nil {
			a.println(err.Error())
			return err
		}
		a.printf("%s (%s)\n", theme.Name, theme.Mode)
		a.printf("  primary:    %s\n  secondary:  %s\n  accent:     %s\n  background: %s\n  text:       %s\n",
			theme.PrimaryColor, theme.SecondaryColor, theme.AccentColor, theme.BackgroundColor, theme.TextColor)
		return nil
	}
	mode := args[0]
	if mode != "dark" && mode != "light" {
		a.println("Usage: theme [dark|light]")
		return nil
	}
	theme, ok := a.store.Theme()
	if !ok {
		var err error
		theme, err = a.store.LoadTheme(ctx)
		if err != nil {
			a.println(err.Error())
			return err
		}
	}
	theme.Mode = mode
	saved, err := a.store.UpdateTheme(ctx, theme)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Theme mode is now %s\n", saved.Mode)
	return nil
}
