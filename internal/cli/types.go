package cli

import (
	"context"
	"strings"

	"cmsadmin/internal/api"
	"cmsadmin/pkg/domain"
)

func (a *App) Types(ctx context.Context) error {
	types, err := a.store.LoadContentTypes(ctx)
	if err != nil {
		a.println(err.Error())
		return err
	}
	if len(types) == 0 {
		a.println("No content types yet. Create one with: mktype <name>")
		return nil
	}
	for _, ct := range types {
		a.printf("%s  %s (%s)  %d fields\n", ct.ID, ct.Name, ct.APIID, len(ct.Schema))
	}
	return nil
}

func (a *App) ShowType(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: type <id>")
		return nil
	}
	ct, ok := a.store.ContentTypeByID(ctx, args[0])
	if !ok {
		a.println("Content type not found:", args[0])
		return nil
	}
	a.printf("%s (%s)\n", ct.Name, ct.APIID)
	if len(ct.Schema) == 0 {
		a.println("  (no fields)")
		return nil
	}
	for _, f := range ct.Schema {
		required := ""
		if f.Required {
			required = "  required"
		}
		a.printf("  %-20s %-12s %s%s\n", f.ID, f.Type, f.Name, required)
	}
	return nil
}

func (a *App) MkType(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		a.println("Usage: mktype <name>")
		return nil
	}
	ct, err := a.store.CreateContentType(ctx, name)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Created content type %s (%s)\n", ct.Name, ct.ID)
	return nil
}

func (a *App) EditType(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: edittype <id> <new name>")
		return nil
	}
	name := strings.Join(args[1:], " ")
	ct, err := a.store.UpdateContentType(ctx, args[0], api.ContentTypePatch{Name: &name})
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Renamed to %s\n", ct.Name)
	return nil
}

func (a *App) RmType(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: rmtype <id>")
		return nil
	}
	if err := a.store.DeleteContentType(ctx, args[0]); err != nil {
		a.println(err.Error())
		return err
	}
	a.println("Deleted. Entries of this type are gone with it.")
	return nil
}

// AddField derives the field id from the display name, so "addfield <id>
// shortText Subtitle Text" yields the id "subtitleText".
func (a *App) AddField(ctx context.Context, args []string) error {
	if len(args) < 3 {
		a.printf("Usage: addfield <typeID> <kind> <name>\nKinds: %s\n", kindList())
		return nil
	}
	kind, err := domain.ParseFieldKind(args[1])
	if err != nil {
		a.println(err.Error())
		return err
	}
	name := strings.Join(args[2:], " ")
	field := domain.FieldDef{
		ID:   domain.FieldID(name),
		Name: name,
		Type: kind,
	}
	ct, err := a.store.AddField(ctx, args[0], field)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Added field %s (%s) to %s\n", field.ID, field.Type, ct.Name)
	return nil
}

func kindList() string {
	kinds := domain.Kinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return strings.Join(out, ", ")
}
