package cli

import (
	"context"
	"encoding/json"
	"strings"

	"cmsadmin/internal/api"
)

func (a *App) Entries(ctx context.Context, args []string) error {
	filter := ""
	if len(args) > 0 {
		filter = args[0]
	}
	if _, err := a.store.LoadEntries(ctx, filter); err != nil {
		a.println(err.Error())
		return err
	}
	views := a.store.EntryViews()
	if len(views) == 0 {
		a.println("No entries.")
		return nil
	}
	for _, v := range views {
		typeName := v.ContentTypeID
		if ct, ok := a.store.ContentTypeByID(ctx, v.ContentTypeID); ok {
			typeName = ct.Name
		}
		a.printf("%s  [%s]  %-9s  %s\n", v.ID, typeName, v.Status, v.Title)
	}
	return nil
}

func (a *App) MkEntry(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Usage: mkentry <typeID> <title>")
		return nil
	}
	title := strings.Join(args[1:], " ")
	entry, err := a.store.CreateEntry(ctx, args[0], title, nil)
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Created draft %s\n", entry.ID)
	return nil
}

// SetField patches one field of an entry. The value is parsed as JSON when
// possible ("42", "true", `{"text":"…"}`); anything unparsable is sent as a
// plain string.
func (a *App) SetField(ctx context.Context, args []string) error {
	if len(args) < 3 {
		a.println("Usage: setfield <entryID> <fieldID> <value>")
		return nil
	}
	entry, ok := a.store.EntryByID(args[0])
	if !ok {
		a.println("Entry not found:", args[0])
		return nil
	}
	raw := strings.Join(args[2:], " ")
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	fields := make(map[string]any, len(entry.Fields)+1)
	for k, v := range entry.Fields {
		fields[k] = v
	}
	fields[args[1]] = value

	updated, err := a.store.UpdateEntry(ctx, args[0], api.EntryPatch{Fields: &fields})
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("Updated %s\n", updated.ID)
	return nil
}

func (a *App) Publish(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: publish <entryID>")
		return nil
	}
	entry, err := a.store.PublishEntry(ctx, args[0])
	if err != nil {
		a.println(err.Error())
		return err
	}
	a.printf("%s is %s\n", entry.ID, entry.Status)
	return nil
}

func (a *App) RmEntry(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: rment <entryID>")
		return nil
	}
	if err := a.store.DeleteEntry(ctx, args[0]); err != nil {
		a.println(err.Error())
		return err
	}
	a.println("Deleted.")
	return nil
}
