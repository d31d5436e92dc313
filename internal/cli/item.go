package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/lockbox-mobile/lockbox/internal/vault/models"
	"github.com/lockbox-mobile/lockbox/internal/vault/projection"
	"github.com/lockbox-mobile/lockbox/internal/vault/store"
)

func parseCategory(arg string) (models.Category, bool) {
	c := models.Category(arg)
	return c, c.Valid()
}

// vault returns the gated store and projection, reporting the locked state
// to the user in one place.
func (a *App) vault() (*store.Store, *projection.Projection, bool) {
	st, err := a.session.Store()
	if err != nil {
		fmt.Println("Vault is locked. Use 'unlock' first.")
		return nil, nil, false
	}
	proj, _ := a.session.Projection()
	return st, proj, true
}

// list reloads the category from durable storage and prints it. Listing is
// the screen-focus event that refreshes the projection.
func (a *App) list(ctx context.Context, args []string) {
	_, proj, ok := a.vault()
	if !ok {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: list <category>")
		return
	}
	c, ok := parseCategory(args[0])
	if !ok {
		fmt.Println("Unknown category:", args[0])
		return
	}

	records, err := proj.Load(ctx, c)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, r := range records {
		fmt.Printf("  %s  %s  (updated %s)\n", r.ID, recordLabel(&r), r.UpdatedAt)
	}
}

func recordLabel(r *models.Record) string {
	if t := r.Fields["title"]; t != "" {
		return t
	}
	if t := r.Fields["type"]; t != "" {
		return t + " " + r.Fields["identifier"]
	}
	return "(untitled)"
}

func (a *App) show(ctx context.Context, args []string) {
	st, _, ok := a.vault()
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: show <category> <id>")
		return
	}
	c, ok := parseCategory(args[0])
	if !ok {
		fmt.Println("Unknown category:", args[0])
		return
	}

	rec, err := st.ReadOne(ctx, c, args[1])
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if rec == nil {
		fmt.Println("Not found.")
		return
	}

	masked, _ := a.maskSensitive(ctx)
	fmt.Printf("id:        %s\n", rec.ID)
	fmt.Printf("category:  %s\n", rec.Category)
	fmt.Printf("created:   %s\n", rec.CreatedAt)
	fmt.Printf("updated:   %s\n", rec.UpdatedAt)
	for k, v := range rec.Fields {
		if v == "" {
			continue
		}
		if masked && k == "password" {
			v = strings.Repeat("•", len(v))
		}
		fmt.Printf("%-10s %s\n", k+":", v)
	}
}

func (a *App) maskSensitive(ctx context.Context) (bool, error) {
	settings, err := a.session.Settings().Init(ctx)
	if err != nil {
		return true, err
	}
	return settings.MaskSensitiveData, nil
}

// edit prompts for field=value lines and applies them as a partial update.
func (a *App) edit(ctx context.Context, args []string) {
	st, proj, ok := a.vault()
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: edit <category> <id>")
		return
	}
	c, ok := parseCategory(args[0])
	if !ok {
		fmt.Println("Unknown category:", args[0])
		return
	}

	fmt.Println("Enter changes as field=value, one per line (empty line to finish)")
	partial := make(map[string]string)
	for {
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			fmt.Println("Expected field=value, got:", line)
			continue
		}
		partial[strings.TrimSpace(name)] = value
	}
	if len(partial) == 0 {
		fmt.Println("Nothing to change.")
		return
	}

	rec, err := st.Update(ctx, c, args[1], partial)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	proj.UpsertLocal(rec)
	fmt.Println("Updated.")
}

func (a *App) delete(ctx context.Context, args []string) {
	st, proj, ok := a.vault()
	if !ok {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: delete <category> <id>")
		return
	}
	c, ok := parseCategory(args[0])
	if !ok {
		fmt.Println("Unknown category:", args[0])
		return
	}

	if err := st.Delete(ctx, c, args[1]); err != nil {
		fmt.Println("error:", err)
		return
	}
	proj.RemoveLocal(c, args[1])
	fmt.Println("Deleted.")
}

// repair re-links orphaned records and prunes dangling entries in every
// category.
func (a *App) repair(ctx context.Context) {
	st, _, ok := a.vault()
	if !ok {
		return
	}
	for _, c := range models.Categories {
		if err := st.Repair(ctx, c); err != nil {
			fmt.Printf("error repairing %s: %v\n", c, err)
			return
		}
	}
	fmt.Println("Indexes repaired.")
}
