package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/lockbox-mobile/lockbox/internal/vault/models"
)

func (a *App) add(ctx context.Context, args []string) {
	st, proj, ok := a.vault()
	if !ok {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: add <category>")
		return
	}
	c, ok := parseCategory(args[0])
	if !ok {
		fmt.Println("Unknown category:", args[0])
		return
	}

	var (
		variant models.Variant
		err     error
	)
	switch c {
	case models.CategoryCredential:
		variant, err = a.promptCredential()
	case models.CategoryPersonalInfo:
		variant, err = a.promptPersonalInfo()
	case models.CategoryNote:
		variant, err = a.promptNote()
	}
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	rec, err := st.CreateVariant(ctx, variant)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	proj.UpsertLocal(rec)
	fmt.Println("Created", rec.ID)
}

func (a *App) promptCredential() (models.Variant, error) {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return nil, err
	}
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return nil, err
	}
	password, err := GetPassword(os.Stdout, "Password: ")
	if err != nil {
		return nil, err
	}
	website, err := GetSimpleText(a.reader, "Website", os.Stdout)
	if err != nil {
		return nil, err
	}
	notes, err := GetSimpleText(a.reader, "Notes", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.Credential{
		Title:    title,
		Username: username,
		Password: string(password),
		Website:  website,
		Notes:    notes,
	}, nil
}

func (a *App) promptPersonalInfo() (models.Variant, error) {
	typ, err := GetSimpleText(a.reader, "Type (passport, license, ...)", os.Stdout)
	if err != nil {
		return nil, err
	}
	identifier, err := GetSimpleText(a.reader, "Identifier / number", os.Stdout)
	if err != nil {
		return nil, err
	}
	issueDate, err := GetSimpleText(a.reader, "Issue date (YYYY-MM-DD, optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	expiryDate, err := GetSimpleText(a.reader, "Expiry date (YYYY-MM-DD, optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	authority, err := GetSimpleText(a.reader, "Issuing authority", os.Stdout)
	if err != nil {
		return nil, err
	}
	notes, err := GetSimpleText(a.reader, "Notes", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.PersonalInfo{
		Type:             typ,
		Identifier:       identifier,
		IssueDate:        issueDate,
		ExpiryDate:       expiryDate,
		IssuingAuthority: authority,
		Notes:            notes,
	}, nil
}

func (a *App) promptNote() (models.Variant, error) {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return nil, err
	}
	content, err := GetMultiline(a.reader, "Content", os.Stdout)
	if err != nil {
		return nil, err
	}
	label, err := GetSimpleText(a.reader, "Label (optional)", os.Stdout)
	if err != nil {
		return nil, err
	}
	return models.Note{Title: title, Content: content, Label: label}, nil
}
