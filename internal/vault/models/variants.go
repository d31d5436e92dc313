package models

import (
	"strings"
	"time"

	"github.com/lockbox-mobile/lockbox/internal/common"
)

// Variant is a typed view of one category's field set. The store accepts
// either a Variant or a raw field map checked by ValidateFields; the typed
// forms exist so schema drift is caught at compile time.
type Variant interface {
	Category() Category
	Fields() map[string]string
	Validate() error
}

// Credential stores a login for a website or service.
type Credential struct {
	Title    string
	Username string
	Password string
	Website  string
	Notes    string
}

func (c Credential) Category() Category { return CategoryCredential }

func (c Credential) Fields() map[string]string {
	return map[string]string{
		"title":    c.Title,
		"username": c.Username,
		"password": c.Password,
		"website":  c.Website,
		"notes":    c.Notes,
	}
}

func (c Credential) Validate() error {
	if isBlank(c.Title) {
		return &common.ValidationError{Field: "title", Reason: "required"}
	}
	return nil
}

// PersonalInfo stores an identity document or similar personal record.
type PersonalInfo struct {
	Type             string
	Identifier       string
	IssueDate        string
	ExpiryDate       string
	IssuingAuthority string
	Notes            string
}

func (p PersonalInfo) Category() Category { return CategoryPersonalInfo }

func (p PersonalInfo) Fields() map[string]string {
	return map[string]string{
		"type":             p.Type,
		"identifier":       p.Identifier,
		"issueDate":        p.IssueDate,
		"expiryDate":       p.ExpiryDate,
		"issuingAuthority": p.IssuingAuthority,
		"notes":            p.Notes,
	}
}

func (p PersonalInfo) Validate() error {
	if isBlank(p.Type) {
		return &common.ValidationError{Field: "type", Reason: "required"}
	}
	if isBlank(p.Identifier) {
		return &common.ValidationError{Field: "identifier", Reason: "required"}
	}
	if err := validDate("issueDate", p.IssueDate); err != nil {
		return err
	}
	return validDate("expiryDate", p.ExpiryDate)
}

// Note stores free-form text.
type Note struct {
	Title   string
	Content string
	Label   string
}

func (n Note) Category() Category { return CategoryNote }

func (n Note) Fields() map[string]string {
	return map[string]string{
		"title":   n.Title,
		"content": n.Content,
		"label":   n.Label,
	}
}

func (n Note) Validate() error {
	if isBlank(n.Title) {
		return &common.ValidationError{Field: "title", Reason: "required"}
	}
	if isBlank(n.Content) {
		return &common.ValidationError{Field: "content", Reason: "required"}
	}
	return nil
}

// ValidateFields checks a raw field map against the category's rules, the
// same rules the typed variants enforce.
func ValidateFields(c Category, fields map[string]string) error {
	switch c {
	case CategoryCredential:
		return Credential{Title: fields["title"]}.Validate()
	case CategoryPersonalInfo:
		return PersonalInfo{
			Type:       fields["type"],
			Identifier: fields["identifier"],
			IssueDate:  fields["issueDate"],
			ExpiryDate: fields["expiryDate"],
		}.Validate()
	case CategoryNote:
		return Note{Title: fields["title"], Content: fields["content"]}.Validate()
	default:
		return &common.ValidationError{Field: "category", Reason: "unknown category"}
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validDate accepts empty values; when present the value must be YYYY-MM-DD.
func validDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return &common.ValidationError{Field: field, Reason: "must be YYYY-MM-DD"}
	}
	return nil
}
