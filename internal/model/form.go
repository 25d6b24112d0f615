package model

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Form is an ordered collection of questions plus metadata.
// swagger:model Form
type Form struct {
	UUIDBase
	// Slug is the optional human-assigned identifier.
	Slug        *string   `gorm:"uniqueIndex;size:191" json:"slug,omitempty"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Questions   Questions `gorm:"type:json" json:"questions"`
}

func (Form) TableName() string {
	return "forms"
}

// PublicID is the identifier handed to clients: the slug when one was
// assigned, the system identifier otherwise.
func (f Form) PublicID() string {
	if f.Slug != nil && *f.Slug != "" {
		return *f.Slug
	}
	return f.ID
}

// FormContent is the mutable part of a form.
type FormContent struct {
	Title       string
	Description string
	Questions   Questions
}

type RefKind int

const (
	RefSlug RefKind = iota
	RefSystem
)

func (k RefKind) String() string {
	if k == RefSlug {
		return "slug"
	}
	return "system"
}

// FormRef names a form by one of its two identifier spaces.
type FormRef struct {
	Kind  RefKind
	Value string
}

func SlugRef(v string) FormRef   { return FormRef{Kind: RefSlug, Value: v} }
func SystemRef(v string) FormRef { return FormRef{Kind: RefSystem, Value: v} }

// CandidateRefs lists the interpretations of a raw identifier in lookup
// order: human slug first, system identifier second.
func CandidateRefs(raw string) []FormRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return []FormRef{SlugRef(raw), SystemRef(raw)}
}

const maxSlugLen = 64

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// LooksLikeSystemID reports whether s has the shape of a generated
// identifier (uuid or Mongo ObjectID).
func LooksLikeSystemID(s string) bool {
	if objectIDPattern.MatchString(s) {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func ValidateSlug(slug string) error {
	if len(slug) > maxSlugLen {
		return errors.New("slug is too long")
	}
	if !slugPattern.MatchString(slug) {
		return errors.New("slug may only contain lowercase letters, digits and single dashes")
	}
	if LooksLikeSystemID(slug) {
		return errors.New("slug must not look like a generated identifier")
	}
	return nil
}
