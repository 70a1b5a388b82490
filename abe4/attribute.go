package abe4

import (
	"fmt"
	"strings"

	"github.com/accless/abe4/internal/abeerrors"
)

// UserAttribute is a single qualified attribute a user holds, issued by one
// authority under one label. ("dept", "eng") under authority "hr" and label
// "clearance" is written Qualified{Auth: "hr", Label: "clearance", Attr: "eng"}.
type UserAttribute struct {
	Auth  string
	Label string
	Attr  string
}

// String renders the attribute as "auth.label:attr", the canonical form
// ParseUserAttribute decodes and policy leaves name attributes by.
func (a UserAttribute) String() string {
	return fmt.Sprintf("%s.%s:%s", a.Auth, a.Label, a.Attr)
}

// Equal reports whether a and other name the same (auth, label, attr) triple.
func (a UserAttribute) Equal(other UserAttribute) bool {
	return a.Auth == other.Auth && a.Label == other.Label && a.Attr == other.Attr
}

// Bucket returns the (auth, label) pair that Iota and Tau index by.
func (a UserAttribute) Bucket() (string, string) {
	return a.Auth, a.Label
}

// ParseUserAttribute splits a policy leaf's "auth.label:attr" text back into
// its three parts. Policy grammar identifiers are exactly this notation, so
// parsing a policy and parsing a user's attribute list share one encoding.
func ParseUserAttribute(s string) (UserAttribute, error) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return UserAttribute{}, abeerrors.New(abeerrors.KindParse, "attribute %q is not of the form auth.label:attr", s)
	}
	auth, rest := s[:dot], s[dot+1:]
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return UserAttribute{}, abeerrors.New(abeerrors.KindParse, "attribute %q is not of the form auth.label:attr", s)
	}
	label, attr := rest[:colon], rest[colon+1:]
	if auth == "" || label == "" || attr == "" {
		return UserAttribute{}, abeerrors.New(abeerrors.KindParse, "attribute %q is not of the form auth.label:attr", s)
	}
	return UserAttribute{Auth: auth, Label: label, Attr: attr}, nil
}
