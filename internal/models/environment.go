// Package models defines the vault records LoginKeeper stores: login
// environments and the credentials scoped to them.
package models

// Environment is a registered login endpoint plus the hints the extension
// uses to submit its form.
type Environment struct {
	// Id is a globally unique identifier, assigned at creation, immutable.
	Id string

	// Name is the display label shown in the picker.
	Name string

	// LoginURL is the canonical login page URL. It may end with a "/*"
	// wildcard suffix, in which case any URL under the prefix matches.
	LoginURL string

	// LoginButtonId and LoginButtonClass are optional CSS-selector hints
	// the form filler uses to find the submit control.
	LoginButtonId    string
	LoginButtonClass string

	// Position is the registration order. It determines match precedence
	// when two environments normalize to the same login URL.
	Position int64
}
