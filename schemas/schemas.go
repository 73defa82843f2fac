// Package schemas embeds the JSON Schemas for the deck configuration and the
// build manifest.
package schemas

import "embed"

// Files holds every *.schema.json in this directory.
//
//go:embed *.schema.json
var Files embed.FS

const (
	// Deck validates deck.json.
	Deck = "deck.schema.json"
	// Manifest validates the manifest.json written by a build.
	Manifest = "manifest.schema.json"
)
