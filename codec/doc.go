// Package codec holds the byte encodings a settings document can be stored
// in. Every codec parses to and renders from the generic tree of package ir;
// the rest of the system never touches bytes.
//
// The codec for a file is picked by extension: .json (pretty JSON), .bin
// (compact JSON), .yaml/.yml, .toml. Unknown extensions fall back to pretty
// JSON.
package codec
