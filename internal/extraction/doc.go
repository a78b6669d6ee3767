// Package extraction turns PNLD offence wording into numbered placeholder text.
//
// Each text field is split on a double line break into chunks. A chunk is
// classified by an ordered rule list (first match wins) as a menu, a
// terminal-entry chunk or prose. Fill-in markers and option-block runs are
// replaced by content-addressed placeholders ({md5}) while an Accumulator
// records entry metadata, menus and an audit of sequence numbers.
//
// Once every field of a record is extracted, the identity unifier keeps the
// lowest sequence number per hash and rewrites placeholders to {n}; the menu
// finalizer then binds each menu hash to the offence code and prompt.
//
// Everything in this package is pure and safe to run concurrently on
// different records. An Accumulator is scoped to one record and must not be
// shared.
package extraction
