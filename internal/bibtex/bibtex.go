// Package bibtex defines the bibliographic entry model and its text format.
package bibtex

import "strings"

// Field is one name/value pair in an entry. Field order within an entry
// is preserved from the source file so the output round-trips.
type Field struct {
	Name  string
	Value string
}

// Entry represents a single bibliographic record.
type Entry struct {
	Type   string  // Entry type (article, book, ...), lowercase
	Key    string  // Citation key, unique within a bibliography
	Fields []Field // Fields in source order, names lowercase
}

// Get returns the value of the named field.
func (e *Entry) Get(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Has reports whether the entry contains the named field.
func (e *Entry) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set replaces the named field in place, or appends it if absent.
func (e *Entry) Set(name, value string) {
	name = strings.ToLower(name)
	for i, f := range e.Fields {
		if f.Name == name {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// Delete removes the named field, reporting whether it was present.
func (e *Entry) Delete(name string) bool {
	name = strings.ToLower(name)
	for i, f := range e.Fields {
		if f.Name == name {
			e.Fields = append(e.Fields[:i], e.Fields[i+1:]...)
			return true
		}
	}
	return false
}

// Bibliography is an ordered sequence of entries, in source-file order.
type Bibliography struct {
	Entries []Entry
}

// Keys returns the citation keys in bibliography order.
func (b *Bibliography) Keys() []string {
	keys := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		keys[i] = e.Key
	}
	return keys
}
