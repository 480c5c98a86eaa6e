package models

import "github.com/google/uuid"

// Well-known document keys. Everything else in a Document is opaque to the server.
const (
	IDField     = "_id"
	EmailField  = "email"
	StatusField = "status"
)

// Document is a schemaless record as stored and returned by the document store
type Document map[string]interface{}

// String returns the string value stored under key, or "" when absent or not a string
func (d Document) String(key string) string {
	if v, ok := d[key].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy of the document
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// WithID returns a copy of the document carrying id under "_id"
func (d Document) WithID(id uuid.UUID) Document {
	out := d.Clone()
	out[IDField] = id.String()
	return out
}

// WithoutID returns a copy without the "_id" key; the store owns identifiers
func (d Document) WithoutID() Document {
	out := d.Clone()
	delete(out, IDField)
	return out
}
