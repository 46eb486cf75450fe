package datamanager

// DataManager reads and writes whole JSON documents addressed by name.
// A document is expected to hold a list of records.
type DataManager interface {
	// Save overwrites the named document with data in full.
	Save(name string, data interface{}) error

	// Load decodes the named document into out, which must point to a slice.
	// Missing, empty and syntactically invalid documents decode as an empty list;
	// the invalid ones are reset on disk. Valid JSON that does not fit out is an error.
	Load(name string, out interface{}) error
}
