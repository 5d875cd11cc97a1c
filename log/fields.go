package log

// WithDID returns a Fields map pre-populated with the identifier under
// discussion, ready to be merged with additional contextual values before
// being passed to Logger.WithFields.
func WithDID(did string) Fields {
	return Fields{"did": did}
}

// WithEntry returns a Fields map describing a single log-entry operation,
// suitable for the messages emitted by the log engine while appending or
// replaying entries.
func WithEntry(did string, versionID int, entryHash string) Fields {
	return Fields{
		"did":        did,
		"version_id": versionID,
		"entry_hash": entryHash,
	}
}

// WithVersionTime extends a Fields map with the version timestamp of a log
// entry, formatted as the logger backend expects (RFC3339).
func WithVersionTime(f Fields, versionTime string) Fields {
	if f == nil {
		f = Fields{}
	}
	f["version_time"] = versionTime
	return f
}
