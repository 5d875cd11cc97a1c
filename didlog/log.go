package didlog

import (
	"bufio"
	"encoding/json"
	"io"

	"go.didvh.dev/didlog/errors"
)

// DIDLog is the ordered, hash-chained sequence of entries that constitutes
// the authoritative history of a DID. An empty log is invalid; a log's
// identity is its genesis entry's EntryHash.
type DIDLog []LogEntry

// ReadLog parses a log persisted as one JSON-encoded LogEntry array per
// line. No header or trailing metadata is expected.
func ReadLog(r io.Reader) (DIDLog, error) {
	var log DIDLog
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, errors.Wrapf(err, "decode log entry at line %d", lineNo)
		}
		log = append(log, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read log")
	}
	if len(log) == 0 {
		return nil, errors.New("empty log")
	}
	return log, nil
}

// WriteLog persists a log as one JSON-encoded LogEntry array per line.
func WriteLog(w io.Writer, log DIDLog) error {
	if len(log) == 0 {
		return errors.New("empty log")
	}
	for i, entry := range log {
		b, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrapf(err, "encode log entry %d", i)
		}
		if _, err := w.Write(append(b, '\n')); err != nil {
			return errors.Wrapf(err, "write log entry %d", i)
		}
	}
	return nil
}
