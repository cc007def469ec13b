package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ocx/dgo/snowflake"
)

// renameRecord is one resumption entry: a renamed user and the nickname
// applied (spec §6: `{u: snowflake, n: string}`).
type renameRecord struct {
	U snowflake.ID `json:"u"`
	N string       `json:"n"`
}

// loadResumeRecords tolerantly parses old_<guild>.txt, which may be a
// complete JSON array or a partially written one missing its closing `]`
// (spec §6: written that way deliberately, so a killed run can resume).
func loadResumeRecords(path string) (map[snowflake.ID]string, error) {
	done := map[snowflake.ID]string{}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return done, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	tok, err := dec.Token()
	if err != nil {
		return done, nil // empty or unreadable: treat as no prior progress
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("bulkrename: %s: expected JSON array", path)
	}

	for dec.More() {
		var rec renameRecord
		if err := dec.Decode(&rec); err != nil {
			break // stop at the first malformed/truncated trailing element
		}
		done[rec.U] = rec.N
	}
	return done, nil
}

// resumeWriter appends newly-renamed records to the resume file, leaving
// it deliberately unterminated until Finalize closes the array.
type resumeWriter struct {
	f     *os.File
	wrote bool
}

func openResumeWriter(path string, alreadyHasEntries bool) (*resumeWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if _, err := f.WriteString("["); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &resumeWriter{f: f, wrote: alreadyHasEntries}, nil
}

func (w *resumeWriter) Append(rec renameRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	prefix := ""
	if w.wrote {
		prefix = ","
	}
	if _, err := w.f.WriteString(prefix + string(data)); err != nil {
		return err
	}
	w.wrote = true
	return nil
}

func (w *resumeWriter) Close() error { return w.f.Close() }

// Finalize closes the JSON array, making the file valid standalone JSON.
// Safe to skip: loadResumeRecords tolerates the unterminated form too.
func (w *resumeWriter) Finalize() error {
	if _, err := w.f.WriteString("]"); err != nil {
		return err
	}
	return w.f.Close()
}
