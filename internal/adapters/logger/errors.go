package logger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// messager is implemented by zerr errors: Message returns the error's own
// message without its cause chain.
type messager interface {
	Message() string
}

// metadataer is implemented by zerr errors carrying key/value metadata.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. A non-zerr error ends the walk
// with its full message.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error()})
			break
		}

		entry := ErrorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders the chain as
//
//	Error: <message>
//	       key: value
//
//	  Caused by:
//	    → <cause>
func formatErrorEntries(entries []ErrorEntry) string {
	var out []string
	causes := 0
	for i, entry := range entries {
		lines := strings.Split(entry.Message, "\n")

		if i == 0 {
			out = append(out, "Error: "+lines[0])
			for _, line := range lines[1:] {
				out = append(out, "       "+line)
			}
			out = append(out, formatMetadata("       ", entry.Metadata)...)
			continue
		}

		if entry.Message == "" && len(entry.Metadata) == 0 {
			continue
		}
		if causes == 0 {
			out = append(out, "", "  Caused by:")
		}
		causes++
		out = append(out, "    → "+lines[0])
		for _, line := range lines[1:] {
			out = append(out, "      "+line)
		}
		out = append(out, formatMetadata("      ", entry.Metadata)...)
	}
	return strings.Join(out, "\n")
}

func formatMetadata(indent string, md map[string]any) []string {
	if len(md) == 0 {
		return nil
	}
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, md[k]))
	}
	return lines
}
