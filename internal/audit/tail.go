package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Tail reads the last n entries from a JSONL audit log.
// Malformed lines are skipped; tampering is Verify's concern, not Tail's.
func Tail(path string, n int) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan: %w", err)
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}

// FormatText renders entries as a human-readable table, one line each.
func FormatText(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		subject := e.UserID
		if e.DataType != "" {
			subject += "/" + e.DataType
		}
		b.WriteString(fmt.Sprintf("%-24s %-22s %-28s %s\n",
			e.Timestamp, e.Event, subject, e.Detail))
	}
	return b.String()
}
