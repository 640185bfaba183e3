package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PolarWolf314/keysmith/internal/audit"
	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

const (
	auditTimestampLayout = "2006-01-02T15:04:05.000000Z"
	dateLayout           = "2006-01-02"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// Name filters entries by secret or key pair name.
	Name string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// ReadLog reads and filters the audit log of the key directory.
//
// A missing log yields no entries. Returns ErrValidation if a date is not
// YYYY-MM-DD.
func ReadLog(ctx context.Context, env Env, opts LogOptions) (*LogResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := audit.ReadEntries(env.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := audit.Filter(entries, "", opts.Name)

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Since != "" {
		sinceTime, err := time.Parse(dateLayout, opts.Since)
		if err != nil {
			return nil, fmt.Errorf("--since date format invalid, use YYYY-MM-DD: %w", kerrors.ErrValidation)
		}
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.Before(sinceTime) })
	}

	if opts.Until != "" {
		untilTime, err := time.Parse(dateLayout, opts.Until)
		if err != nil {
			return nil, fmt.Errorf("--until date format invalid, use YYYY-MM-DD: %w", kerrors.ErrValidation)
		}
		// Include the entire day.
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.After(untilTime) })
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// Limit keeps the most recent entries in either order.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToLower(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

// filterTime keeps entries whose timestamp satisfies keep. Entries with
// unparseable timestamps are dropped.
func filterTime(entries []audit.Entry, keep func(time.Time) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, err := parseTimestamp(e.Timestamp)
		if err != nil {
			continue
		}
		if keep(t) {
			result = append(result, e)
		}
	}
	return result
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(auditTimestampLayout, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails summarizes an entry's subject for one line of output.
func FormatDetails(e audit.Entry) string {
	subject := e.Name
	if e.Version > 0 {
		subject = fmt.Sprintf("%s v%d", subject, e.Version)
	}
	if e.Index != "" {
		subject = fmt.Sprintf("%s [%s]", subject, e.Index)
	}

	switch e.Operation {
	case audit.OpEncrypt, audit.OpDecrypt:
		switch {
		case len(e.Files) == 0:
			return subject
		case len(e.Files) > 3:
			return fmt.Sprintf("%s, %d files", subject, len(e.Files))
		}
		return fmt.Sprintf("%s, %s", subject, strings.Join(e.Files, ", "))
	case audit.OpExport:
		if len(e.Files) > 0 {
			return fmt.Sprintf("%s -> %s", subject, strings.Join(e.Files, ", "))
		}
	}
	return subject
}
