package citation

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/mohammad-safakhou/citer/internal/helpers"
	"go.uber.org/zap"
)

const (
	DefaultLogFile    = "citations_output.txt"
	DefaultExportFile = "citations.txt"

	logHeader    = "Citations Output"
	ruleWidth    = 60
	unknownStyle = Style("unknown")
)

var (
	styledBlockPattern  = regexp.MustCompile(`(?m)^Style:[ \t]+(\w+)[ \t]*\r?\nSource:[ \t]+([^\r\n]+?)[ \t]*\r?$`)
	legacySourcePattern = regexp.MustCompile(`(?m)^Source[ \t]+\d+:[ \t]+([^\r\n]+?)[ \t]*\r?$`)
	legacyHeaderPattern = regexp.MustCompile(`(?im)^Citations[ \t]+\((\w+)[ \t]+Style\)`)

	lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// oneLine keeps a value on a single log line so it cannot start a block of
// its own.
func oneLine(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}

// SeenSet maps a source URL to the styles already written for it.
type SeenSet map[string]map[Style]struct{}

func (s SeenSet) Has(source string, style Style) bool {
	_, ok := s[source][style]
	return ok
}

func (s SeenSet) add(source string, style Style) {
	styles, ok := s[source]
	if !ok {
		styles = make(map[Style]struct{})
		s[source] = styles
	}
	styles[style] = struct{}{}
}

// ScanLog rebuilds the (source, style) pairs recorded in log text. Current
// blocks open with a "Style: X" line directly followed by "Source: url"; only
// that line pair counts, whatever the rest of the block says. Numbered
// "Source N: url" lines from the older export-shaped layout are attributed to
// the single style named by a "Citations (X Style)" header, or to "unknown".
func ScanLog(content string) SeenSet {
	seen := SeenSet{}
	for _, m := range styledBlockPattern.FindAllStringSubmatch(content, -1) {
		seen.add(m[2], Style(strings.ToLower(m[1])))
	}

	legacy := unknownStyle
	if m := legacyHeaderPattern.FindStringSubmatch(content); m != nil {
		legacy = Style(strings.ToLower(m[1]))
	}
	for _, m := range legacySourcePattern.FindAllStringSubmatch(content, -1) {
		seen.add(m[1], legacy)
	}
	return seen
}

// OutputLog is the append-only plain-text record of every citation generated.
// The file is re-read before each append so repeated runs never write the
// same (source, style) pair twice. There is no cross-process locking.
type OutputLog struct {
	path   string
	index  Index
	logger *zap.Logger
}

// NewOutputLog writes to path. index is optional; when set it is consulted and
// updated alongside the file scan.
func NewOutputLog(path string, index Index, logger *zap.Logger) *OutputLog {
	if path == "" {
		path = DefaultLogFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OutputLog{path: path, index: index, logger: logger.Named("outputlog")}
}

func (l *OutputLog) Path() string { return l.path }

// Existing reads the log in full. A missing file is an empty set.
func (l *OutputLog) Existing() (SeenSet, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return SeenSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ScanLog(string(data)), nil
}

// Append writes the entries not yet recorded under style and reports how many
// were written.
func (l *OutputLog) Append(ctx context.Context, style Style, entries []Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	existing, err := l.Existing()
	if err != nil {
		return 0, fmt.Errorf("read output log: %w", err)
	}

	var fresh []Entry
	for _, e := range entries {
		source := oneLine(e.URL)
		if existing.Has(source, style) {
			continue
		}
		if l.index != nil {
			seen, err := l.index.Seen(ctx, source, style)
			if err != nil {
				l.logger.Warn("dedup index lookup failed", zap.String("source", source), zap.Error(err))
			} else if seen {
				continue
			}
		}
		e.URL = source
		fresh = append(fresh, e)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	info, statErr := os.Stat(l.path)
	empty := statErr != nil || info.Size() == 0

	var b strings.Builder
	if empty {
		b.WriteString(logHeader + "\n")
		b.WriteString(strings.Repeat("=", ruleWidth) + "\n\n")
	}
	for _, e := range fresh {
		b.WriteString("Style: " + strings.ToUpper(string(style)) + "\n")
		b.WriteString("Source: " + e.URL + "\n")
		writeRecordLines(&b, e.Record)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open output log: %w", err)
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("write output log: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close output log: %w", err)
	}

	if l.index != nil {
		for _, e := range fresh {
			if err := l.index.Mark(ctx, e.URL, style); err != nil {
				l.logger.Warn("dedup index update failed", zap.String("source", e.URL), zap.Error(err))
			}
		}
	}
	return len(fresh), nil
}

// writeRecordLines emits the in-text and reference lines plus the block
// separator shared by the log and export layouts.
func writeRecordLines(b *strings.Builder, rec Record) {
	b.WriteString("In-text citation: " + oneLine(helpers.StripHTMLTags(rec.InText)) + "\n")
	b.WriteString("Reference list entry: " + oneLine(helpers.StripHTMLTags(rec.Reference)) + "\n")
	b.WriteString("\n" + strings.Repeat("-", ruleWidth) + "\n\n")
}
