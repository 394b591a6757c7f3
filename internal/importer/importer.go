// Package importer reads bank and card statement exports into transactions.
package importer

import (
	"crypto/md5" //nolint:gosec // file fingerprint, not a security boundary
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ryanuber/go-glob"

	"github.com/cleared-dev/spendsort/internal/model"
)

var (
	// ErrMissingColumn is returned when no description or amount column can
	// be identified.
	ErrMissingColumn = errors.New("required column not found")
	// ErrUnknownFormat is returned for a format no parser handles.
	ErrUnknownFormat = errors.New("unknown import format")
)

// FormatAuto picks a parser from the file extension.
const FormatAuto = "auto"

// Stats counts what a parser did with the rows of a file.
type Stats struct {
	Rows    int // data rows read, excluding the header
	Skipped int // rows dropped for a blank description or unusable amount
}

// Parser converts a statement export into Transactions.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, Stats, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{})
	r.Register(&ChaseParser{})
	r.Register(&XLSXParser{})
	return r
}

// Detect returns the parser for a file. With FormatAuto (or "") the
// extension decides: spreadsheets go to xlsx, everything else to csv.
func (r *Registry) Detect(fileName, format string) (Parser, error) {
	if format == "" || strings.EqualFold(format, FormatAuto) {
		switch strings.ToLower(filepath.Ext(fileName)) {
		case ".xlsx", ".xlsm":
			format = "xlsx"
		default:
			format = "csv"
		}
	}
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return p, nil
}

// importDir is the subdirectory for statement files.
const importDir = "import"

// processedDir is the subdirectory for processed files.
const processedDir = "import/processed"

// DefaultPatterns are the file name patterns Scan picks up.
var DefaultPatterns = []string{"*.csv", "*.xlsx", "*.xlsm"}

// Scan returns files in <repoRoot>/import/ whose lower-cased name matches
// one of patterns (DefaultPatterns when none are given).
func Scan(repoRoot string, patterns ...string) ([]FileInfo, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	dir := filepath.Join(repoRoot, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !matchAny(patterns, strings.ToLower(e.Name())) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if glob.Glob(strings.ToLower(p), name) {
			return true
		}
	}
	return false
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Hash returns the hex MD5 of a file's bytes, used to spot re-uploads.
func Hash(data []byte) string {
	sum := md5.Sum(data) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
