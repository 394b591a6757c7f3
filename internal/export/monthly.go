package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/spendsort/internal/model"
)

// exportsDir is the subdirectory for export files.
const exportsDir = "exports"

// UndatedDir holds rows whose date could not be parsed.
const UndatedDir = "undated"

// WriteMonthly splits txns by calendar month and writes each group to
// <repoRoot>/exports/YYYY-MM/<name>.csv, replacing any earlier export of the
// same name. Use UploadName to keep exports of different uploads apart. It returns the written paths relative to repoRoot, sorted.
func WriteMonthly(repoRoot, name string, txns []model.CategorizedTransaction) ([]string, error) {
	name = exportName(name)

	byMonth := map[string][]model.CategorizedTransaction{}
	for _, t := range txns {
		month := UndatedDir
		if d, ok := t.ParsedDate(); ok {
			month = d.Format("2006-01")
		}
		byMonth[month] = append(byMonth[month], t)
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	var written []string
	for _, m := range months {
		rel := filepath.Join(exportsDir, m, name)
		if err := writeFile(filepath.Join(repoRoot, rel), byMonth[m]); err != nil {
			return written, err
		}
		written = append(written, rel)
	}
	return written, nil
}

// hashChars is how much of the upload hash goes into an export name.
const hashChars = 8

// UploadName returns the export name for an imported file: its base name
// plus a prefix of the file hash, so uploads that share a file name (a
// bank's recurring activity.csv) do not replace each other's exports.
func UploadName(fileName, hash string) string {
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	if len(hash) > hashChars {
		hash = hash[:hashChars]
	}
	if hash == "" {
		return base + filepath.Ext(fileName)
	}
	return base + "-" + strings.ToLower(hash) + filepath.Ext(fileName)
}

// ReadMonth reads every export file for one month, in file name order.
func ReadMonth(repoRoot, month string) ([]model.CategorizedTransaction, error) {
	dir := filepath.Join(repoRoot, exportsDir, month)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading exports dir: %w", err)
	}

	var all []model.CategorizedTransaction
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", e.Name(), err)
		}
		txns, err := ReadTransactions(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		all = append(all, txns...)
	}
	return all, nil
}

func writeFile(path string, txns []model.CategorizedTransaction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := WriteTransactions(f, txns); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// exportName turns an import file name into an export file name.
func exportName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "transactions"
	}
	return base + ".csv"
}
