package report

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"subprobe/internal/enum"
)

// Format of a results file, picked from its extension.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatCSV
	FormatHTML
)

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".csv":
		return FormatCSV
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatText
	}
}

// File persists the discovered subdomains. The file is created up front so
// an unwritable path is reported before any lookup is made.
type File struct {
	path   string
	format Format
	file   *os.File
}

func NewFile(path string) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}

	return &File{
		path:   path,
		format: FormatFromPath(path),
		file:   f,
	}, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Report(_ context.Context, scan Scan) error {
	if f.file == nil {
		return fmt.Errorf("output file %s already closed", f.path)
	}

	w := bufio.NewWriter(f.file)

	var err error
	switch f.format {
	case FormatJSON:
		err = writeJSON(w, scan)
	case FormatCSV:
		err = writeCSV(w, scan)
	case FormatHTML:
		err = writeHTML(w, scan)
	default:
		err = writeText(w, scan)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", f.path, err)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return f.Close()
}

// Close is safe to call more than once.
func (f *File) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

func writeText(w *bufio.Writer, scan Scan) error {
	for _, res := range scan.Results {
		if _, err := w.WriteString(res.Subdomain + "\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w *bufio.Writer, scan Scan) error {
	doc := struct {
		Domain   string             `json:"domain"`
		Wildcard []string           `json:"wildcard,omitempty"`
		Results  []enum.Result      `json:"results"`
		Stats    enum.StatsSnapshot `json:"stats"`
	}{
		Domain:  scan.Domain,
		Results: scan.Results,
		Stats:   scan.Stats,
	}
	if scan.Wildcard != nil {
		for _, ip := range scan.Wildcard.Addrs() {
			doc.Wildcard = append(doc.Wildcard, ip.String())
		}
	}
	if doc.Results == nil {
		doc.Results = []enum.Result{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func writeCSV(w *bufio.Writer, scan Scan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"subdomain", "addresses", "wildcard", "timestamp"}); err != nil {
		return err
	}
	for _, res := range scan.Results {
		err := cw.Write([]string{
			res.Subdomain,
			strings.Join(res.AddressStrings(), " "),
			strconv.FormatBool(res.Wildcard),
			res.Timestamp.Format(time.RFC3339),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
