package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf/v2"
	"go.uber.org/zap"

	"store-backend/internal/apperrors"
	"store-backend/internal/timeutil"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	contentTypePDF = "application/pdf"
	contentTypeCSV = "text/csv; charset=utf-8"
)

// Column is one report column; Width is in millimetres on landscape A4.
type Column struct {
	Header string
	Width  float64
}

// Table is a titled grid ready to render.
type Table struct {
	Title    string
	BaseName string
	Columns  []Column
	Rows     [][]string
}

// Download is a rendered report.
type Download struct {
	FileName    string
	ContentType string
	Body        []byte
}

// Archiver stores a copy of each rendered download.
type Archiver interface {
	Put(ctx context.Context, name, contentType string, body []byte) error
}

// ReportService renders list downloads and, when an archive is attached,
// copies each one to it.
type ReportService struct {
	archive Archiver
	now     func() time.Time
	log     *zap.Logger
}

// NewReportService accepts a nil archive.
func NewReportService(archive Archiver, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{archive: archive, now: time.Now, log: log.Named("report")}
}

// Export renders t in format (pdf when empty). Archive failures are logged
// and do not fail the download.
func (s *ReportService) Export(ctx context.Context, t Table, format string) (*Download, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatPDF
	}

	now := s.now()
	d := &Download{}
	var err error
	switch format {
	case FormatPDF:
		d.ContentType = contentTypePDF
		d.Body, err = s.RenderPDF(t, now)
	case FormatCSV:
		d.ContentType = contentTypeCSV
		d.Body, err = RenderCSV(t)
	default:
		return nil, apperrors.Validation("unsupported format %q", format)
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	d.FileName = DownloadFileName(t.BaseName, now, format)

	if s.archive != nil {
		if err := s.archive.Put(ctx, d.FileName, d.ContentType, d.Body); err != nil {
			s.log.Warn("archive upload failed", zap.String("file", d.FileName), zap.Error(err))
		}
	}
	return d, nil
}

// RenderPDF lays t out on landscape A4 pages, repeating the header row on
// each page.
func (s *ReportService) RenderPDF(t Table, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(200, 200, 200)
		for i, c := range t.Columns {
			ln := 0
			if i == len(t.Columns)-1 {
				ln = 1
			}
			pdf.CellFormat(c.Width, 7, fitCell(c.Header, c.Width), "1", ln, "C", true, 0, "")
		}
		pdf.SetFont("Arial", "", 7)
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 9, t.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s   Rows: %d", timeutil.FormatIST(generated, timeutil.DisplayLayout), len(t.Rows)), "", 1, "C", false, 0, "")
	pdf.Ln(3)
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range t.Rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i, c := range t.Columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			ln := 0
			if i == len(t.Columns)-1 {
				ln = 1
			}
			pdf.CellFormat(c.Width, 6, fitCell(v, c.Width), "1", ln, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderCSV writes the header row followed by every data row.
func RenderCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DownloadFileName is base-<UTC timestamp>.<ext>, safe for a file system.
func DownloadFileName(base string, now time.Time, ext string) string {
	base = strings.Join(strings.Fields(base), "-")
	if base == "" {
		base = "export"
	}
	stamp := now.UTC().Format("2006-01-02T15-04-05")
	return fmt.Sprintf("%s-%s.%s", base, stamp, ext)
}

// fitCell truncates v to roughly what fits in a 7pt Arial cell of width mm.
func fitCell(v string, width float64) string {
	limit := int(width / 1.6)
	if limit < 4 || utf8.RuneCountInString(v) <= limit {
		return v
	}
	r := []rune(v)
	return string(r[:limit-3]) + "..."
}
