package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"store-backend/internal/apperrors"
	"store-backend/internal/models"
)

type fakeArchive struct {
	names []string
	err   error
}

func (f *fakeArchive) Put(ctx context.Context, name, contentType string, body []byte) error {
	f.names = append(f.names, name)
	return f.err
}

func samplePOs() []models.PurchaseOrder {
	vrdate := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	return []models.PurchaseOrder{{
		VoucherNumber: "U3/25/0012",
		VoucherDate:   &vrdate,
		VendorName:    "Shree Ganesh Traders",
		ItemName:      "MS Plate 10mm, grade \"A\"",
		UOM:           "KG",
		QtyOrder:      decimal.NewNullDecimal(decimal.NewFromInt(500)),
		QtyExecute:    decimal.NewNullDecimal(decimal.NewFromInt(200)),
		BalanceQty:    decimal.NewNullDecimal(decimal.NewFromInt(300)),
	}}
}

func newTestReportService(archive Archiver) *ReportService {
	svc := NewReportService(archive, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestRenderCSV(t *testing.T) {
	body, err := RenderCSV(PendingPOTable(samplePOs()))
	require.NoError(t, err)

	want := "Planned,PO No,PO Date,Vendor,Item,UM,Ordered,Executed,Balance\n" +
		",U3/25/0012,03-05-2025,Shree Ganesh Traders,\"MS Plate 10mm, grade \"\"A\"\"\",KG,500,200,300\n"
	assert.Equal(t, want, string(body))
}

func TestReportService_ExportPDF(t *testing.T) {
	archive := &fakeArchive{}
	svc := newTestReportService(archive)

	d, err := svc.Export(context.Background(), PendingPOTable(samplePOs()), "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.Equal(t, "po-pending-2025-06-02T09-30-00.pdf", d.FileName)
	assert.True(t, bytes.HasPrefix(d.Body, []byte("%PDF")))
	assert.Equal(t, []string{d.FileName}, archive.names)
}

func TestReportService_ExportManyPages(t *testing.T) {
	rows := make([]models.StoreIndent, 120)
	for i := range rows {
		rows[i] = models.StoreIndent{IndentNumber: "SR/25/" + string(rune('A'+i%26)), ItemName: "Very long item description that will not fit in its column"}
	}
	svc := newTestReportService(nil)

	d, err := svc.Export(context.Background(), IndentHistoryTable(rows), "PDF")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(d.Body, []byte("%PDF")))
}

func TestReportService_ArchiveFailureIsIgnored(t *testing.T) {
	svc := newTestReportService(&fakeArchive{err: errors.New("bucket gone")})

	d, err := svc.Export(context.Background(), POHistoryTable(nil), "csv")
	require.NoError(t, err)
	assert.Equal(t, "po-history-2025-06-02T09-30-00.csv", d.FileName)
	assert.Equal(t, contentTypeCSV, d.ContentType)
}

func TestReportService_UnsupportedFormat(t *testing.T) {
	_, err := newTestReportService(nil).Export(context.Background(), PendingIndentTable(nil), "xlsx")
	assert.True(t, apperrors.IsValidation(err))
}

func TestDownloadFileName(t *testing.T) {
	assert.Equal(t, "export-2025-06-02T09-30-00.pdf", DownloadFileName("", fixedNow, "pdf"))
	assert.Equal(t, "store-indent-history-2025-06-02T09-30-00.csv", DownloadFileName(" store indent  history ", fixedNow, "csv"))
}

func TestFitCell(t *testing.T) {
	assert.Equal(t, "short", fitCell("short", 40))
	got := fitCell("a very long description for a narrow cell", 20)
	assert.Equal(t, "a very lo...", got)
}
