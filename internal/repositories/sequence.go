package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"store-backend/internal/apperrors"
	"store-backend/internal/db"
	"store-backend/internal/metrics"
	"store-backend/internal/models"
)

// Advisory lock keys serializing request-number minting per form type.
const (
	IndentSequenceLockKey      int64 = 19101
	RequisitionSequenceLockKey int64 = 19102
)

type sequenceSpec struct {
	lockKey int64
	prefix  string
}

var sequences = map[string]sequenceSpec{
	models.FormTypeIndent:      {lockKey: IndentSequenceLockKey, prefix: "IND"},
	models.FormTypeRequisition: {lockKey: RequisitionSequenceLockKey, prefix: "REQ"},
}

// RequestNumberPrefix returns the identifier prefix for formType.
func RequestNumberPrefix(formType string) (string, bool) {
	form, ok := sequences[formType]
	return form.prefix, ok
}

// MaxSequenceDigits bounds the numeric suffix of a caller-supplied request
// number. Minted numbers stay well inside BIGINT even after the largest
// accepted suffix.
const MaxSequenceDigits = 12

// SequencePattern matches the request numbers that take part in minting
// for prefix. Identifiers with another prefix or an oversized suffix are
// ignored.
func SequencePattern(prefix string) string {
	return fmt.Sprintf(`^%s\d{1,%d}$`, regexp.QuoteMeta(prefix), MaxSequenceDigits+1)
}

// SequenceDigits returns the length of the trailing digit run of rn.
func SequenceDigits(rn string) int {
	n := 0
	for i := len(rn) - 1; i >= 0 && rn[i] >= '0' && rn[i] <= '9'; i-- {
		n++
	}
	return n
}

// FormatRequestNumber zero-pads to two digits and grows past 99.
func FormatRequestNumber(prefix string, seq int) string {
	return fmt.Sprintf("%s%02d", prefix, seq)
}

// NextRequestNumber returns the next identifier for formType. It takes a
// transaction-scoped advisory lock, so q must be the transaction that will
// insert the row; the lock is held until that transaction ends.
func NextRequestNumber(ctx context.Context, q db.Querier, formType string) (string, error) {
	form, ok := sequences[formType]
	if !ok {
		return "", apperrors.Validation("Invalid form_type. Allowed values: INDENT or REQUISITION")
	}

	start := time.Now()
	defer func() {
		metrics.RequestNumberMintDuration.WithLabelValues(formType).Observe(time.Since(start).Seconds())
	}()

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, form.lockKey); err != nil {
		return "", db.Classify(fmt.Errorf("acquire sequence lock: %w", err))
	}

	var maxSeq int64
	err := q.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(substring(request_number FROM '\d+$') AS BIGINT)), 0)
		FROM indent
		WHERE form_type = $1 AND request_number ~ $2
	`, formType, SequencePattern(form.prefix)).Scan(&maxSeq)
	if err != nil {
		return "", db.Classify(fmt.Errorf("read max sequence: %w", err))
	}

	return FormatRequestNumber(form.prefix, int(maxSeq)+1), nil
}
