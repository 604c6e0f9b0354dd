package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/JRocha1994/archi-track/internal/caldate"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
)

var (
	// ErrMissingValue indicates a required cell is empty.
	ErrMissingValue = errors.New("value is required")
	// ErrUnknownName indicates a name has no single catalog match.
	ErrUnknownName = errors.New("no single catalog entry matches name")
	// ErrInvalidDate indicates a date cell could not be parsed.
	ErrInvalidDate = errors.New("unparsable date")
	// ErrInvalidNumber indicates the revision number is not a non-negative integer.
	ErrInvalidNumber = errors.New("revision number must be a non-negative integer")
)

// RowError is one problem of one row.
type RowError struct {
	Row   int    `json:"row"`
	Line  int    `json:"line"`
	Field string `json:"field,omitempty"`
	Err   error  `json:"-"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d (line %d) %s: %v", e.Row, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("row %d (line %d): %v", e.Row, e.Line, e.Err)
}

// ImportError rejects a whole import. Nothing was written.
type ImportError struct {
	Rows  int
	Items []RowError
}

func (e *ImportError) Error() string {
	if len(e.Items) == 0 {
		return "import rejected"
	}
	return fmt.Sprintf("import rejected: %d errors in %d rows; first: %v", len(e.Items), e.Rows, e.Items[0])
}

// Unwrap exposes the row errors to errors.Is and errors.As.
func (e *ImportError) Unwrap() []error {
	errs := make([]error, len(e.Items))
	for i, item := range e.Items {
		errs[i] = item.Err
	}
	return errs
}

// CatalogReader loads the owner's catalog used for name resolution.
type CatalogReader interface {
	Snapshot(ctx context.Context, ownerID string) (*catalog.Snapshot, error)
}

// BatchCreator validates and stores batches of revisions.
type BatchCreator interface {
	ValidateBatch(ctx context.Context, ownerID string, reqs []revision.CreateRequest) ([]revision.Revision, error)
	CreateBatch(ctx context.Context, ownerID string, reqs []revision.CreateRequest) ([]revision.Revision, error)
}

// Recorder receives import outcomes.
type Recorder interface {
	Imported(rows int, accepted bool)
}

// Result is a successful import.
type Result struct {
	Rows      int                 `json:"rows"`
	Revisions []revision.Revision `json:"revisions"`
	DryRun    bool                `json:"dry_run"`
}

// Importer turns CSV files into revisions, all or nothing.
type Importer struct {
	catalog   CatalogReader
	revisions BatchCreator
	metrics   Recorder
	logger    *slog.Logger
}

// NewImporter creates an importer. metrics and logger may be nil.
func NewImporter(catalog CatalogReader, revisions BatchCreator, metrics Recorder, logger *slog.Logger) *Importer {
	return &Importer{catalog: catalog, revisions: revisions, metrics: metrics, logger: logger}
}

// Import decodes, resolves and validates every row of r and stores the batch
// only if no row failed. With dryRun the batch is validated and never stored.
func (im *Importer) Import(ctx context.Context, ownerID string, r io.Reader, dryRun bool) (*Result, error) {
	rows, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	snap, err := im.catalog.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	reqs := make([]revision.CreateRequest, 0, len(rows))
	decoded := make([]Row, 0, len(rows))
	var failures []RowError
	for _, row := range rows {
		req, errs := decodeRow(snap, row)
		if len(errs) > 0 {
			failures = append(failures, errs...)
			continue
		}
		reqs = append(reqs, req)
		decoded = append(decoded, row)
	}

	// Rows that decoded are still checked when others didn't. A gap of
	// undecoded rows can explain a non-sequential number, so only errors that
	// hold regardless of those rows are kept then.
	decodeFailed := len(failures) > 0
	var revs []revision.Revision
	switch {
	case decodeFailed:
		if len(reqs) > 0 {
			_, err = im.revisions.ValidateBatch(ctx, ownerID, reqs)
		}
	case dryRun:
		revs, err = im.revisions.ValidateBatch(ctx, ownerID, reqs)
	default:
		revs, err = im.revisions.CreateBatch(ctx, ownerID, reqs)
	}
	if err != nil {
		var batchErr *revision.BatchError
		if !errors.As(err, &batchErr) {
			return nil, err
		}
		for _, f := range batchFailures(decoded, batchErr) {
			if decodeFailed && errors.Is(f.Err, revision.ErrNonSequentialRevisionNumber) {
				continue
			}
			failures = append(failures, f)
		}
	}
	if len(failures) > 0 {
		slices.SortStableFunc(failures, func(a, b RowError) int { return cmp.Compare(a.Row, b.Row) })
		return nil, im.reject(len(rows), failures)
	}

	if im.metrics != nil && !dryRun {
		im.metrics.Imported(len(rows), true)
	}
	if im.logger != nil {
		im.logger.Info("revisions imported", "owner_id", ownerID, "rows", len(rows), "dry_run", dryRun)
	}
	return &Result{Rows: len(rows), Revisions: revs, DryRun: dryRun}, nil
}

func (im *Importer) reject(rows int, failures []RowError) error {
	if im.metrics != nil {
		im.metrics.Imported(rows, false)
	}
	return &ImportError{Rows: rows, Items: failures}
}

// batchFailures maps batch item positions back to rows: item i is decoded[i].
func batchFailures(decoded []Row, batchErr *revision.BatchError) []RowError {
	out := make([]RowError, 0, len(batchErr.Items))
	for _, item := range batchErr.Items {
		row := decoded[item.Index]
		out = append(out, RowError{Row: row.Index, Line: row.Line, Field: fieldOf(item.Err), Err: item.Err})
	}
	return out
}

func fieldOf(err error) string {
	var missing *revision.MissingFieldError
	if errors.As(err, &missing) {
		return missing.Field
	}
	var seqErr *revision.SequenceError
	if errors.As(err, &seqErr) {
		return string(FieldNumber)
	}
	var refErr *revision.ReferenceError
	if errors.As(err, &refErr) {
		return refErr.Kind
	}
	if errors.Is(err, revision.ErrWorkNotInVenture) {
		return string(FieldWork)
	}
	return ""
}

func decodeRow(snap *catalog.Snapshot, row Row) (revision.CreateRequest, []RowError) {
	var errs []RowError
	fail := func(field Field, err error) {
		errs = append(errs, RowError{Row: row.Index, Line: row.Line, Field: string(field), Err: err})
	}

	lookup := func(field Field, kind catalog.Kind, ventureID string) string {
		name := row.Get(field)
		if name == "" {
			fail(field, ErrMissingValue)
			return ""
		}
		id, ok := snap.Lookup(kind, name, ventureID)
		if !ok {
			fail(field, fmt.Errorf("%w: %q", ErrUnknownName, name))
		}
		return id
	}

	var req revision.CreateRequest
	req.VentureID = lookup(FieldVenture, catalog.KindVenture, "")
	if req.VentureID != "" {
		req.WorkID = lookup(FieldWork, catalog.KindWork, req.VentureID)
	} else if row.Get(FieldWork) == "" {
		fail(FieldWork, ErrMissingValue)
	}
	req.DisciplineID = lookup(FieldDiscipline, catalog.KindDiscipline, "")
	req.DesignerID = lookup(FieldDesigner, catalog.KindDesigner, "")

	if raw := row.Get(FieldNumber); raw == "" {
		fail(FieldNumber, ErrMissingValue)
	} else if n, ok := parseNumber(raw); ok {
		req.Number = &n
	} else {
		fail(FieldNumber, fmt.Errorf("%w: %q", ErrInvalidNumber, raw))
	}

	if raw := row.Get(FieldExpectedDelivery); raw == "" {
		fail(FieldExpectedDelivery, ErrMissingValue)
	} else if d, ok := Normalize(Classify(raw)); ok {
		req.ExpectedDeliveryDate = d
	} else {
		fail(FieldExpectedDelivery, fmt.Errorf("%w: %q", ErrInvalidDate, raw))
	}
	req.ActualDeliveryDate = optionalDate(row, FieldActualDelivery, fail)
	req.ActualAnalysisDate = optionalDate(row, FieldActualAnalysis, fail)

	req.Justification = row.Get(FieldJustification)
	if req.Justification == "" {
		fail(FieldJustification, ErrMissingValue)
	}
	if v := row.Get(FieldRevisionJustification); v != "" {
		req.RevisionJustification = &v
	}
	return req, errs
}

func optionalDate(row Row, field Field, fail func(Field, error)) *caldate.Date {
	raw := row.Get(field)
	if raw == "" {
		return nil
	}
	d, ok := Normalize(Classify(raw))
	if !ok {
		fail(field, fmt.Errorf("%w: %q", ErrInvalidDate, raw))
		return nil
	}
	return &d
}

// parseNumber accepts integers and integral decimals such as "3.0", which
// spreadsheets emit for numeric cells.
func parseNumber(raw string) (int, bool) {
	raw = strings.Replace(raw, ",", ".", 1)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
