package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/JRocha1994/archi-track/internal/domain/activity"
	"github.com/JRocha1994/archi-track/internal/domain/catalog"
	"github.com/JRocha1994/archi-track/internal/domain/revision"
	"github.com/JRocha1994/archi-track/internal/ingest"
)

// APIError is the JSON error body of every failed request.
type APIError struct {
	Status       int    `json:"-"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// errBadRequest marks malformed requests: undecodable bodies, bad query
// parameters.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// ItemDetail describes one rejected element of a batch or import.
type ItemDetail struct {
	Index *int   `json:"index,omitempty"`
	ID    string `json:"id,omitempty"`
	Row   int    `json:"row,omitempty"`
	Line  int    `json:"line,omitempty"`
	Field string `json:"field,omitempty"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// MapError maps domain errors to API errors. Unknown errors become INTERNAL.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var importErr *ingest.ImportError
	var batchErr *revision.BatchError
	var seqErr *revision.SequenceError
	var missingErr *revision.MissingFieldError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &importErr):
		items := make([]ItemDetail, len(importErr.Items))
		for i, row := range importErr.Items {
			items[i] = ItemDetail{Row: row.Row, Line: row.Line, Field: row.Field, Code: reasonCode(row.Err), Error: row.Err.Error()}
		}
		return &APIError{
			Status:       http.StatusUnprocessableEntity,
			Code:         "IMPORT_REJECTED",
			Message:      importErr.Error(),
			Details:      map[string]any{"rows": importErr.Rows, "errors": items},
			RecoveryHint: "Fix the listed rows and import the whole file again; nothing was saved",
		}
	case errors.As(err, &batchErr):
		items := make([]ItemDetail, len(batchErr.Items))
		for i, item := range batchErr.Items {
			index := item.Index
			items[i] = ItemDetail{Index: &index, ID: item.ID, Code: reasonCode(item.Err), Error: item.Err.Error()}
		}
		return &APIError{
			Status:       http.StatusUnprocessableEntity,
			Code:         "BATCH_REJECTED",
			Message:      batchErr.Error(),
			Details:      map[string]any{"total": batchErr.Total, "errors": items},
			RecoveryHint: "Fix the listed items and resubmit the whole batch; nothing was saved",
		}
	case errors.As(err, &seqErr):
		code := "NON_SEQUENTIAL_REVISION_NUMBER"
		if errors.Is(seqErr, revision.ErrDuplicateRevisionNumber) {
			code = "DUPLICATE_REVISION_NUMBER"
		}
		return &APIError{
			Status:       http.StatusConflict,
			Code:         code,
			Message:      seqErr.Error(),
			Details:      map[string]int{"revision_number": seqErr.Number, "expected": seqErr.Expected},
			RecoveryHint: fmt.Sprintf("Use revision number %d", seqErr.Expected),
		}
	case errors.As(err, &missingErr):
		return &APIError{
			Status:       http.StatusBadRequest,
			Code:         "MISSING_REQUIRED_FIELD",
			Message:      missingErr.Error(),
			Details:      map[string]string{"field": missingErr.Field},
			RecoveryHint: "Provide " + missingErr.Field,
		}
	case errors.As(err, &validationErrs):
		fields := make([]string, len(validationErrs))
		for i, fe := range validationErrs {
			fields[i] = fe.Field()
		}
		return &APIError{Status: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: err.Error(), Details: map[string]any{"fields": fields}}
	case errors.Is(err, revision.ErrRevisionNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "REVISION_NOT_FOUND", Message: "revision not found", RecoveryHint: "Check the revision id"}
	case errors.Is(err, revision.ErrEntityNotFound), errors.Is(err, revision.ErrWorkNotInVenture):
		return &APIError{Status: http.StatusUnprocessableEntity, Code: "INVALID_REFERENCE", Message: err.Error(), RecoveryHint: "List the catalog to find valid ids"}
	case errors.Is(err, catalog.ErrVentureNotFound),
		errors.Is(err, catalog.ErrWorkNotFound),
		errors.Is(err, catalog.ErrDisciplineNotFound),
		errors.Is(err, catalog.ErrDesignerNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "ENTITY_NOT_FOUND", Message: err.Error()}
	case errors.Is(err, catalog.ErrInUse):
		return &APIError{Status: http.StatusConflict, Code: "ENTITY_IN_USE", Message: err.Error(), RecoveryHint: "Delete or reassign the revisions that reference it first"}
	case errors.Is(err, ingest.ErrEmptyFile), errors.Is(err, ingest.ErrMissingColumns):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_FILE", Message: err.Error()}
	case errors.Is(err, revision.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, errBadRequest):
		return &APIError{Status: http.StatusBadRequest, Code: "INVALID_INPUT", Message: err.Error()}
	}
	return &APIError{Status: http.StatusInternalServerError, Code: "INTERNAL", Message: "internal error"}
}

func reasonCode(err error) string {
	switch {
	case errors.Is(err, ingest.ErrMissingValue):
		return "MISSING_VALUE"
	case errors.Is(err, ingest.ErrUnknownName):
		return "UNKNOWN_NAME"
	case errors.Is(err, ingest.ErrInvalidDate):
		return "INVALID_DATE"
	case errors.Is(err, ingest.ErrInvalidNumber):
		return "INVALID_NUMBER"
	case errors.Is(err, revision.ErrDuplicateRevisionNumber):
		return "DUPLICATE_REVISION_NUMBER"
	case errors.Is(err, revision.ErrNonSequentialRevisionNumber):
		return "NON_SEQUENTIAL_REVISION_NUMBER"
	case errors.Is(err, revision.ErrMissingRequiredField):
		return "MISSING_REQUIRED_FIELD"
	case errors.Is(err, revision.ErrEntityNotFound), errors.Is(err, revision.ErrWorkNotInVenture):
		return "INVALID_REFERENCE"
	case errors.Is(err, revision.ErrRevisionNotFound):
		return "REVISION_NOT_FOUND"
	}
	return "INVALID_INPUT"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
