package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JRocha1994/archi-track/internal/textnorm"
)

// Field is a column of the import layout.
type Field string

const (
	FieldVenture               Field = "venture"
	FieldWork                  Field = "work"
	FieldDiscipline            Field = "discipline"
	FieldDesigner              Field = "designer"
	FieldNumber                Field = "revision_number"
	FieldExpectedDelivery      Field = "expected_delivery_date"
	FieldActualDelivery        Field = "actual_delivery_date"
	FieldActualAnalysis        Field = "actual_analysis_date"
	FieldJustification         Field = "justification"
	FieldRevisionJustification Field = "revision_justification"
)

var requiredColumns = []Field{
	FieldVenture, FieldWork, FieldDiscipline, FieldDesigner,
	FieldNumber, FieldExpectedDelivery, FieldJustification,
}

// headerAliases maps folded header keys to fields. English and Portuguese
// spreadsheet headers are accepted.
var headerAliases = buildAliases(map[Field][]string{
	FieldVenture:               {"venture", "empreendimento"},
	FieldWork:                  {"work", "obra"},
	FieldDiscipline:            {"discipline", "disciplina"},
	FieldDesigner:              {"designer", "projetista"},
	FieldNumber:                {"revision", "revision number", "revisao", "numero da revisao", "numero revisao"},
	FieldExpectedDelivery:      {"expected delivery date", "data prevista entrega", "data prevista de entrega", "previsao de entrega"},
	FieldActualDelivery:        {"actual delivery date", "data entrega", "data de entrega", "data real de entrega"},
	FieldActualAnalysis:        {"actual analysis date", "data analise", "data de analise", "data da analise"},
	FieldJustification:         {"justification", "justificativa"},
	FieldRevisionJustification: {"revision justification", "justificativa revisao", "justificativa da revisao"},
})

func buildAliases(in map[Field][]string) map[string]Field {
	out := map[string]Field{}
	for field, names := range in {
		out[textnorm.Key(string(field))] = field
		for _, name := range names {
			out[textnorm.Key(name)] = field
		}
	}
	return out
}

var (
	// ErrEmptyFile indicates the input has no header row.
	ErrEmptyFile = errors.New("import file is empty")
	// ErrMissingColumns indicates required columns are absent from the header.
	ErrMissingColumns = errors.New("missing required columns")
)

// Row is one decoded data row.
type Row struct {
	// Index is the 1-based data row; the header is not counted.
	Index int
	// Line is the 1-based line of the file the row starts on.
	Line   int
	Values map[Field]string
}

// Get returns the trimmed value of f.
func (r Row) Get(f Field) string {
	return strings.TrimSpace(r.Values[f])
}

func (r Row) blank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadCSV decodes a header row followed by data rows. The delimiter is a comma
// or, when the header has more of them, a semicolon. Rows with every cell
// empty are skipped but still counted.
func ReadCSV(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading import: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for index := 1; ; index++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", index, err)
		}
		line, _ := reader.FieldPos(0)
		row := Row{Index: index, Line: line, Values: make(map[Field]string, len(columns))}
		for col, field := range columns {
			if col < len(record) {
				row.Values[field] = record[col]
			}
		}
		if row.blank() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func mapHeader(header []string) (map[int]Field, error) {
	columns := map[int]Field{}
	present := map[Field]bool{}
	for i, name := range header {
		field, ok := headerAliases[textnorm.Key(name)]
		if !ok || present[field] {
			continue
		}
		columns[i] = field
		present[field] = true
	}
	var missing []string
	for _, field := range requiredColumns {
		if !present[field] {
			missing = append(missing, string(field))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columns, nil
}

func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}
