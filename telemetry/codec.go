package telemetry

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
)

const idColumn = "entity_id"

// EncodeCSV serializes the snapshot to the tabular wire format: a header row with the
// entity id column followed by the snapshot's fields in order, then one row per entity.
// Rows are written in sorted entity-id order (ids are zero padded, so lexical order is
// numeric order), although consumers key rows by id and must not rely on row order.
func EncodeCSV(s Snapshot) string {
	builder := &strings.Builder{}
	writer := csv.NewWriter(builder)

	header := make([]string, 0, len(s.Fields)+1)
	header = append(header, idColumn)
	header = append(header, s.Fields...)
	_ = writer.Write(header)

	ids := make([]string, 0, len(s.Rows))
	for id := range s.Rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	record := make([]string, len(header))
	for _, id := range ids {
		record[0] = id
		for idx, field := range s.Fields {
			record[1+idx] = strconv.FormatFloat(s.Rows[id][field], 'f', -1, 64)
		}
		_ = writer.Write(record)
	}

	writer.Flush()

	return builder.String()
}

// ParseCSV rebuilds a snapshot from the tabular wire format. The first row must carry the
// entity id column in position 0, otherwise the whole payload is rejected. Inside a data
// row a missing or unparsable cell is defaulted to 0 instead of discarding the row: a
// single bad cell must not cost the snapshot. Blank trailing rows are skipped.
// The version is taken from the validator token and the timestamp from the side channel,
// both carried by the transport next to the payload.
func ParseCSV(text string, token string, tsMs int64) (Snapshot, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Snapshot{}, errMissingHeader
	}
	if len(header) == 0 || header[0] != idColumn {
		return Snapshot{}, errMissingHeader
	}

	fields := make([]string, len(header)-1)
	copy(fields, header[1:])

	rows := make(map[string]map[string]float64)
	for {
		record, errRead := reader.Read()
		if errRead == io.EOF {
			break
		}
		if errRead != nil {
			return Snapshot{}, errRead
		}
		if len(record) == 0 || (len(record) == 1 && record[0] == "") {
			continue
		}

		values := make(map[string]float64, len(fields))
		for idx, field := range fields {
			values[field] = cellValue(record, 1+idx)
		}
		rows[record[0]] = values
	}

	version, errParse := strconv.ParseUint(token, 10, 64)
	if errParse != nil {
		version = 0
	}

	return Snapshot{
		Version:     version,
		TimestampMs: tsMs,
		Fields:      fields,
		Rows:        rows,
	}, nil
}

func cellValue(record []string, idx int) float64 {
	if idx >= len(record) {
		return 0
	}

	value, err := strconv.ParseFloat(record[idx], 64)
	if err != nil {
		return 0
	}

	return value
}
