package ledger

import (
	"encoding/json"
	"fmt"

	"saldo/internal/core"
)

// encodeRecords renders the collection as a JSON array. An empty
// collection is "[]", never "null".
func encodeRecords(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return data, nil
}

// decodeRecords parses a stored payload element by element so one bad
// entry does not discard the rest. It fails only when the payload is not a
// JSON array at all.
func decodeRecords(data []byte) (records []core.Record, rejected []error, err error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("decode records: %w", err)
	}
	records = make([]core.Record, 0, len(raw))
	for i, item := range raw {
		var r core.Record
		if err := json.Unmarshal(item, &r); err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		if err := r.Validate(); err != nil {
			rejected = append(rejected, fmt.Errorf("record %d (%s): %w", i, r.ID, err))
			continue
		}
		records = append(records, r)
	}
	return records, rejected, nil
}
