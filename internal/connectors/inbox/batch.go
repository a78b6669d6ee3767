package inbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// ErrEmptyBatch indicates a batch file without records.
var ErrEmptyBatch = errors.New("inbox: batch has no records")

type wireRecord struct {
	SourceFileID string         `json:"SourceFileID"`
	BatchID      string         `json:"BatchID"`
	UploadedBy   string         `json:"UploadedBy"`
	CJSCode      string         `json:"CJSCode"`
	Fields       map[string]any `json:"fields"`
}

// DecodeBatch parses a batch document.
func DecodeBatch(r io.Reader) (domain.Batch, error) {
	var wire struct {
		Records []wireRecord `json:"records"`
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return domain.Batch{}, fmt.Errorf("%w: decode batch: %v", domain.ErrInvalidInput, err)
	}
	if len(wire.Records) == 0 {
		return domain.Batch{}, ErrEmptyBatch
	}

	batch := domain.Batch{Records: make([]domain.InputRecord, 0, len(wire.Records))}
	for i, w := range wire.Records {
		if w.SourceFileID == "" {
			return domain.Batch{}, fmt.Errorf("%w: record %d has no SourceFileID", domain.ErrInvalidInput, i)
		}
		fields := make(domain.Fields, len(w.Fields))
		for k, v := range w.Fields {
			fields[k] = fieldText(v)
		}
		batch.Records = append(batch.Records, domain.InputRecord{
			SourceFileID: w.SourceFileID,
			BatchID:      w.BatchID,
			UploadedBy:   w.UploadedBy,
			CJSCode:      w.CJSCode,
			Fields:       fields,
		})
	}
	return batch, nil
}

// ReadBatch reads and parses a batch file.
func ReadBatch(path string) (domain.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Batch{}, fmt.Errorf("read batch: %w", err)
	}
	batch, err := DecodeBatch(bytes.NewReader(data))
	if err != nil {
		return domain.Batch{}, fmt.Errorf("%s: %w", path, err)
	}
	return batch, nil
}

func fieldText(v any) *string {
	var s string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		s = t
	case json.Number:
		s = t.String()
	case bool:
		s = strconv.FormatBool(t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return nil
		}
		s = string(raw)
	}
	return &s
}
