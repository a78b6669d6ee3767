package extraction

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
)

// HashExcludedFields are left out of the record content hash.
var HashExcludedFields = []string{
	domain.FieldEndDate,
	domain.FieldLastUpdate,
	domain.FieldSOWRaw,
	domain.FieldSOFRaw,
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ContentHash returns the hex md5 of s.
func ContentHash(s string) string {
	return md5Hex(s)
}

// RecordHash returns the md5 of the record serialised as compact JSON with
// sorted keys and the excluded keys removed. Every column in domain.Columns
// is serialised, so an omitted column hashes the same as a null one.
func RecordHash(fields domain.Fields, exclude ...string) (string, error) {
	skip := make(map[string]struct{}, len(exclude))
	for _, k := range exclude {
		skip[k] = struct{}{}
	}

	filtered := make(map[string]string, len(domain.Columns)+len(fields))
	for _, k := range domain.Columns {
		if _, ok := skip[k]; !ok {
			filtered[k] = ""
		}
	}
	for k, v := range fields {
		if _, ok := skip[k]; ok {
			continue
		}
		if v == nil {
			filtered[k] = ""
			continue
		}
		filtered[k] = *v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(filtered); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return md5Hex(string(unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))))), nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always writes back into the raw characters. Escaped backslashes are
// skipped as pairs so a literal "\\u2028" in a value survives.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i+2 : i+6]) {
			case "2028":
				out = append(out, "\u2028"...)
				i += 5
				continue
			case "2029":
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
