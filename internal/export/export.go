// Package export writes the user's stored data out as JSON or a spreadsheet
// and can upload the result to S3-compatible object storage.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/tranaapp/trana/internal/state"
)

// FileName returns the export file name for the given day, e.g.
// "trana_user_data_2026-03-10.json".
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("trana_user_data_%s.%s", now.Format("2006-01-02"), ext)
}

// Collect returns every prefixed key with its decoded value. Values that are
// not JSON are kept as strings.
func Collect(st *state.Store) (map[string]any, error) {
	snap, err := st.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to read stored data: %w", err)
	}
	out := make(map[string]any, len(snap))
	for suffix, raw := range snap {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			v = string(raw)
		}
		out[st.Key(suffix)] = v
	}
	return out, nil
}

// WriteJSON writes every prefixed key to w as an indented JSON object.
func WriteJSON(w io.Writer, st *state.Store) error {
	data, err := Collect(st)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
