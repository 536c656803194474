package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/outliner/model"
)

// record is the persisted shape of a result
type record struct {
	Title   string        `json:"title"`
	Outline model.Outline `json:"outline"`
}

// JSON writes the persisted record: two-space indent, no HTML escaping,
// 0-based pages and no confidence values.
func JSON(w io.Writer, result model.Result) error {
	rec := record{Title: result.Title, Outline: result.Outline}
	if rec.Outline == nil {
		rec.Outline = model.Outline{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode outline: %w", err)
	}
	return nil
}

// ReadJSON decodes a record written by JSON. The result is successful and
// named name.
func ReadJSON(r io.Reader, name string) (model.Result, error) {
	var rec record
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return model.Result{}, fmt.Errorf("failed to decode outline: %w", err)
	}
	return model.Success(name, rec.Title, rec.Outline), nil
}
