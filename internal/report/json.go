package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mattjaikaran/matt-stack/internal/model"
)

// WriteJSON renders the canonical report document with 2-space indentation.
func WriteJSON(w io.Writer, r *model.Report) error {
	data, err := json.MarshalIndent(r.Doc(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
