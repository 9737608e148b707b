// Package export writes stored runs in exchange formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"math/cmplx"
	"path/filepath"
	"strings"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/storage"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

var ErrFormat = errors.New("export: unsupported format")

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatXLSX}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(s, ".")))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write encodes run in the given format.
func Write(w io.Writer, f Format, run *storage.Run) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, run)
	case FormatJSON:
		return WriteJSON(w, run)
	case FormatXLSX:
		return WriteXLSX(w, run)
	}
	return fmt.Errorf("%w: %q", ErrFormat, f)
}

// responseColumns names the per-mode columns of a response row.
func responseColumns() []string {
	cols := make([]string, 0, 3*model.NumDOF)
	for _, d := range model.DOFs {
		name := d.String()
		cols = append(cols, name+"_re", name+"_im", name+"_mag")
	}
	return cols
}

// responseValues flattens one frequency of an RAO in responseColumns order.
func responseValues(rao *model.ResponseArray, i int) []float64 {
	out := make([]float64, 0, 3*model.NumDOF)
	for _, d := range model.DOFs {
		v := rao.At(d, i)
		out = append(out, real(v), imag(v), cmplx.Abs(v))
	}
	return out
}
