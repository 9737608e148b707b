package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/floatsim/internal/storage"
)

// WriteCSV writes one row per case, platform and frequency.
func WriteCSV(w io.Writer, run *storage.Run) error {
	cw := csv.NewWriter(w)

	header := append([]string{"case", "name", "platform", "omega"}, responseColumns()...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, c := range run.Cases {
		for p, resp := range c.Platforms {
			if resp.RAO == nil {
				continue
			}
			for i, omega := range run.Frequencies {
				row := []string{
					strconv.Itoa(c.Case.Index + 1),
					c.Case.Name,
					strconv.Itoa(p),
					formatFloat(omega),
				}
				for _, v := range responseValues(resp.RAO, i) {
					row = append(row, formatFloat(v))
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
