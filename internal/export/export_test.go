package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/model/modeltest"
	"github.com/san-kum/floatsim/internal/storage"
	"github.com/san-kum/floatsim/internal/viz"
)

func testRun() *storage.Run {
	const nw = 4
	run := &storage.Run{
		ID:          "run-1",
		Design:      "spar",
		Source:      "preset:spar",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Elapsed:     2 * time.Second,
		Frequencies: model.Frequencies{0.1, 0.2, 0.3, 0.4},
		Statics:     []model.Statics{{Mass: 8e6, Displacement: 7800}},
		Modes:       []model.Modes{{Frequencies: [model.NumDOF]float64{0.01, 0.01, 0.03, 0.04, 0.04, 0.1}}},
		Diagnostics: []model.Diagnostic{{
			Stage: "analyze-cases", Case: model.CaseSpec{Index: 1, Name: "bad"},
			Message: "case skipped", Err: model.ErrCaseDefinition,
		}},
	}
	for _, idx := range []int{0, 2} {
		rao := model.NewResponseArray(nw)
		for _, d := range model.DOFs {
			for i := 0; i < nw; i++ {
				rao.Set(d, i, modeltest.Value(d, i, idx))
			}
		}
		run.Cases = append(run.Cases, model.CaseResult{
			Case:      model.CaseSpec{Index: idx, Name: "rated"},
			Platforms: []model.CaseResponse{{RAO: rao}},
		})
	}
	return run
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{".JSON", FormatJSON, false},
		{"xlsx", FormatXLSX, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if f, err := FormatFromPath("/tmp/out.xlsx"); err != nil || f != FormatXLSX {
		t.Errorf("FormatFromPath = %q, %v", f, err)
	}
	if err := Write(&bytes.Buffer{}, "pdf", testRun()); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatCSV, testRun()); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 1+2*4 {
		t.Fatalf("expected 9 records, got %d", len(records))
	}
	if len(records[0]) != 4+3*model.NumDOF || records[0][4] != "surge_re" {
		t.Errorf("unexpected header %v", records[0])
	}

	// second case, third frequency, heave magnitude
	row := records[1+4+2]
	if row[0] != "3" {
		t.Errorf("case column = %s, want 3", row[0])
	}
	mag, err := strconv.ParseFloat(row[4+3*int(model.Heave)+2], 64)
	if err != nil {
		t.Fatal(err)
	}
	if want := 3.0 / 3.0; mag < want-1e-9 || mag > want+1e-9 {
		t.Errorf("heave magnitude = %v, want %v", mag, want)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testRun()); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var data Data
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if data.Design != "spar" || data.ElapsedMS != 2000 {
		t.Errorf("metadata %+v", data)
	}
	if len(data.Platforms) != 1 || len(data.Platforms[0].Cases) != 2 {
		t.Fatalf("platforms %+v", data.Platforms)
	}
	pitch := data.Platforms[0].Cases[1].RAO["pitch"]
	if len(pitch) != 4 {
		t.Fatalf("pitch values %v", pitch)
	}
	want := modeltest.Value(model.Pitch, 1, 2)
	if pitch[1].Re != real(want) || pitch[1].Im != imag(want) {
		t.Errorf("pitch[1] = %+v, want %v", pitch[1], want)
	}
	if len(data.Diagnostics) != 1 || data.Diagnostics[0].Case != 2 {
		t.Errorf("diagnostics %+v", data.Diagnostics)
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, testRun()); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	wb, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = wb.Close() })

	want := []string{SummarySheet, "rated", "rated (2)", DiagnosticsSheet}
	got := wb.GetSheetList()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("sheets = %v, want %v", got, want)
	}

	design, err := wb.GetCellValue(SummarySheet, "B2")
	if err != nil || design != "spar" {
		t.Errorf("summary design = %q, %v", design, err)
	}
	rows, err := wb.GetRows("rated")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Errorf("expected header plus 4 rows, got %d", len(rows))
	}
	msg, _ := wb.GetCellValue(DiagnosticsSheet, "D2")
	if msg != "case skipped" {
		t.Errorf("diagnostic message = %q", msg)
	}
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}
	tests := []struct {
		label string
		want  string
	}{
		{"storm [1/50y]", "storm _1_50y_"},
		{"storm [1/50y]", "storm _1_50y_ (2)"},
		{"", "case"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
		{strings.Repeat("x", 40), strings.Repeat("x", 27) + " (2)"},
	}
	for _, tt := range tests {
		if got := sheetName(tt.label, used); got != tt.want {
			t.Errorf("sheetName(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 0)

	var buf bytes.Buffer
	if err := CanvasToSVG(&buf, c, 2); err != nil {
		t.Fatalf("svg: %v", err)
	}
	svg := buf.String()
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}
	if n := strings.Count(svg, "<circle"); n != 8 {
		t.Errorf("expected 8 dots, got %d", n)
	}
	if err := CanvasToSVG(&buf, nil, 1); err == nil {
		t.Error("expected error for nil canvas")
	}
}
