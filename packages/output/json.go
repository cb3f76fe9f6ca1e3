package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

// JSONFormatter writes one JSON document per call
type JSONFormatter struct {
	writer    io.Writer
	errWriter io.Writer
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (f *JSONFormatter) FormatResolution(res Resolution) error {
	return f.encode(toDocument(res))
}

func (f *JSONFormatter) FormatReport(r *probe.Report) error {
	return f.encode(toReportDocument(r))
}

// FormatError keeps stdout parseable by writing errors as JSON to errWriter
func (f *JSONFormatter) FormatError(err error) {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	fmt.Fprintln(f.errWriter, string(data))
}
