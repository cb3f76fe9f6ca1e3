package output

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

type YAMLFormatter struct {
	writer    io.Writer
	errWriter io.Writer
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

func (f *YAMLFormatter) FormatResolution(res Resolution) error {
	return f.encode(toDocument(res))
}

func (f *YAMLFormatter) FormatReport(r *probe.Report) error {
	return f.encode(toReportDocument(r))
}

func (f *YAMLFormatter) FormatError(err error) {
	fmt.Fprintf(f.errWriter, "error: %v\n", err)
}
