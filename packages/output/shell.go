package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alessio/shellescape"

	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

// ShellFormatter writes export lines suitable for eval in a shell script
type ShellFormatter struct {
	writer    io.Writer
	errWriter io.Writer
	prefix    string
}

func (f *ShellFormatter) export(name, value string) {
	fmt.Fprintf(f.writer, "export %s%s=%s\n", f.prefix, name, shellescape.Quote(value))
}

func (f *ShellFormatter) FormatResolution(res Resolution) error {
	f.export("BASE_URL", res.Record.BaseURL)
	f.export("STRATEGY", string(res.Strategy))
	if res.Environment != "" {
		f.export("ENV", res.Environment)
	}
	for _, d := range res.Directives {
		switch d.Key {
		case target.DirectiveConnectTimeout:
			f.export("CONNECT_TIMEOUT_MS", fmt.Sprint(d.Value))
		case target.DirectiveReadTimeout:
			f.export("READ_TIMEOUT_MS", fmt.Sprint(d.Value))
		case target.DirectiveSSL:
			f.export("SSL", fmt.Sprint(d.Value))
		}
	}
	return nil
}

func (f *ShellFormatter) FormatReport(r *probe.Report) error {
	f.export("PROBE_ID", r.ID)
	f.export("PROBE_URL", r.URL)
	f.export("PROBE_OK", strconv.FormatBool(r.OK()))
	f.export("PROBE_PASSED", strconv.Itoa(r.Passed))
	f.export("PROBE_FAILED", strconv.Itoa(r.Failed))
	return nil
}

func (f *ShellFormatter) FormatError(err error) {
	fmt.Fprintf(f.errWriter, "hitbase: %v\n", err)
}
