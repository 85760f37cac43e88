package log

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"gitlab.com/gitlab-org/expand-archive/helpers"
)

// ConsoleFormatter writes one aligned line per entry with a level prefix for
// warnings and errors, followed by the sorted fields.
type ConsoleFormatter struct {
	DisableColors bool
}

type levelStyle struct {
	color  string
	prefix string
}

var levelStyles = map[logrus.Level]levelStyle{
	logrus.DebugLevel: {color: helpers.ANSI_BOLD_WHITE},
	logrus.WarnLevel:  {color: helpers.ANSI_YELLOW, prefix: "WARNING: "},
	logrus.ErrorLevel: {color: helpers.ANSI_BOLD_RED, prefix: "ERROR: "},
	logrus.FatalLevel: {color: helpers.ANSI_BOLD_RED, prefix: "FATAL: "},
	logrus.PanicLevel: {color: helpers.ANSI_BOLD_RED, prefix: "PANIC: "},
}

func (f *ConsoleFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	style := levelStyles[entry.Level]

	color, reset := style.color, helpers.ANSI_RESET
	if f.DisableColors || color == "" {
		color, reset = "", ""
	}

	b := new(bytes.Buffer)
	indent := 50 - len(style.prefix)
	_, _ = fmt.Fprintf(b, "%s%s%-*s%s", color, style.prefix, indent, entry.Message, reset)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		_, _ = fmt.Fprintf(b, "  %s%s%s=%v", color, k, reset, entry.Data[k])
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}
