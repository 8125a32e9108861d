package logging

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/hotload/tui/theme"
	"github.com/sirupsen/logrus"
)

const timeLayout = "15:04:05.000"

// TextFormatter writes one line per entry: time, level, component, caller,
// message, then the remaining fields sorted by key with the error last.
type TextFormatter struct {
	Config FormatConfig
}

func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format(timeLayout))
		b.WriteByte(' ')
	}

	level := strings.ToUpper(entry.Level.String())
	if entry.Level == logrus.WarnLevel {
		level = "WARN"
	}
	fmt.Fprintf(b, "[%s]", level)

	if c, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		fmt.Fprintf(b, " [%s]", theme.DefaultTheme.Accent.Render(fmt.Sprint(c)))
	}
	if entry.HasCaller() {
		fmt.Fprintf(b, " [%s:%d %s]",
			filepath.Base(entry.Caller.File), entry.Caller.Line, filepath.Base(entry.Caller.Function))
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" && k != logrus.ErrorKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := entry.Data[logrus.ErrorKey]; ok {
		keys = append(keys, logrus.ErrorKey)
	}
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%s", k, fieldValue(entry.Data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// fieldValue quotes values a reader could not otherwise split on spaces.
func fieldValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " =\"\t\n") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
