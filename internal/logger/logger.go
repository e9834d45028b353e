// Package logger builds the logrus logger used by the command line.
package logger

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// Formatter renders entries as "[time] LEVEL: message {k=v, ...}" with the
// level colored and fields sorted by key.
type Formatter struct {
	TimestampFormat string
	DisableColors   bool
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var levelColor *color.Color
	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel:
		levelColor = color.New(color.FgRed, color.Bold)
	case logrus.WarnLevel:
		levelColor = color.New(color.FgYellow, color.Bold)
	case logrus.InfoLevel:
		levelColor = color.New(color.FgCyan)
	default:
		levelColor = color.New(color.FgWhite, color.Faint)
	}
	levelText := strings.ToUpper(entry.Level.String())
	if f.DisableColors {
		levelColor.DisableColor()
	} else {
		levelColor.EnableColor()
	}

	var sb strings.Builder
	if f.TimestampFormat != "" {
		fmt.Fprintf(&sb, "[%s] ", entry.Time.Format(f.TimestampFormat))
	}
	fmt.Fprintf(&sb, "%s: %s", levelColor.Sprint(levelText), entry.Message)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Data[k]))
		}
		fields := " {" + strings.Join(pairs, ", ") + "}"
		if f.DisableColors {
			sb.WriteString(fields)
		} else {
			faint := color.New(color.FgWhite, color.Faint)
			faint.EnableColor()
			sb.WriteString(faint.Sprint(fields))
		}
	}
	sb.WriteByte('\n')
	return []byte(sb.String()), nil
}

// New returns a logger writing to out at the named level. An unknown level
// falls back to info.
func New(out io.Writer, level string, disableColors bool) *logrus.Logger {
	log := logrus.New()
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	log.SetFormatter(&Formatter{
		TimestampFormat: "15:04:05",
		DisableColors:   disableColors,
	})
	log.SetOutput(out)
	return log
}
