package logger

import (
	"os"

	"github.com/goto/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/goto/jobtrail/config"
)

type plainFormatter struct{}

func (*plainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return []byte(entry.Message + "\n"), nil
}

// NewClientLogger writes bare messages to stderr so command output on stdout stays parseable
func NewClientLogger(level config.LogLevel) log.Logger {
	if level == "" {
		level = config.LogLevelWarning
	}
	return log.NewLogrus(
		log.LogrusWithLevel(level.String()),
		log.LogrusWithWriter(os.Stderr),
		log.LogrusWithFormatter(&plainFormatter{}),
	)
}
