package server

import (
	"os"

	"github.com/goto/salt/log"
	"github.com/sirupsen/logrus"

	"github.com/goto/jobtrail/config"
)

func NewLogger(conf config.LogConfig) log.Logger {
	var formatter logrus.Formatter = &logrus.JSONFormatter{}
	if conf.Format == config.LogFormatText {
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	return log.NewLogrus(
		log.LogrusWithLevel(conf.Level.String()),
		log.LogrusWithWriter(os.Stdout),
		log.LogrusWithFormatter(formatter),
	)
}
