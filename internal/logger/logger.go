package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log глобальный логгер клиента. До вызова Init пишет в стандартный вывод логруса.
var Log = logrus.New()

// Init инициализирует структурированный логгер.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON для production, текст включается отдельно через SetTextFormatter
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter устанавливает текстовый формат логов (для development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// Discard отключает вывод логов (используется в тестах).
func Discard() {
	Log.SetOutput(io.Discard)
}
