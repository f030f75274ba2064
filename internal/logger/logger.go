package logger

import (
	"io"
	"os"
	"time"

	"github.com/RoyceAzure/lab/restaurant/internal/config"
	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup 設定全域 zerolog, 回傳的 closer 用於關閉檔案輸出
func Setup(cf *config.Config) (*zerolog.Logger, io.Closer) {
	zerolog.SetGlobalLevel(parseLevel(cf.LogLevel))
	zerolog.TimeFieldFormat = time.RFC3339

	var stdout io.Writer = os.Stdout
	switch constants.ENV(cf.Env) {
	case constants.Debug, constants.Dev:
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	}

	writers := []io.Writer{stdout}
	var closer io.Closer = nopCloser{}
	if cf.LogFile != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cf.LogFile,
			MaxSize:    32, // megabytes
			MaxBackups: 2,
			MaxAge:     28, //days
			Compress:   true,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().
		Timestamp().
		Str("service", "restaurant").
		Logger()
	log.Logger = logger
	return &logger, closer
}

// SetLevel 執行期調整全域 log level, 設定檔重新載入時呼叫
func SetLevel(level string) {
	lvl := parseLevel(level)
	if lvl != zerolog.GlobalLevel() {
		zerolog.SetGlobalLevel(lvl)
		log.Info().Str("level", lvl.String()).Msg("log level changed")
	}
}

// 無法解析時使用 info
func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
