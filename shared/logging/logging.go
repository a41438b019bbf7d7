package logging

import (
	"fmt"
	"os"
	"time"

	"photointake/shared/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the service logger: structured JSON on stderr plus an optional
// append-only file sink whose lines start with a bracketed RFC3339 timestamp,
// the format the operations log has always used.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	cores := []zapcore.Core{consoleCore()}

	if cfg.File != "" {
		fileCore, err := fileCore(cfg.File)
		if err != nil {
			return nil, err
		}
		cores = append(cores, fileCore)
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func consoleCore() zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.RFC3339TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)
	return zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zapcore.InfoLevel)
}

func fileCore(path string) (zapcore.Core, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = bracketedTimeEncoder
	encCfg.ConsoleSeparator = " "
	encCfg.LevelKey = "" // the file sink carries timestamp and message only
	encCfg.CallerKey = ""
	enc := zapcore.NewConsoleEncoder(encCfg)

	return zapcore.NewCore(enc, zapcore.Lock(f), zapcore.InfoLevel), nil
}

// bracketedTimeEncoder renders "[2006-01-02T15:04:05Z07:00]".
func bracketedTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format(time.RFC3339) + "]")
}
