package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New создаёт SugaredLogger. Для уровня debug используется development‑конфигурация,
// иначе production с консольным выводом в stderr.
// Возвращаемую функцию sync нужно вызвать перед выходом.
func New(level string) (*zap.SugaredLogger, func(), error) {
	var (
		l   *zap.Logger
		err error
	)
	if level == "debug" {
		l, err = zap.NewDevelopment()
	} else {
		lvl, perr := zapcore.ParseLevel(level)
		if perr != nil {
			lvl = zapcore.InfoLevel
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.DisableStacktrace = true
		l, err = cfg.Build()
	}
	if err != nil {
		return nil, nil, err
	}
	sugar := l.Sugar()
	sync := func() {
		//сброс буфера логгера
		if err := l.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}
	return sugar, sync, nil
}
