// Copyright (c) 2022 Runetale Inc & AUTHORS All rights reserved.
// Use of this source code is governed by a BSD 3-Clause License
// license that can be found in the LICENSE file.

package weftlog

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	DebugLevelStr   string = "debug"
	InfoLevelStr    string = "info"
	WarningLevelStr string = "warning"
	ErrorLevelStr   string = "error"
)

type Weftlog struct {
	Logger *zap.SugaredLogger
}

// NewWeftlog builds a named sugared logger. When logFile is empty the
// logger writes to stderr only, otherwise it also appends to a
// size-rotated file.
func NewWeftlog(name string, logLevel string, logFile string, dev bool) (*Weftlog, error) {
	l, err := initWeftlog(logLevel, logFile, dev)
	if err != nil {
		return nil, err
	}

	return &Weftlog{
		Logger: l.Named(name).Sugar(),
	}, nil
}

func initWeftlog(logLevel string, logFile string, dev bool) (*zap.Logger, error) {
	var level zapcore.Level
	switch logLevel {
	case DebugLevelStr:
		level = zap.DebugLevel
	case InfoLevelStr:
		level = zap.InfoLevel
	case WarningLevelStr:
		level = zap.WarnLevel
	case ErrorLevelStr:
		level = zap.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %s", logLevel)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	outputPaths := []string{"stderr"}
	if logFile != "" {
		ll := lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    1024, //MB
			MaxBackups: 30,
			MaxAge:     90, //days
			Compress:   true,
		}

		zap.RegisterSink("lumberjack", func(*url.URL) (zap.Sink, error) {
			return lumberjackSink{
				Logger: &ll,
			}, nil
		})

		outputPaths = append(outputPaths, fmt.Sprintf("lumberjack:%s", logFile))
	}

	loggerConfig := zap.Config{
		Level:         zap.NewAtomicLevelAt(level),
		Development:   dev,
		Encoding:      "console",
		EncoderConfig: encoderConfig,
		OutputPaths:   outputPaths,
	}

	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger from config: %w", err)
	}

	zap.ReplaceGlobals(logger)

	return logger, nil
}

type lumberjackSink struct {
	*lumberjack.Logger
}

func (lumberjackSink) Sync() error {
	return nil
}
