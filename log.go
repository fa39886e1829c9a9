/*
 * log.go, part of godefect.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package defect

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logmu  sync.RWMutex
	logger = zap.NewNop()
)

//Logger returns the logger used by all goDefect packages. Unless SetLogger
//is called, it is a no-op logger, so the library is silent by default.
func Logger() *zap.Logger {
	logmu.RLock()
	defer logmu.RUnlock()
	return logger
}

//SetLogger sets the logger used by all goDefect packages. A nil l restores
//the no-op logger.
func SetLogger(l *zap.Logger) {
	logmu.Lock()
	defer logmu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

//NewLogger builds a console logger writing to stderr at the given level
//("debug", "info", "warn" or "error").
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, ErrDecorate(err, "NewLogger")
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(lvl),
		Encoding:         "console",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return cfg.Build()
}

//SetLoggerFromConfig builds a logger at the level given in C and makes it the
//one used by all goDefect packages.
func SetLoggerFromConfig(C *Config) error {
	l, err := NewLogger(C.LogLevel)
	if err != nil {
		return ErrDecorate(err, "SetLoggerFromConfig")
	}
	SetLogger(l)
	return nil
}
