// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log wraps a global zap.SugaredLogger so the rest of the tracker
// can log without threading a logger through every call site.
package log

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger = mustNewProduction()
)

func mustNewProduction() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return l.Sugar()
}

// Configure replaces the global logger. debug enables human-readable
// development (console) logging instead of structured JSON.
func Configure(debug bool) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	logger = l.Sugar()
	mu.Unlock()
	return nil
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Default returns the current global logger.
func Default() *zap.SugaredLogger {
	return get()
}

// SetGlobalLogger replaces the global logger directly, bypassing Configure's
// debug/production config presets. Intended for tests that need to capture
// or silence log output.
func SetGlobalLogger(l *zap.SugaredLogger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Fields is a set of structured key/value pairs attached to a log line.
type Fields map[string]interface{}

// sugarFields flattens Fields into zap's variadic key/value calling
// convention.
func (f Fields) sugarFields() []interface{} {
	kv := make([]interface{}, 0, len(f)*2)
	for k, v := range f {
		kv = append(kv, k, v)
	}
	return kv
}

// WithFields returns a logger scoped to the given structured fields.
func WithFields(fields Fields) *zap.SugaredLogger {
	return get().With(fields.sugarFields()...)
}

// Debug logs at debug level.
func Debug(args ...interface{}) { get().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) { get().Debugf(format, args...) }

// Info logs at info level.
func Info(args ...interface{}) { get().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) { get().Infof(format, args...) }

// Warn logs at warn level.
func Warn(args ...interface{}) { get().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) { get().Warnf(format, args...) }

// Error logs at error level.
func Error(args ...interface{}) { get().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) { get().Errorf(format, args...) }

// Fatal logs at fatal level then calls os.Exit(1).
func Fatal(args ...interface{}) { get().Fatal(args...) }

// Fatalf logs a formatted message at fatal level then calls os.Exit(1).
func Fatalf(format string, args ...interface{}) { get().Fatalf(format, args...) }
