// Copyright 2025 The columnio Authors
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

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

const (
	// LevelTrace sits below slog.LevelDebug so that TRACE severity logs
	// everything.
	LevelTrace = slog.Level(-8)

	// LevelOff sits above every built-in level so that OFF logs nothing.
	LevelOff = slog.Level(12)
)

var (
	programLevel  = new(slog.LevelVar)
	defaultLogger *slog.Logger
)

func init() {
	defaultLogger = slog.New(textHandler(os.Stderr, programLevel))
	programLevel.Set(slog.LevelInfo)
}

// Setup configures the process-wide logger. severity is one of TRACE, DEBUG,
// INFO, WARNING, ERROR, OFF; format is "text" or "json".
func Setup(severity string, format string) {
	switch format {
	case "json":
		defaultLogger = slog.New(jsonHandler(os.Stderr, programLevel))
	default:
		defaultLogger = slog.New(textHandler(os.Stderr, programLevel))
	}
	SetLogSeverity(severity)
}

// SetLogSeverity changes the minimum severity that gets logged.
func SetLogSeverity(severity string) {
	switch severity {
	case "TRACE":
		programLevel.Set(LevelTrace)
	case "DEBUG":
		programLevel.Set(slog.LevelDebug)
	case "INFO":
		programLevel.Set(slog.LevelInfo)
	case "WARNING":
		programLevel.Set(slog.LevelWarn)
	case "ERROR":
		programLevel.Set(slog.LevelError)
	case "OFF":
		programLevel.Set(LevelOff)
	}
}

func Tracef(format string, v ...any) {
	defaultLogger.Log(context.Background(), LevelTrace, fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...any) {
	defaultLogger.Debug(fmt.Sprintf(format, v...))
}

func Infof(format string, v ...any) {
	defaultLogger.Info(fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...any) {
	defaultLogger.Warn(fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...any) {
	defaultLogger.Error(fmt.Sprintf(format, v...))
}
