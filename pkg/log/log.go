// Copyright © 2025 Aurelian Labs, Inc.
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aurelian-io/scribe/pkg/conf"
	"github.com/aurelian-io/scribe/pkg/confutil"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	rootLogger = logrus.NewEntry(logrus.StandardLogger())

	// L accesses the current logger from the context
	L = loggerFromContext

	initAtLeastOnce atomic.Bool
)

type (
	ctxLogKey struct{}
)

func InitConfig(config *conf.LogConfig) {
	initAtLeastOnce.Store(true) // must store before SetLevel

	level := confutil.StringNotEmpty(config.Level, *conf.LogDefaults.Level)
	SetLevel(level)

	output := confutil.StringNotEmpty(config.Output, *conf.LogDefaults.Output)
	switch output {
	case "file":
		filename := confutil.StringNotEmpty(config.File.Filename, *conf.LogDefaults.File.Filename)
		rootLogger.Infof("Logs diverted to %s", filename)
		maxSizeBytes := confutil.ByteSize(config.File.MaxSize, 0, *conf.LogDefaults.File.MaxSize)
		maxAgeDuration := confutil.DurationMin(config.File.MaxAge, 0, *conf.LogDefaults.File.MaxAge)
		lumberjack := &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    int(math.Ceil(float64(maxSizeBytes) / 1024 / 1024)), /* round up in megabytes */
			MaxBackups: confutil.IntMin(config.File.MaxBackups, 0, *conf.LogDefaults.File.MaxBackups),
			MaxAge:     int(math.Ceil(float64(maxAgeDuration) / float64(time.Hour) / 24)), /* round up in days */
			Compress:   confutil.Bool(config.File.Compress, *conf.LogDefaults.File.Compress),
		}
		logrus.SetOutput(lumberjack)
	case "stdout":
		logrus.SetOutput(os.Stdout)
	case "stderr":
		fallthrough
	default:
		logrus.SetOutput(os.Stderr)
	}

	setFormatting(&formatting{
		format:          confutil.StringNotEmpty(config.Format, *conf.LogDefaults.Format),
		disableColor:    confutil.Bool(config.DisableColor, *conf.LogDefaults.DisableColor),
		forceColor:      confutil.Bool(config.ForceColor, *conf.LogDefaults.ForceColor),
		timestampFormat: confutil.StringNotEmpty(config.TimeFormat, *conf.LogDefaults.TimeFormat),
		utc:             confutil.Bool(config.UTC, *conf.LogDefaults.UTC),
	})
}

func IsDebugEnabled() bool {
	return logrus.IsLevelEnabled(logrus.DebugLevel)
}

func IsTraceEnabled() bool {
	return logrus.IsLevelEnabled(logrus.TraceLevel)
}

func EnsureInit() {
	// Called at a couple of strategic points to check we get log initialized in things like unit tests.
	// However NOT guaranteed to be called because we can't afford to do atomic load on every log line
	if !initAtLeastOnce.Load() {
		InitConfig(&conf.LogConfig{})
	}
}

// WithLogger adds the specified logger to the context
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	EnsureInit()
	return context.WithValue(ctx, ctxLogKey{}, logger)
}

// WithLogField adds the specified field to the logger in the context
func WithLogField(ctx context.Context, key, value string) context.Context {
	EnsureInit()
	if len(value) > 61 {
		value = value[0:61] + "..."
	}
	return WithLogger(ctx, loggerFromContext(ctx).WithField(key, value))
}

// loggerFromContext returns the logger for the current context, or the root logger if none
func loggerFromContext(ctx context.Context) *logrus.Entry {
	logger := ctx.Value(ctxLogKey{})
	if logger == nil {
		return rootLogger
	}
	return logger.(*logrus.Entry)
}

func GetLevel() string {
	switch logrus.GetLevel() {
	case logrus.ErrorLevel:
		return "error"
	case logrus.WarnLevel:
		return "warn"
	case logrus.DebugLevel:
		return "debug"
	case logrus.TraceLevel:
		return "trace"
	default:
		return "info"
	}
}

func SetLevel(level string) {
	var l logrus.Level
	switch strings.ToLower(level) {
	case "error":
		l = logrus.ErrorLevel
	case "warn", "warning":
		l = logrus.WarnLevel
	case "debug":
		l = logrus.DebugLevel
	case "trace":
		l = logrus.TraceLevel
	default:
		l = logrus.InfoLevel
	}
	logrus.SetLevel(l)
}

type formatting struct {
	format          string
	disableColor    bool
	forceColor      bool
	timestampFormat string
	utc             bool
}

type utcFormat struct {
	f logrus.Formatter
}

func (utc *utcFormat) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.UTC()
	return utc.f.Format(e)
}

func setFormatting(format *formatting) {
	var formatter logrus.Formatter
	switch format.format {
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: format.timestampFormat,
		}
	case "detailed":
		formatter = &logrus.TextFormatter{
			DisableColors:   format.disableColor,
			ForceColors:     format.forceColor,
			TimestampFormat: format.timestampFormat,
			DisableSorting:  false,
			FullTimestamp:   true,
		}
		logrus.SetReportCaller(true)
	case "simple":
		fallthrough
	default:
		formatter = &prefixed.TextFormatter{
			DisableColors:   format.disableColor,
			ForceColors:     format.forceColor,
			TimestampFormat: format.timestampFormat,
			DisableSorting:  false,
			ForceFormatting: true,
			FullTimestamp:   true,
		}
	}
	if format.utc {
		formatter = &utcFormat{f: formatter}
	}
	logrus.SetFormatter(formatter)
}
