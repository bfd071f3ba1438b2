// Package logger is a thin leveled facade over logrus. Records are tagged
// with the emitting object and queued on a buffered channel; a single
// goroutine drains it, adds the tag prefix and hands the line to logrus.
package logger

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

type logPair struct {
	logFn func(...any)
	obj   string
	msg   string
}

const logSize = 1000

var logCh = make(chan logPair, logSize)

func init() {
	go func() {
		sb := new(bytes.Buffer)
		for pair := range logCh {
			if len(pair.obj) > 20 {
				pair.obj = pair.obj[:20]
			}
			sb.WriteString(fmt.Sprintf("|%20s| %s", pair.obj, pair.msg))
			pair.logFn(sb.String())
			sb.Reset()
		}
	}()
}

// Init sets the global level and formatter.
func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/02/01 15:04:05",
	})
}

func objToString(obj any) string {
	switch v := obj.(type) {
	case nil:
		return "NIL"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return reflect.TypeOf(obj).Name()
	}
}

func push(lvl logrus.Level, logFn func(...any), obj any, msg string) {
	if logrus.GetLevel() < lvl {
		return
	}
	logCh <- logPair{logFn: logFn, obj: objToString(obj), msg: msg}
}

func Trace(object any, message string) {
	push(logrus.TraceLevel, logrus.Trace, object, message)
}

func Tracef(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.TraceLevel {
		return
	}
	push(logrus.TraceLevel, logrus.Trace, object, fmt.Sprintf(message, args...))
}

func Debug(object any, message string) {
	push(logrus.DebugLevel, logrus.Debug, object, message)
}

func Debugf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.DebugLevel {
		return
	}
	push(logrus.DebugLevel, logrus.Debug, object, fmt.Sprintf(message, args...))
}

func Info(object any, message string) {
	push(logrus.InfoLevel, logrus.Info, object, message)
}

func Infof(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.InfoLevel {
		return
	}
	push(logrus.InfoLevel, logrus.Info, object, fmt.Sprintf(message, args...))
}

func Warn(object any, message string) {
	push(logrus.WarnLevel, logrus.Warn, object, message)
}

func Warnf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.WarnLevel {
		return
	}
	push(logrus.WarnLevel, logrus.Warn, object, fmt.Sprintf(message, args...))
}

func Error(object any, message string) {
	push(logrus.ErrorLevel, logrus.Error, object, message)
}

func Errorf(object any, message string, args ...any) {
	if logrus.GetLevel() < logrus.ErrorLevel {
		return
	}
	push(logrus.ErrorLevel, logrus.Error, object, fmt.Sprintf(message, args...))
}
