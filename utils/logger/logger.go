package logger

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

type stringer interface {
	String() string
}

const objWidth = 20

func objToString(obj any) (objStr string) {
	if obj == nil {
		objStr = "NIL"
	} else if stringerObj, ok := obj.(stringer); ok {
		objStr = stringerObj.String()
	} else if objStr, ok = obj.(string); ok {
	} else {
		t := reflect.TypeOf(obj)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		objStr = t.Name()
	}
	if len(objStr) > objWidth {
		objStr = objStr[:objWidth]
	}
	return
}

func Init(lvl logrus.Level) {
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		PadLevelText:    true,
		TimestampFormat: "2006/02/01 15:04:05",
	})
}

// ParseLevel parses a level name, falling back to info.
func ParseLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

func entry(object any) *logrus.Entry {
	return logrus.WithField("obj", objToString(object))
}

func Trace(object any, message string) {
	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	entry(object).Trace(message)
}

func Tracef(object any, message string, args ...any) {
	if !logrus.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	entry(object).Trace(fmt.Sprintf(message, args...))
}

func Debug(object any, message string) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	entry(object).Debug(message)
}

func Debugf(object any, message string, args ...any) {
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		return
	}
	entry(object).Debug(fmt.Sprintf(message, args...))
}

func Info(object any, message string) {
	entry(object).Info(message)
}

func Infof(object any, message string, args ...any) {
	entry(object).Info(fmt.Sprintf(message, args...))
}

func Warning(object any, message string) {
	entry(object).Warning(message)
}

func Warningf(object any, message string, args ...any) {
	entry(object).Warning(fmt.Sprintf(message, args...))
}

func Error(object any, message string) {
	entry(object).Error(message)
}

func Errorf(object any, message string, args ...any) {
	entry(object).Error(fmt.Sprintf(message, args...))
}

func Fatal(object any, message string) {
	entry(object).Fatal(message)
}

func Fatalf(object any, message string, args ...any) {
	entry(object).Fatal(fmt.Sprintf(message, args...))
}
