package log

import (
	"fmt"

	"github.com/golang/glog"
)

// depth skips LPrintf and the exported helper to report the real calling function
const depth = 2

// log modules
const (
	ModuleSAI    string = "[SAI]"
	ModuleDriver string = "[Driver]"
	ModuleClient string = "[Client]"
)

type severity int

const (
	infoLog severity = iota
	warningLog
	errorLog
)

// LPrintf formats and hands the message to the glog writer of severity.
func LPrintf(s severity, format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	switch s {
	case warningLog:
		glog.WarningDepth(depth, msg)
	case errorLog:
		glog.ErrorDepth(depth, msg)
	default:
		glog.InfoDepth(depth, msg)
	}
}

// Info func
func Info(format string, v ...interface{}) {
	LPrintf(infoLog, format, v...)
}

// Warning func
func Warning(format string, v ...interface{}) {
	LPrintf(warningLog, format, v...)
}

// Error func
func Error(format string, v ...interface{}) {
	LPrintf(errorLog, format, v...)
}

// Verbose is printed only when glog -v is at least the requested level.
type Verbose bool

// V reports whether verbosity at the call site is at least level.
func V(level glog.Level) Verbose {
	return Verbose(glog.V(level))
}

// Info logs when v is enabled
func (v Verbose) Info(format string, args ...interface{}) {
	if v {
		LPrintf(infoLog, format, args...)
	}
}
