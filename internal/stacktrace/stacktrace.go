// Package stacktrace captures a readable call stack for a recovered
// panic, for attachment to the error the witness calculator surfaces
// through Join.
package stacktrace

import (
	"path/filepath"
	"strconv"
	"strings"

	"runtime"

	"github.com/zkwit/calcwit/sanity"
)

// Capture returns the stack of the calling goroutine as of the call
// site, formatted as one "function\n\tfile:line" pair per frame. In a
// release build, frames inside this package and the runtime's own
// panic machinery are skipped and file paths are shortened to their
// base name; in a sanity build every frame and full path is kept.
func Capture() string {
	var sbb strings.Builder

	pc := make([]uintptr, 32)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pc[:n])

	for {
		frame, more := frames.Next()
		fe := strings.Split(frame.Function, "/")
		function := fe[len(fe)-1]
		file := frame.File

		if !sanity.Enabled {
			if strings.Contains(function, "runtime.gopanic") {
				if !more {
					break
				}
				continue
			}
			if strings.Contains(frame.File, "internal/stacktrace") {
				if !more {
					break
				}
				continue
			}
			file = filepath.Base(file)
		}

		sbb.WriteString(function)
		sbb.WriteByte('\n')
		sbb.WriteByte('\t')
		sbb.WriteString(file)
		sbb.WriteByte(':')
		sbb.WriteString(strconv.Itoa(frame.Line))
		sbb.WriteByte('\n')
		if !more {
			break
		}
	}
	return sbb.String()
}
