// Author: DoItWithASmile (2025). Apache 2.0 License

package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Logger is the process-wide logger. Write failures on the sink never
// propagate to callers; they are counted instead (see Dropped).
var Logger = log.New(&countingWriter{w: os.Stderr}, "", log.LstdFlags)

var dropped atomic.Int64

type countingWriter struct {
	w io.Writer
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if err != nil || n < len(p) {
		dropped.Add(1)
	}
	return len(p), nil
}

// Dropped returns the number of log writes that failed since process start.
func Dropped() int64 {
	return dropped.Load()
}

// SetOutput redirects the logger, mainly for tests.
func SetOutput(w io.Writer) {
	Logger.SetOutput(&countingWriter{w: w})
}
