// FILE: lixenwraith/dblog/format.go
package dblog

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/valyala/bytebufferpool"
)

// spewDumper renders values without a direct text form, compact and stable for logs
var spewDumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true, // Cleaner for logs
	DisableCapacities:       true, // Less noise
	SortKeys:                true, // Consistent map output
}

// levelTag returns the bracketed level tag written into every record
func levelTag(level int64) string {
	switch level {
	case LevelDebug:
		return "[DEBUG]"
	case LevelInfo:
		return "[INFO]"
	case LevelWarning:
		return "[WARNING]"
	case LevelError:
		return "[ERROR]"
	case LevelFatal:
		return "[FATAL]"
	case LevelSky:
		return "[SKY]"
	default:
		return "[UNKNOWN]"
	}
}

// appendRecordPrefix writes "[<date> <time>.<ms>] [<LEVEL>] " in local time
func appendRecordPrefix(dst []byte, ts time.Time, level int64) []byte {
	dst = append(dst, '[')
	dst = ts.Local().AppendFormat(dst, recordTimeLayout)
	dst = append(dst, "] "...)
	dst = append(dst, levelTag(level)...)
	return append(dst, ' ')
}

// formatRecord renders a complete line for msg into bb
// Returns false, leaving bb untouched, when the message exceeds the record limit.
func formatRecord(bb *bytebufferpool.ByteBuffer, ts time.Time, level int64, msg string) bool {
	if len(msg) >= maxMessageSize {
		return false
	}
	bb.B = appendRecordPrefix(bb.B, ts, level)
	bb.B = append(bb.B, msg...)
	bb.B = append(bb.B, '\n')
	return true
}

// formatArgs renders args as a space separated message into a complete line
// The same length rule as formatRecord applies to the rendered message.
func formatArgs(bb *bytebufferpool.ByteBuffer, ts time.Time, level int64, args []any) bool {
	start := len(bb.B)
	bb.B = appendRecordPrefix(bb.B, ts, level)
	msgStart := len(bb.B)

	for i, arg := range args {
		if i > 0 {
			bb.B = append(bb.B, ' ')
		}
		bb.B = appendValue(bb.B, arg)
		if len(bb.B)-msgStart >= maxMessageSize {
			bb.B = bb.B[:start]
			return false
		}
	}

	bb.B = append(bb.B, '\n')
	return true
}

// appendValue converts any value to its text representation
// Falls back to go-spew for structs, maps, slices and pointers.
func appendValue(dst []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(dst, val...)
	case int:
		return strconv.AppendInt(dst, int64(val), 10)
	case int64:
		return strconv.AppendInt(dst, val, 10)
	case int32:
		return strconv.AppendInt(dst, int64(val), 10)
	case uint:
		return strconv.AppendUint(dst, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(dst, val, 10)
	case uint32:
		return strconv.AppendUint(dst, uint64(val), 10)
	case float32:
		return strconv.AppendFloat(dst, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(dst, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(dst, val)
	case nil:
		return append(dst, "nil"...)
	case time.Time:
		return val.AppendFormat(dst, time.RFC3339Nano)
	case time.Duration:
		return append(dst, val.String()...)
	case error:
		return append(dst, val.Error()...)
	case fmt.Stringer:
		return append(dst, val.String()...)
	case []byte:
		return hex.AppendEncode(dst, val) // Keeps binary out of the text stream
	default:
		// Single line form, a record must not span lines
		return append(dst, spewDumper.Sprintf("%+v", val)...)
	}
}

// dropNotice renders the line appended when the drop policy discards buffers
func dropNotice(ts time.Time, dropped int) []byte {
	return fmt.Appendf(nil, "Dropped log messages at %s, %d larger buffers\n",
		ts.Local().Format(dropNoticeLayout), dropped)
}
