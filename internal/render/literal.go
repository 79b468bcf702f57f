package render

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/tsql/internal/types"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05.999999"
)

func (c *Context) literal(b *strings.Builder, v types.Value) error {
	switch x := v.V.(type) {
	case nil:
		b.WriteString("NULL")
	case bool:
		c.boolLiteral(b, x)
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case uint64:
		b.WriteString(strconv.FormatUint(x, 10))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("cannot render floating point value %v", x)
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case string:
		b.WriteString(c.quoteString(x))
	case []byte:
		c.blob(b, x)
	case time.Time:
		// Timestamps are written in UTC; dates keep their calendar day.
		if v.Type.Kind == types.KindDate {
			c.temporal(b, "DATE", x.Format(dateLayout))
		} else {
			c.temporal(b, "TIMESTAMP", x.UTC().Format(timestampLayout))
		}
	case time.Duration:
		c.temporal(b, "TIME", FormatTimeOfDay(x))
	default:
		return fmt.Errorf("cannot render literal of type %T", x)
	}
	return nil
}

func (c *Context) boolLiteral(b *strings.Builder, v bool) {
	switch {
	case c.caps.Bools == BoolIntegers && v:
		b.WriteString("1")
	case c.caps.Bools == BoolIntegers:
		b.WriteString("0")
	case v:
		b.WriteString("TRUE")
	default:
		b.WriteString("FALSE")
	}
}

// boolCondition renders a constant condition. Dialects without boolean keywords
// need a comparison where a condition is expected.
func (c *Context) boolCondition(b *strings.Builder, v bool) {
	switch {
	case c.caps.Bools == BoolIntegers && v:
		b.WriteString("1 = 1")
	case c.caps.Bools == BoolIntegers:
		b.WriteString("1 = 0")
	default:
		c.boolLiteral(b, v)
	}
}

func (c *Context) quoteString(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if c.caps.BackslashEscapes {
		s = strings.ReplaceAll(s, `\`, `\\`)
	}
	return "'" + s + "'"
}

func (c *Context) blob(b *strings.Builder, v []byte) {
	switch c.caps.Blobs {
	case BlobEscape:
		b.WriteString(`'\x`)
		b.WriteString(hex.EncodeToString(v))
		b.WriteString("'")
	case BlobHexNumber:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(v))
	default:
		b.WriteString("X'")
		b.WriteString(hex.EncodeToString(v))
		b.WriteString("'")
	}
}

func (c *Context) temporal(b *strings.Builder, keyword, text string) {
	if c.caps.TypedTemporal {
		b.WriteString(keyword)
		b.WriteString(" ")
	}
	b.WriteString(c.quoteString(text))
}

// FormatTimeOfDay formats a duration since midnight as HH:MM:SS[.ffffff].
func FormatTimeOfDay(d time.Duration) string {
	micros := d.Microseconds()
	h := micros / int64(time.Hour/time.Microsecond)
	micros -= h * int64(time.Hour/time.Microsecond)
	m := micros / int64(time.Minute/time.Microsecond)
	micros -= m * int64(time.Minute/time.Microsecond)
	s := micros / int64(time.Second/time.Microsecond)
	micros -= s * int64(time.Second/time.Microsecond)

	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if micros != 0 {
		out += fmt.Sprintf(".%06d", micros)
	}
	return out
}
