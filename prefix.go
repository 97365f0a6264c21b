package rotlog

import (
	"strconv"
	"time"
)

// prefixFormatter renders the per-line header. The template is copied once
// at construction and never changes afterwards.
type prefixFormatter struct {
	template string
	now      func() time.Time
}

func newPrefixFormatter(template string) prefixFormatter {
	return prefixFormatter{template: template, now: time.Now}
}

// appendTo renders the template for one line into buf.
//
//	%i  context id, at least five digits
//	%d  local date, YYYY/MM/DD
//	%t  local time, HH:MM:SS.mmm
//	%l  level name
//
// Anything else after a % (including a second %) is copied through with the
// %. A % at the very end of the template renders nothing.
func (p prefixFormatter) appendTo(buf []byte, level Level, id ContextID) []byte {
	start := len(buf)
	var (
		ts     time.Time
		gotNow bool
	)

	tpl := p.template
	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		if c != '%' {
			buf = append(buf, c)
			continue
		}
		i++
		if i == len(tpl) {
			break
		}
		switch d := tpl[i]; d {
		case 'i':
			buf = appendPadded(buf, uint64(id), 5)
		case 'd', 't':
			if !gotNow {
				ts, gotNow = p.now(), true
			}
			if d == 'd' {
				buf = ts.AppendFormat(buf, "2006/01/02")
			} else {
				buf = ts.AppendFormat(buf, "15:04:05.000")
			}
		case 'l':
			buf = append(buf, level.String()...)
		default:
			buf = append(buf, '%', d)
		}
	}

	if len(buf) > start {
		buf = append(buf, ' ')
	}
	return buf
}

// appendPadded writes n in decimal with at least width digits.
func appendPadded(buf []byte, n uint64, width int) []byte {
	var tmp [20]byte
	digits := strconv.AppendUint(tmp[:0], n, 10)
	for i := len(digits); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, digits...)
}
