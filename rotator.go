package rotlog

import (
	stderrs "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

// fileNameTemplate produces the path of each rotation slot. With more than
// one slot the zero-padded sequence number is inserted before the extension
// of the last path element (or appended when there is none):
//
//	app.log, 10 slots -> app.01.log ... app.10.log
//	app,     3 slots  -> app.1 ... app.3
type fileNameTemplate struct {
	head  string
	tail  string
	width int
}

func newFileNameTemplate(path string, maxFiles int) fileNameTemplate {
	if maxFiles <= 1 {
		return fileNameTemplate{head: path}
	}
	ext := filepath.Ext(path)
	return fileNameTemplate{
		head:  strings.TrimSuffix(path, ext),
		tail:  ext,
		width: len(strconv.Itoa(maxFiles)),
	}
}

// name returns the path for slot seq.
func (t fileNameTemplate) name(seq int) string {
	if t.width == 0 {
		return t.head
	}
	var b strings.Builder
	b.Grow(len(t.head) + len(t.tail) + t.width + 1)
	b.WriteString(t.head)
	b.WriteByte('.')
	b.Write(appendPadded(nil, uint64(seq), t.width))
	b.WriteString(t.tail)
	return b.String()
}

// String renders the template in printf form, e.g. "app.%02d.log".
func (t fileNameTemplate) String() string {
	if t.width == 0 {
		return t.head
	}
	return t.head + ".%0" + strconv.Itoa(t.width) + "d" + t.tail
}

// rotator holds the slot ring of one state. It never touches the state's
// destination; State.switchFiles drives it.
type rotator struct {
	template    fileNameTemplate
	maxFiles    int
	maxFileSize int64
	seq         int
	reuse       bool
	enabled     bool
}

func newRotator(path string, maxFiles int, maxFileSize int64, reuse, rotate bool) rotator {
	return rotator{
		template:    newFileNameTemplate(path, maxFiles),
		maxFiles:    maxFiles,
		maxFileSize: maxFileSize,
		seq:         1,
		reuse:       reuse,
		enabled:     rotate && maxFiles > 1,
	}
}

// initialSlot picks where a fresh state starts writing: the first slot with
// no file, or when every slot is taken, the one after the most recently
// modified file so the oldest data is overwritten first.
func (r *rotator) initialSlot() int {
	seq := 1
	var newest int64
	for i := 1; i <= r.maxFiles; i++ {
		info, err := os.Stat(r.template.name(i))
		if err != nil {
			return i
		}
		if mtime := info.ModTime().UnixNano(); mtime > newest {
			newest = mtime
			seq = i%r.maxFiles + 1
		}
	}
	return seq
}

// full reports whether the next write must go to a new slot.
func (r *rotator) full(open bool, written int64) bool {
	return r.enabled && (!open || written >= r.maxFileSize)
}

// advance moves to the next slot and returns its path.
func (r *rotator) advance() string {
	r.seq = r.seq%r.maxFiles + 1
	return r.template.name(r.seq)
}

// openLogFile opens path for writing from offset zero. Without reuse an
// existing file is a policy error and the file is created exclusively.
func openLogFile(path string, reuse bool) (*os.File, error) {
	const op smerrors.Op = "rotlog.openLogFile"

	if !reuse {
		if _, err := os.Stat(path); err == nil {
			return nil, policyError(op, path)
		} else if !stderrs.Is(err, fs.ErrNotExist) {
			return nil, ioError(op, "stat", path, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." && dir != emptyString {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, ioError(op, "create directory for", path, err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if reuse {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if !reuse && stderrs.Is(err, fs.ErrExist) {
			return nil, policyError(op, path)
		}
		return nil, ioError(op, "open", path, err)
	}
	return f, nil
}
