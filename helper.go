package rotlog

import (
	stderrs "errors"
	"strings"
	"sync"

	smerrors "github.com/Station-Manager/errors"
)

const maxChainDepth = 50

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost non-empty operation identifier
//
// DetailedError.Cause() is preferred over errors.Unwrap.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	seen := map[string]bool{}

	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, emptyString)
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i] != emptyString {
			rootOp = ops[i]
			break
		}
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return emptyString
	}
	return strings.Join(chain, " -> ")
}

// hasCause follows the same path as buildErrorChain and checks every link
// with errors.Is. Joined errors are searched branch by branch.
func hasCause(err, target error) bool {
	for depth := 0; err != nil && depth < maxChainDepth; depth++ {
		if stderrs.Is(err, target) {
			return true
		}
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				if hasCause(e, target) {
					return true
				}
			}
			return false
		}
		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			err = dErr.Cause()
			continue
		}
		err = stderrs.Unwrap(err)
	}
	return false
}

// bounded caps error descriptions at maxErrorMessage bytes.
func bounded(msg string) string {
	if len(msg) <= maxErrorMessage {
		return msg
	}
	return msg[:maxErrorMessage-3] + "..."
}

// linePool recycles the buffers used to assemble one log line.
var linePool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 256)
		return &b
	},
}

func getLine() *[]byte {
	b := linePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

func putLine(b *[]byte) {
	if cap(*b) > 64*1024 {
		return
	}
	linePool.Put(b)
}
