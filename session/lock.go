package session

import (
	"sync"

	"github.com/wippyai/salience-go"
)

// exclusive runs fn holding the native's operation lock when it has one.
// Every alloc, call, walk and free of one operation happens under a single
// hold, so sessions sharing an engine instance never interleave inside it.
// The lock is not reentrant; fn must not call back into exclusive.
func exclusive[T any](n salience.Native, fn func() (T, error)) (T, error) {
	if l, ok := n.(sync.Locker); ok {
		l.Lock()
		defer l.Unlock()
	}
	return fn()
}

func (s *Session) exclusive(fn func() error) error {
	_, err := exclusive(s.native, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
