package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/marketplace/base/log"
)

// PanicEvent carries a recovered panic together with the stack it was raised on
type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type options struct {
	name           string
	afterRecovered func(p *PanicEvent)
}

type OptionsFunc func(*options)

// WithName tags the panic log of the goroutine
func WithName(name string) OptionsFunc {
	return func(o *options) {
		o.name = name
	}
}

// WithAfterRecovered is called with the recovered panic before it is reported
func WithAfterRecovered(f func(p *PanicEvent)) OptionsFunc {
	return func(o *options) {
		o.afterRecovered = f
	}
}

func getOptions(fns ...OptionsFunc) options {
	o := options{name: "anonymous"}
	for _, fn := range fns {
		fn(&o)
	}
	return o
}

// Safe runs f on the calling goroutine and turns a panic into a PanicEvent.
// It returns nil when f returns normally.
func Safe(f func(), fns ...OptionsFunc) (evt *PanicEvent) {
	opts := getOptions(fns...)
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		evt = &PanicEvent{Panic: p, Stack: debug.Stack()}
		log.Log().WithFields(log.Fields{
			"goroutine": opts.name,
			"err":       p,
			"stack":     string(evt.Stack),
		}).Error("panic")
		if opts.afterRecovered != nil {
			opts.afterRecovered(evt)
		}
	}()
	f()
	return nil
}

// RecoverableGo runs f on a new goroutine. The returned channel receives the
// panic if f panics and is closed when f returns normally.
func RecoverableGo(f func(), fns ...OptionsFunc) <-chan *PanicEvent {
	panicChan := make(chan *PanicEvent, 1)
	go func() {
		if evt := Safe(f, fns...); evt != nil {
			panicChan <- evt
			return
		}
		close(panicChan)
	}()
	return panicChan
}
