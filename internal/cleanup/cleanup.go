package cleanup

import "sync"

var (
	registered []func()
	mu         sync.Mutex
)

func Register(fns ...func()) {
	mu.Lock()
	defer mu.Unlock()
	registered = append(registered, fns...)
}

func Cleanup() {
	mu.Lock()
	defer mu.Unlock()
	for _, fn := range registered {
		fn()
	}
}
