package vos

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// CopyEnv copies all the environment variables in environ into dst.
func CopyEnv(dst VEnv, environ []string) error {
	for _, e := range environ {
		key, value := splitEnv(e)
		if err := dst.Setenv(key, value); err != nil {
			return err
		}
	}

	return nil
}

func splitEnv(e string) (key, value string) {
	split := strings.SplitN(e, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return
}

// NewMapEnv creates a new environment backed by a map.
func NewMapEnv() *MapEnv {
	return &MapEnv{}
}

// NewMapEnvFromEnvList creates an environment from "key=value" pairs.
func NewMapEnvFromEnvList(environ []string) *MapEnv {
	out := &MapEnv{}
	// Ignore error, it will never be set for MapEnv.
	_ = CopyEnv(out, environ)
	return out
}

// NewOSEnv creates an environment holding a copy of the process environment.
func NewOSEnv() *MapEnv {
	return NewMapEnvFromEnvList(os.Environ())
}

// MapEnv implemnts an in-memory VEnv.
type MapEnv struct {
	rw  sync.RWMutex
	env map[string]string
}

var _ VEnv = (*MapEnv)(nil)

// Unsetenv implements VEnv.Unsetenv.
func (m *MapEnv) Unsetenv(key string) error {
	m.rw.Lock()
	defer m.rw.Unlock()
	if m.env != nil {
		delete(m.env, key)
	}
	return nil
}

// Setenv implements VEnv.Setenv.
func (m *MapEnv) Setenv(key, value string) error {
	m.rw.Lock()
	defer m.rw.Unlock()

	if m.env == nil {
		m.env = make(map[string]string)
	}
	m.env[key] = value
	return nil
}

// LookupEnv implements VEnv.LookupEnv.
func (m *MapEnv) LookupEnv(key string) (string, bool) {
	m.rw.RLock()
	defer m.rw.RUnlock()

	val, ok := m.env[key]
	return val, ok
}

// Getenv implements VEnv.Getenv.
func (m *MapEnv) Getenv(key string) string {
	val, _ := m.LookupEnv(key)
	return val
}

// Environ implements VEnv.Environ, entries are sorted by key.
func (m *MapEnv) Environ() []string {
	m.rw.RLock()
	defer m.rw.RUnlock()

	var env []string
	for k, v := range m.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
