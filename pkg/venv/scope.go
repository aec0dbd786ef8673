package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// envVar remembers whether a variable was set before a scope overrode it.
type envVar struct {
	value string
	set   bool
}

func capture(key string) envVar {
	value, set := os.LookupEnv(key)
	return envVar{value: value, set: set}
}

func (e envVar) restore(key string) {
	if e.set {
		os.Setenv(key, e.value)
	} else {
		os.Unsetenv(key)
	}
}

type frame struct {
	id         int
	path       envVar
	virtualEnv envVar
}

// Scope tracks nested activations of venvs in the process environment.
// Activations must be released in the reverse order they were made.
type Scope struct {
	mu     sync.Mutex
	stack  []frame
	nextID int
}

var process Scope

// Enter activates venv on the process-wide scope.
func Enter(venv string) (func(), error) {
	return process.Enter(venv)
}

// Enter prepends <venv>/bin to PATH and sets VIRTUAL_ENV. The returned
// function restores both variables to their previous values, including
// unsetting them if they were not set before.
func (s *Scope) Enter(venv string) (func(), error) {
	abs, err := filepath.Abs(venv)
	if err != nil {
		return nil, fmt.Errorf("resolving venv path: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	f := frame{id: s.nextID, path: capture("PATH"), virtualEnv: capture("VIRTUAL_ENV")}
	s.stack = append(s.stack, f)

	bin := BinDir(abs)
	if f.path.value != "" {
		os.Setenv("PATH", bin+string(os.PathListSeparator)+f.path.value)
	} else {
		os.Setenv("PATH", bin)
	}
	os.Setenv("VIRTUAL_ENV", abs)

	var once sync.Once
	return func() {
		once.Do(func() { s.exit(f.id) })
	}, nil
}

func (s *Scope) exit(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.stack) == 0 || s.stack[len(s.stack)-1].id != id {
		panic("venv: scope restored out of order")
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	top.path.restore("PATH")
	top.virtualEnv.restore("VIRTUAL_ENV")
}

// Depth returns the number of active scopes
func (s *Scope) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

// Environ returns os.Environ() with venv activated, without touching the
// process environment. Used when a child process is the only consumer.
func Environ(venv string) []string {
	bin := BinDir(venv)
	env := []string{}
	hasPath := false
	for _, kv := range os.Environ() {
		switch {
		case strings.HasPrefix(kv, "PATH="):
			hasPath = true
			rest := strings.TrimPrefix(kv, "PATH=")
			if rest == "" {
				kv = "PATH=" + bin
			} else {
				kv = "PATH=" + bin + string(os.PathListSeparator) + rest
			}
		case strings.HasPrefix(kv, "VIRTUAL_ENV="):
			continue
		}
		env = append(env, kv)
	}
	if !hasPath {
		env = append(env, "PATH="+bin)
	}
	return append(env, "VIRTUAL_ENV="+venv)
}
