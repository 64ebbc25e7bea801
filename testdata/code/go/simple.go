// Package server exposes a tiny HTTP handler used by the parser tests.
package server

import (
	"fmt"
	"net/http"

	cfg "example.com/app/internal/config"
	_ "embed"
)

import "strings"

const (
	DefaultPort    = 8080
	DefaultTimeout = 30
)

var globalConfig = Config{Port: DefaultPort}

var banner = `
func NotAFunction() {}
type NotAType struct{}
`

// Config holds listener settings.
type Config struct {
	Port    int
	Timeout int
}

// Store persists handlers.
type Store interface {
	Save(h *Handler) error
}

type Handler struct {
	config *Config
}

type (
	// ID identifies a handler.
	ID string

	Registry interface {
		Lookup(id ID) (*Handler, bool)
	}
)

// Pair is a generic tuple.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// NewHandler creates a Handler.
// It never returns nil.
func NewHandler(config *Config) *Handler {
	type local struct{}
	return &Handler{config: config}
}

/*
ServeHTTP writes a greeting.
*/
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Hello, World!")
	_ = strings.ToUpper(cfg.Name)
}

// Map applies f to every element.

func Map[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

//go:noinline
func (p Pair[K, V]) Swap() Pair[K, V] {
	return p
}
