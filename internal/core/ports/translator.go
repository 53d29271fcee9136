// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/xlcache/internal/core/domain"
)

// Translator runs the external batch translator.
//
//go:generate go run go.uber.org/mock/mockgen -source=translator.go -destination=mocks/mock_translator.go -package=mocks
type Translator interface {
	// Translate feeds the lines read from in to the translator described by
	// spec and sends what it answers on out, in order.
	//
	// The stream sent on in ends with an End line. The stream sent on out ends
	// with an End line carrying the translator's last answer, unless the
	// translator produced nothing. Translate closes out before returning.
	Translate(ctx context.Context, spec domain.TranslatorSpec, in <-chan domain.Line, out chan<- domain.Line) error
}
