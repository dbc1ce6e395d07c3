package common

import (
	"context"
	"fmt"
	"reflect"
)

// Request is a command or query struct; Response is whatever the
// handler returns for it. Dispatch is keyed by the request's dynamic
// type, so each command type maps to exactly one handler.
type Request interface{}

// Response represents the result of handling a request
type Response interface{}

// RequestHandler handles one or more request types
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// Mediator routes requests to their registered handlers
type Mediator struct {
	handlers map[reflect.Type]RequestHandler
}

// NewMediator creates an empty mediator
func NewMediator() *Mediator {
	return &Mediator{handlers: make(map[reflect.Type]RequestHandler)}
}

// Send dispatches a request to its registered handler
func (m *Mediator) Send(ctx context.Context, request Request) (Response, error) {
	if request == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}
	handler, ok := m.handlers[reflect.TypeOf(request)]
	if !ok {
		return nil, fmt.Errorf("no handler registered for type %s", reflect.TypeOf(request))
	}
	return handler.Handle(ctx, request)
}

// RegisterHandler registers a handler with the request type inferred
// from the type parameter. Double registration is an error so wiring
// mistakes surface at startup rather than as shadowed handlers.
func RegisterHandler[T Request](m *Mediator, handler RequestHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	var zero T
	requestType := reflect.TypeOf(zero)
	if requestType == nil {
		return fmt.Errorf("request type cannot be nil")
	}
	if _, exists := m.handlers[requestType]; exists {
		return fmt.Errorf("handler already registered for type %s", requestType)
	}
	m.handlers[requestType] = handler
	return nil
}
