/*
 * MIT License
 *
 * Copyright (c) 2022-2025  Arsene Tochemey Gandote
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package remote

import (
	"context"

	"github.com/tochemey/goshard/actor"
)

// handlerKey is the (actor type, message type) pair of a handler
type handlerKey struct {
	actorType   string
	messageType string
}

// handlerRegistry maps handler identifiers to handlers and the reverse
// (actor type, message type) pairs to identifiers.
// It is only mutated before the registry actor starts.
type handlerRegistry struct {
	handlers map[string]messageHandler
	names    map[handlerKey]string
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{
		handlers: make(map[string]messageHandler),
		names:    make(map[handlerKey]string),
	}
}

// register adds the handler under the given identifier.
// A duplicate identifier overwrites the previous registration.
func (r *handlerRegistry) register(id string, handler messageHandler) {
	if previous, ok := r.handlers[id]; ok {
		key := handlerKey{previous.actorType(), previous.messageType()}
		if r.names[key] == id {
			delete(r.names, key)
		}
	}

	r.handlers[id] = handler
	r.names[handlerKey{handler.actorType(), handler.messageType()}] = id
}

func (r *handlerRegistry) lookupByID(id string) (messageHandler, bool) {
	handler, ok := r.handlers[id]
	return handler, ok
}

func (r *handlerRegistry) lookupByTypes(actorType, messageType string) (string, bool) {
	id, ok := r.names[handlerKey{actorType, messageType}]
	return id, ok
}

type getHandler struct {
	id string
}

type getHandlerName struct {
	actorType   string
	messageType string
}

// handlerFound is the reply to getHandler and getHandlerName
type handlerFound struct {
	id      string
	handler messageHandler
	found   bool
}

// registryActor serves lookups of the handler registry
type registryActor struct {
	registry *handlerRegistry
}

// enforce compilation error
var _ actor.Actor = (*registryActor)(nil)

func newRegistryActor(registry *handlerRegistry) *registryActor {
	return &registryActor{registry: registry}
}

func (x *registryActor) PreStart(context.Context) error {
	return nil
}

func (x *registryActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *getHandler:
		handler, ok := x.registry.lookupByID(msg.id)
		ctx.Response(&handlerFound{id: msg.id, handler: handler, found: ok})
	case *getHandlerName:
		id, ok := x.registry.lookupByTypes(msg.actorType, msg.messageType)
		ctx.Response(&handlerFound{id: id, found: ok})
	default:
		ctx.Unhandled()
	}
}

func (x *registryActor) PostStop(context.Context) error {
	return nil
}
