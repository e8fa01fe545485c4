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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tochemey/goshard/actor"
	"github.com/tochemey/goshard/log"
)

type deposit struct {
	Amount int64
}

type balance struct {
	Value int64
}

type getBalance struct{}

type withdraw struct {
	Amount int64
}

var errInsufficientFunds = errors.New("insufficient funds")

type rename struct {
	Name string
}

// accountActor keeps a running balance
type accountActor struct {
	value int64
}

func (a *accountActor) PreStart(context.Context) error { return nil }

func (a *accountActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *deposit:
		a.value += msg.Amount
		ctx.Response(&balance{Value: a.value})
	case *getBalance:
		ctx.Response(&balance{Value: a.value})
	case *withdraw:
		if msg.Amount > a.value {
			ctx.Err(errInsufficientFunds)
			return
		}
		a.value -= msg.Amount
		ctx.Response(&balance{Value: a.value})
	default:
		ctx.Unhandled()
	}
}

func (a *accountActor) PostStop(context.Context) error { return nil }

// echoActor replies with the message it receives
type echoActor struct{}

func (echoActor) PreStart(context.Context) error { return nil }

func (echoActor) Receive(ctx *actor.ReceiveContext) {
	ctx.Response(ctx.Message())
}

func (echoActor) PostStop(context.Context) error { return nil }

const (
	depositHandler    = "account.deposit"
	getBalanceHandler = "account.balance"
	renameHandler     = "account.rename"
	withdrawHandler   = "account.withdraw"
)

func newTestContext(t *testing.T, registrations ...Registration) *Context {
	t.Helper()
	ctx := context.Background()

	system, err := actor.NewActorSystem("test", actor.WithLogger(log.DiscardLogger))
	require.NoError(t, err)
	require.NoError(t, system.Start(ctx))

	rc, err := NewContextBuilder().
		WithHandlers(registrations...).
		WithActorSystem(system).
		WithLogger(log.DiscardLogger).
		Build(ctx)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = rc.Stop(ctx)
		_ = system.Stop(ctx)
	})
	return rc
}

func accountHandlers() []Registration {
	return []Registration{
		NewHandler[*accountActor, *deposit](depositHandler),
		NewHandler[*accountActor, *getBalance](getBalanceHandler),
		NewHandler[*accountActor, *rename](renameHandler),
		NewHandler[*accountActor, *withdraw](withdrawHandler),
	}
}
