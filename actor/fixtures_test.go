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

package actor

import (
	"context"
	"errors"
	"time"
)

type increment struct{}

type getCount struct{}

type count struct {
	Value int
}

type boom struct{}

type silent struct{}

type sleep struct {
	Duration time.Duration
}

// counterActor counts increments and replies with its current count
type counterActor struct {
	value   int
	stopped chan struct{}
}

func newCounterActor() *counterActor {
	return &counterActor{stopped: make(chan struct{}, 1)}
}

func (a *counterActor) PreStart(context.Context) error {
	return nil
}

func (a *counterActor) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *increment:
		a.value++
	case *getCount:
		ctx.Response(&count{Value: a.value})
	case *boom:
		panic("boom")
	case *silent:
	case *sleep:
		time.Sleep(msg.Duration)
		ctx.Response(&count{Value: a.value})
	default:
		ctx.Unhandled()
	}
}

func (a *counterActor) PostStop(context.Context) error {
	a.stopped <- struct{}{}
	return nil
}

// failingActor cannot start
type failingActor struct{}

func (failingActor) PreStart(context.Context) error {
	return errors.New("cannot start")
}

func (failingActor) Receive(*ReceiveContext) {}

func (failingActor) PostStop(context.Context) error {
	return nil
}
