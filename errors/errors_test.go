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

package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	err := errors.New("something went wrong")
	panicErr := NewPanicError(err)
	require.EqualError(t, panicErr, "panic: something went wrong")
	assert.ErrorIs(t, panicErr, err)
	assert.ErrorIs(t, panicErr, ErrPanic)

	creationErr := NewErrEntityCreation("leon", err)
	assert.ErrorIs(t, creationErr, ErrEntityCreation)
	assert.ErrorIs(t, creationErr, err)
	assert.Contains(t, creationErr.Error(), "entity=leon")

	remoteErr := NewErrInvalidRemoteMessage(err)
	assert.ErrorIs(t, remoteErr, ErrInvalidRemoteMessage)
	assert.ErrorIs(t, remoteErr, err)

	initErr := NewErrInitFailure(err)
	assert.ErrorIs(t, initErr, ErrInitFailure)

	require.EqualError(t, NewErrActorAlreadyExists("host"), "actor=(host) actor already exists")
	require.EqualError(t, NewErrActorNotFound("1234"), "(actor=1234) actor not found")
	require.EqualError(t, NewErrNodeUnreachable(2), "(node=2) node is unreachable")
	require.EqualError(t, NewErrHandlerNotRegistered("a", "m"), "(actor=a, message=m) remote handler is not registered")
}
