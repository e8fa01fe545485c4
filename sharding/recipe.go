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

package sharding

import (
	"context"

	"github.com/tochemey/goshard/actor"
)

// ActorRecipe describes how to build an entity. It travels with the entity
// requests so that any node can create the entity on demand.
type ActorRecipe interface {
	MarshalBinary() ([]byte, error)
}

// ActorFactory creates the entities of a kind from their recipe
type ActorFactory interface {
	// Kind returns the type tag of the entities created by the factory,
	// as given by actor.KindOf. Remote handlers of the entity messages are
	// looked up with it.
	Kind() string
	// ReadRecipe decodes a recipe produced by ActorRecipe.MarshalBinary
	ReadRecipe(data []byte) (ActorRecipe, error)
	// Create builds the entity described by the recipe
	Create(ctx context.Context, recipe ActorRecipe) (actor.Actor, error)
}
