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

package types

import (
	"reflect"
	"strings"
)

// Name returns the stable type tag of the dynamic type of v.
// Pointer types resolve to their element type so that T and *T share a tag.
// A nil value yields an empty string.
func Name(v any) string {
	if v == nil {
		return ""
	}
	return Of(reflect.TypeOf(v))
}

// NameOf returns the type tag of the static type T
func NameOf[T any]() string {
	return Of(reflect.TypeFor[T]())
}

// Of returns the type tag of the given reflect type. Named types are tagged
// with their full import path so that types sharing a package name never
// collide. Unnamed and predeclared types use their string representation.
func Of(rtype reflect.Type) string {
	for rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}

	if pkgPath := rtype.PkgPath(); pkgPath != "" && rtype.Name() != "" {
		return pkgPath + "." + rtype.Name()
	}
	return strings.TrimSpace(rtype.String())
}
