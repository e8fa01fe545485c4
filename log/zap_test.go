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

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger(t *testing.T) {
	t.Run("With Debug log level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(DebugLevel, buffer)
		logger.Debug("test debug")

		expected := "test debug"
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		lvl, err := extractLevel(buffer.Bytes())
		require.NoError(t, err)
		assert.Equal(t, DebugLevel.String(), lvl)
		assert.Equal(t, DebugLevel, logger.LogLevel())
	})
	t.Run("With Info log level skips debug entries", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debug("test debug")
		require.Empty(t, buffer.String())

		logger.Infof("shard=%d", 1)
		actual, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "shard=1", actual)
		assert.Equal(t, InfoLevel, logger.LogLevel())
	})
	t.Run("With Warn log level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Warnf("host %s", "node-1")

		lvl, err := extractLevel(buffer.Bytes())
		require.NoError(t, err)
		assert.Equal(t, "WARN", lvl)
		assert.Equal(t, WarningLevel, logger.LogLevel())
	})
	t.Run("With fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer).With("kind", "account", "shard", uint32(7), "err", errors.New("boom"))
		logger.Info("allocated")

		entry := make(map[string]any)
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
		assert.Equal(t, "account", entry["kind"])
		assert.EqualValues(t, 7, entry["shard"])
		assert.Equal(t, "boom", entry["err"])
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Same(t, logger, logger.With())
	})
	t.Run("Flush skips non file outputs", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		require.NoError(t, logger.Flush())
		require.Len(t, logger.LogOutput(), 1)
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Info("nothing")
	logger.Errorf("nothing %d", 1)
	assert.Equal(t, DiscardLogger, logger.With("key", "value"))
	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.NoError(t, logger.Flush())
	assert.Panics(t, func() { logger.Panic("boom") })
}

func extractMessage(bytes []byte) (string, error) {
	var head map[string]any
	if err := json.Unmarshal(bytes, &head); err != nil {
		return "", err
	}
	return head["msg"].(string), nil
}

func extractLevel(bytes []byte) (string, error) {
	var head map[string]any
	if err := json.Unmarshal(bytes, &head); err != nil {
		return "", err
	}
	return head["level"].(string), nil
}
