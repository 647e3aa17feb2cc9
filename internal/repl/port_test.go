package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTagsEmptyDirectiveQuitAndSource(t *testing.T) {
	assert.Equal(t, Empty, classify("   ").Kind)
	assert.Equal(t, Directive, classify(":help").Kind)
	assert.Equal(t, Quit, classify(":quit").Kind)
	assert.Equal(t, Quit, classify(":q").Kind)
	assert.Equal(t, Source, classify("let x = 1").Kind)
}

func TestScannerPortRecvsEachLineAndRespondsWithProtocolByte(t *testing.T) {
	in := strings.NewReader("let x = 1\n:help\n")
	var out bytes.Buffer
	port := NewScannerPort(in, &out)

	msg, err := port.Recv()
	require.NoError(t, err)
	assert.Equal(t, Source, msg.Kind)
	assert.Equal(t, "let x = 1", msg.Text)
	require.NoError(t, port.Send(true))

	msg, err = port.Recv()
	require.NoError(t, err)
	assert.Equal(t, Directive, msg.Kind)
	require.NoError(t, port.Send(false))

	assert.Equal(t, []byte{1, 0}, out.Bytes())
}

func TestScannerPortRecvsQuitAtEOF(t *testing.T) {
	port := NewScannerPort(strings.NewReader(""), nil)
	msg, err := port.Recv()
	require.NoError(t, err)
	assert.Equal(t, Quit, msg.Kind)
}

func TestRunLoopStopsOnQuitMessage(t *testing.T) {
	in := strings.NewReader("one\ntwo\n")
	var out bytes.Buffer
	port := NewScannerPort(in, &out)

	var seen []string
	err := RunLoop(port, func(m Message) bool {
		seen = append(seen, m.Text)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, seen)
	assert.Equal(t, []byte{1, 1, 0}, out.Bytes())
}

func TestRunLoopStopsWhenHandlerReturnsFalse(t *testing.T) {
	in := strings.NewReader("one\ntwo\nthree\n")
	var out bytes.Buffer
	port := NewScannerPort(in, &out)

	var seen []string
	err := RunLoop(port, func(m Message) bool {
		seen = append(seen, m.Text)
		return m.Text != "two"
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, seen)
	assert.Equal(t, []byte{1, 0}, out.Bytes())
}
