package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_Delivers(t *testing.T) {
	queue := NewQueue(2)
	queue.Emit("one", false)
	queue.Emit("done", true)

	msg := <-queue.C()
	assert.Equal(t, Message{Text: "one"}, msg)
	msg = <-queue.C()
	assert.Equal(t, Message{Text: "done", Status: true}, msg)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	queue := NewQueue(1)
	queue.Emit("kept", false)
	queue.Emit("dropped", false) // must not block

	msg := <-queue.C()
	require.Equal(t, "kept", msg.Text)
	select {
	case msg = <-queue.C():
		t.Fatalf("unexpected message %q", msg.Text)
	default:
	}
}

func TestFuncAndDiscard(t *testing.T) {
	var got string
	Func(func(message string, status bool) { got = message }).Emit("hello", false)
	assert.Equal(t, "hello", got)

	assert.NotPanics(t, func() { Discard.Emit("ignored", true) })
}
