package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestInfoExpires(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	defer n.Close()

	n.Info("Predicted best placement.")
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "Predicted best placement.", cur.Text)
	assert.Equal(t, Info, cur.Kind)

	assert.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestErrorIsSticky(t *testing.T) {
	n := NewNotifier(20 * time.Millisecond)
	defer n.Close()

	n.Error("500 Internal Server Error: boom")
	time.Sleep(60 * time.Millisecond)

	cur, ok := n.Current()
	require.True(t, ok, "errors must not auto-dismiss")
	assert.Equal(t, Error, cur.Kind)

	n.Dismiss()
	_, ok = n.Current()
	assert.False(t, ok)
}

func TestNewerNoticeSurvivesStaleTimer(t *testing.T) {
	n := NewNotifier(30 * time.Millisecond)
	defer n.Close()

	n.Info("first")
	time.Sleep(10 * time.Millisecond)
	n.Error("second")

	// The first notice's timer would fire around now; the error must stay.
	time.Sleep(50 * time.Millisecond)
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Text)
}

func TestEventsSignalOnChange(t *testing.T) {
	n := NewNotifier(time.Minute)
	defer n.Close()

	n.Info("hello")
	select {
	case <-n.Events():
	case <-time.After(time.Second):
		t.Fatal("expected an event after publishing")
	}
}
