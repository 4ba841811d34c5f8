package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	got []Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()

	first, unsubscribe := b.Subscribe(1)
	second, unsubscribeSecond := b.Subscribe(1)
	defer unsubscribeSecond()

	n := Notification{Kind: KindModelUploaded, ModelID: "m1"}
	require.NoError(t, b.Notify(context.TODO(), n))

	assert.Equal(t, n, <-first)
	assert.Equal(t, n, <-second)

	unsubscribe()
	unsubscribe()
	_, ok := <-first
	assert.False(t, ok)

	// a full subscriber does not block
	require.NoError(t, b.Notify(context.TODO(), n))
	require.NoError(t, b.Notify(context.TODO(), n))
	assert.Len(t, second, 1)
}

func TestMultiNotifier(t *testing.T) {
	boom := errors.New("boom")
	ok := &recorder{}
	failing := &recorder{err: boom}

	err := MultiNotifier{failing, ok}.Notify(context.TODO(), Notification{Kind: KindModelDeleted, ModelID: "m1"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, ok.got, 1)
	assert.Len(t, failing.got, 1)
}
