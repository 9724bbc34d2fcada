package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

type fakePublisher struct {
	published int
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context) error {
	p.published++
	return p.err
}

func TestGroup_InvalidateAll(t *testing.T) {
	a, b := &countingInvalidator{}, &countingInvalidator{}
	g := NewGroup(nil, a)
	g.Add(b)

	g.InvalidateAll(context.Background())
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestGroup_PublishesAfterLocalClear(t *testing.T) {
	a := &countingInvalidator{}
	pub := &fakePublisher{err: errors.New("redis gone")}
	g := NewGroup(nil, a)
	g.SetPublisher(pub)

	g.InvalidateAll(context.Background())
	assert.Equal(t, 1, a.calls, "publish failure must not block local invalidation")
	assert.Equal(t, 1, pub.published)

	g.InvalidateLocal("remote")
	assert.Equal(t, 2, a.calls)
	assert.Equal(t, 1, pub.published, "remote notices are not re-published")
}

func TestIsOwnMessage(t *testing.T) {
	assert.True(t, isOwnMessage("abc", "abc"))
	assert.False(t, isOwnMessage("abc", "def"))
}
