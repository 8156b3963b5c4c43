package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exptracker/internal/core"
	"exptracker/internal/persist"
)

type memGateway struct {
	saved   []core.Expense
	saveErr error
	closed  bool
}

func (g *memGateway) Save(_ context.Context, expenses []core.Expense) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saved = expenses
	return nil
}

func (g *memGateway) Load(context.Context) persist.LoadResult {
	if g.saved == nil {
		return persist.Absent()
	}
	return persist.Loaded(g.saved)
}

func (g *memGateway) Close() error {
	g.closed = true
	return nil
}

type fakePublisher struct {
	calls  int
	count  int
	total  float64
	err    error
	closed bool
}

func (p *fakePublisher) PublishStoreSaved(_ context.Context, count int, total float64) error {
	p.calls++
	p.count, p.total = count, total
	return p.err
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

var sample = []core.Expense{
	{Description: "Coffee", Amount: 3.5, Category: "Food"},
	{Description: "Bus", Amount: 2, Category: "Transport"},
}

func TestSavePublishesAfterLocalSave(t *testing.T) {
	gw := &memGateway{}
	pub := &fakePublisher{}
	s := NewPersistenceService(gw, pub, nil)

	require.NoError(t, s.Save(context.Background(), sample))
	assert.Equal(t, sample, gw.saved)
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 2, pub.count)
	assert.Equal(t, 5.5, pub.total)
}

func TestSaveIgnoresPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	s := NewPersistenceService(&memGateway{}, pub, nil)

	assert.NoError(t, s.Save(context.Background(), sample))
	assert.Equal(t, 1, pub.calls)
}

func TestSaveFailureSkipsPublish(t *testing.T) {
	pub := &fakePublisher{}
	s := NewPersistenceService(&memGateway{saveErr: errors.New("read-only")}, pub, nil)

	err := s.Save(context.Background(), sample)
	assert.ErrorContains(t, err, "read-only")
	assert.Equal(t, 0, pub.calls)
}

func TestNilPublisher(t *testing.T) {
	gw := &memGateway{}
	s := NewPersistenceService(gw, nil, nil)

	require.NoError(t, s.Save(context.Background(), sample))
	res := s.Load(context.Background())
	assert.Equal(t, persist.StatusLoaded, res.Status)
	assert.Equal(t, sample, res.Expenses)
	assert.NoError(t, s.Close())
}

func TestClose(t *testing.T) {
	gw := &memGateway{}
	pub := &fakePublisher{}
	s := NewPersistenceService(gw, pub, nil)

	require.NoError(t, s.Close())
	assert.True(t, gw.closed)
	assert.True(t, pub.closed)
}
