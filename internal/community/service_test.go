package community

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/talentgraph/internal/profile"
)

func TestServiceRunPublishesSnapshot(t *testing.T) {
	svc, err := NewService(NewDetector(WithSimilarity(pairSimilarity)), 1, nil)
	require.NoError(t, err)
	defer svc.Release()

	candidates := people("A", "B", "C", "D")
	assert.Nil(t, svc.Latest())
	assert.True(t, svc.Stale(candidates))

	snapshot, err := svc.Run(context.Background(), candidates)
	require.NoError(t, err)
	assert.Same(t, snapshot, svc.Latest())
	assert.Len(t, snapshot.Communities, 2)
	assert.NotEqual(t, uuid.Nil, snapshot.ID)

	assert.False(t, svc.Stale(people("D", "C", "B", "A")), "order does not matter")
	assert.True(t, svc.Stale(people("A", "B", "C")))
}

func TestServiceRefreshIsSingleFlight(t *testing.T) {
	release := make(chan struct{})
	blocking := SimilarityFunc(func(a, b *profile.Candidate) float64 {
		<-release
		return pairSimilarity(a, b)
	})

	svc, err := NewService(NewDetector(WithSimilarity(blocking)), 1, nil)
	require.NoError(t, err)
	defer svc.Release()

	candidates := people("A", "B", "C", "D")
	done, started := svc.Refresh(context.Background(), candidates)
	require.True(t, started)

	_, again := svc.Refresh(context.Background(), candidates)
	assert.False(t, again, "a second refresh must not start while one is in flight")
	assert.Nil(t, svc.Latest(), "readers do not wait for the running detection")

	close(release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not finish")
	}

	require.NotNil(t, svc.Latest())
	assert.Len(t, svc.Latest().Communities, 2)

	done, started = svc.Refresh(context.Background(), candidates)
	require.True(t, started)
	<-done
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := []*profile.Candidate{{ID: "1", Name: "x"}, {ID: "2"}}
	b := []*profile.Candidate{{ID: "2"}, {ID: "1", Name: "x"}}
	c := []*profile.Candidate{{ID: "2"}, {ID: "1", Name: "y"}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
