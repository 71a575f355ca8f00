package match

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/infrastructure/notification"
	"github.com/milanapp/milan-backend/internal/repository/memory"
)

type publishedEvent struct {
	room  string
	event string
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) Publish(room, event string, _ interface{}) {
	p.events = append(p.events, publishedEvent{room: room, event: event})
}

func (p *fakePublisher) count(event string) int {
	n := 0
	for _, e := range p.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func newTestSetup(t *testing.T) (*MatchUseCase, *memory.ProfileRepository, *memory.InteractionRepository, *fakePublisher) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	interactions := memory.NewInteractionRepository()
	pub := &fakePublisher{}
	uc := NewMatchUseCase(interactions, profiles, pub, notification.Noop{}, zap.NewNop())
	return uc, profiles, interactions, pub
}

func addProfile(t *testing.T, profiles *memory.ProfileRepository, name string) uuid.UUID {
	t.Helper()
	p := &domain.Profile{
		ID:          uuid.New(),
		PhoneNumber: "+1555" + name,
		Name:        name,
		Gender:      domain.GenderWomen,
		Age:         25,
		State:       "Maharashtra",
		City:        "Mumbai",
		UserType:    domain.UserTypeReal,
	}
	require.NoError(t, profiles.Create(context.Background(), p))
	return p.ID
}

func TestLike_FirstLikeIsPending(t *testing.T) {
	uc, profiles, interactions, pub := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	resp, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLiked, resp.Outcome)
	assert.Equal(t, alice, resp.Interaction.ActorID)
	assert.Equal(t, bob, resp.Interaction.TargetID)

	in, err := interactions.GetByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, in.Status)
	assert.Equal(t, 1, pub.count("new_like"))
}

func TestLike_MutualLikeMatches(t *testing.T) {
	uc, profiles, interactions, pub := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)

	resp, err := uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, resp.Outcome)

	// The record keeps who acted first.
	in, err := interactions.GetByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMatched, in.Status)
	assert.Equal(t, alice, in.ActorID)

	// Both sides get the match event.
	assert.Equal(t, 2, pub.count("new_match"))
}

func TestLike_RepeatLikeBySameActor(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)

	_, err = uc.Like(context.Background(), alice, bob)
	assert.ErrorIs(t, err, domain.ErrAlreadyInteracted)
}

func TestLike_AfterMatchIsIdempotent(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)

	resp, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyMatched, resp.Outcome)

	resp, err = uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyMatched, resp.Outcome)
}

func TestLike_SelfLikeRejected(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")

	_, err := uc.Like(context.Background(), alice, alice)
	assert.ErrorIs(t, err, domain.ErrSelfInteraction)
}

func TestLike_UnknownTarget(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")

	_, err := uc.Like(context.Background(), alice, uuid.New())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestLike_OnRejectedPairIsSilentNoop(t *testing.T) {
	uc, profiles, interactions, pub := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	require.NoError(t, uc.Reject(context.Background(), alice, bob))

	resp, err := uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLiked, resp.Outcome)

	// Nothing formed and nobody was told.
	in, err := interactions.GetByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, in.Status)
	assert.Equal(t, 0, pub.count("new_like"))
	assert.Equal(t, 0, pub.count("new_match"))
}

func TestLike_ConcurrentInsertRace(t *testing.T) {
	uc, profiles, interactions, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	// Bob's like lands first.
	_, err := uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)

	// Alice's process saw no record before bob's insert committed; her own
	// insert hits the pair constraint and she must resolve against bob's
	// record instead.
	interactions.PairMisses = 1
	resp, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeMatched, resp.Outcome)

	in, err := interactions.GetByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMatched, in.Status)
	assert.Equal(t, bob, in.ActorID)
}

func TestReject_PendingLikeReceived(t *testing.T) {
	uc, profiles, interactions, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)

	require.NoError(t, uc.Reject(context.Background(), bob, alice))

	in, err := interactions.GetByPair(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, in.Status)
}

func TestReject_RepeatRejectConflicts(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	require.NoError(t, uc.Reject(context.Background(), alice, bob))
	assert.ErrorIs(t, uc.Reject(context.Background(), alice, bob), domain.ErrAlreadyInteracted)
}

func TestReject_AfterMatchConflicts(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)
	_, err = uc.Like(context.Background(), bob, alice)
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Reject(context.Background(), alice, bob), domain.ErrAlreadyInteracted)
}

func TestGetMatches_SkipsDeletedProfiles(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")
	carol := addProfile(t, profiles, "carol")

	for _, other := range []uuid.UUID{bob, carol} {
		_, err := uc.Like(context.Background(), alice, other)
		require.NoError(t, err)
		_, err = uc.Like(context.Background(), other, alice)
		require.NoError(t, err)
	}

	require.NoError(t, profiles.Delete(context.Background(), carol))

	matches, err := uc.GetMatches(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, bob, matches[0].User.ID)
}

func TestPendingLikes_Directional(t *testing.T) {
	uc, profiles, _, _ := newTestSetup(t)
	alice := addProfile(t, profiles, "alice")
	bob := addProfile(t, profiles, "bob")

	_, err := uc.Like(context.Background(), alice, bob)
	require.NoError(t, err)

	received, err := uc.GetPendingLikes(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, alice, received[0].User.ID)

	sent, err := uc.GetSentLikes(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, bob, sent[0].User.ID)

	// Nothing pending from the other perspective.
	none, err := uc.GetPendingLikes(context.Background(), alice)
	require.NoError(t, err)
	assert.Empty(t, none)
}
