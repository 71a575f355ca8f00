// Package memory holds in-memory repository implementations backing the
// use case tests. Semantics mirror the postgres repositories, including the
// unique pair constraint and the discovery filter pipeline.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/milanapp/milan-backend/internal/domain"
	"github.com/milanapp/milan-backend/internal/repository"
)

type ProfileRepository struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.Profile

	// LastFilter records the filter passed to the most recent Discover call.
	LastFilter repository.DiscoveryFilter
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: map[uuid.UUID]*domain.Profile{}}
}

func (r *ProfileRepository) Create(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.profiles {
		if existing.PhoneNumber == p.PhoneNumber {
			return domain.ErrUserAlreadyExists
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cpy := *p
	r.profiles[p.ID] = &cpy
	return nil
}

func (r *ProfileRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	cpy := *p
	return &cpy, nil
}

func (r *ProfileRepository) GetByPhone(_ context.Context, phone string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.PhoneNumber == phone {
			cpy := *p
			return &cpy, nil
		}
	}
	return nil, domain.ErrProfileNotFound
}

func (r *ProfileRepository) Update(_ context.Context, p *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return domain.ErrProfileNotFound
	}
	cpy := *p
	cpy.UpdatedAt = time.Now()
	r.profiles[p.ID] = &cpy
	return nil
}

func (r *ProfileRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[id]; !ok {
		return domain.ErrProfileNotFound
	}
	delete(r.profiles, id)
	return nil
}

func (r *ProfileRepository) UpdateFCMToken(_ context.Context, id uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return domain.ErrProfileNotFound
	}
	p.FCMToken = &token
	return nil
}

func (r *ProfileRepository) Discover(_ context.Context, f repository.DiscoveryFilter) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastFilter = f

	excluded := make(map[uuid.UUID]bool, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = true
	}

	var out []*domain.Profile
	for _, p := range r.profiles {
		if excluded[p.ID] {
			continue
		}
		if f.Gender != "" && p.Gender != f.Gender {
			continue
		}
		age := p.CurrentAge()
		if f.AgeMin > 0 && age < f.AgeMin {
			continue
		}
		if f.AgeMax > 0 && age > f.AgeMax {
			continue
		}
		if f.PhotosOnly && !p.HasPhotos() {
			continue
		}
		if f.State != "" && p.UserType != domain.UserTypeDemo {
			if p.State != f.State || p.City != f.City {
				continue
			}
		}
		if len(f.Interests) > 0 && !overlaps(p.Interests, f.Interests) {
			continue
		}
		cpy := *p
		out = append(out, &cpy)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out, nil
}

func (r *ProfileRepository) RandomDemo(_ context.Context, gender domain.Gender) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var demos []*domain.Profile
	for _, p := range r.profiles {
		if p.UserType != domain.UserTypeDemo {
			continue
		}
		if gender != "" && p.Gender != gender {
			continue
		}
		demos = append(demos, p)
	}
	if len(demos) == 0 {
		return nil, domain.ErrNoDemoProfiles
	}
	cpy := *demos[rand.Intn(len(demos))]
	return &cpy, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

type InteractionRepository struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.Interaction

	// PairMisses makes GetByPair report not-found that many times before
	// resolving normally, replaying the concurrent-insert race.
	PairMisses int
}

var _ repository.InteractionRepository = (*InteractionRepository)(nil)

func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{records: map[uuid.UUID]*domain.Interaction{}}
}

func (r *InteractionRepository) Create(_ context.Context, in *domain.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if samePair(existing, in.ActorID, in.TargetID) {
			return domain.ErrInteractionExists
		}
	}
	now := time.Now()
	in.CreatedAt = now
	in.UpdatedAt = now
	cpy := *in
	r.records[in.ID] = &cpy
	return nil
}

func (r *InteractionRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.records[id]
	if !ok {
		return nil, domain.ErrInteractionNotFound
	}
	cpy := *in
	return &cpy, nil
}

func (r *InteractionRepository) GetByPair(_ context.Context, a, b uuid.UUID) (*domain.Interaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.PairMisses > 0 {
		r.PairMisses--
		return nil, domain.ErrInteractionNotFound
	}
	for _, in := range r.records {
		if samePair(in, a, b) {
			cpy := *in
			return &cpy, nil
		}
	}
	return nil, domain.ErrInteractionNotFound
}

func (r *InteractionRepository) TransitionStatus(_ context.Context, id uuid.UUID, from, to domain.InteractionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.records[id]
	if !ok {
		return false, nil
	}
	if in.Status != from {
		return false, nil
	}
	in.Status = to
	in.UpdatedAt = time.Now()
	return true, nil
}

func (r *InteractionRepository) ListConversational(_ context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	return r.list(func(in *domain.Interaction) bool {
		return in.HasUser(userID) && (in.Status == domain.StatusMatched || in.LastMessage != nil)
	}), nil
}

func (r *InteractionRepository) ListMatched(_ context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	return r.list(func(in *domain.Interaction) bool {
		return in.HasUser(userID) && in.Status == domain.StatusMatched
	}), nil
}

func (r *InteractionRepository) ListPendingReceived(_ context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	return r.list(func(in *domain.Interaction) bool {
		return in.TargetID == userID && in.Status == domain.StatusPending
	}), nil
}

func (r *InteractionRepository) ListPendingSent(_ context.Context, userID uuid.UUID) ([]*domain.Interaction, error) {
	return r.list(func(in *domain.Interaction) bool {
		return in.ActorID == userID && in.Status == domain.StatusPending
	}), nil
}

func (r *InteractionRepository) ListInteractedIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, in := range r.records {
		if !in.HasUser(userID) {
			continue
		}
		// Pending likes received stay visible in discovery.
		if in.TargetID == userID && in.Status == domain.StatusPending {
			continue
		}
		other, _ := in.OtherID(userID)
		ids = append(ids, other)
	}
	return ids, nil
}

func (r *InteractionRepository) RecordMessage(_ context.Context, id uuid.UUID, text string, at time.Time, recipientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.records[id]
	if !ok {
		return domain.ErrInteractionNotFound
	}
	in.LastMessage = &text
	in.LastMessageAt = &at
	if in.ActorID == recipientID {
		in.UnreadActor++
	} else {
		in.UnreadTarget++
	}
	in.UpdatedAt = at
	return nil
}

func (r *InteractionRepository) ResetUnread(_ context.Context, id uuid.UUID, viewerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	in, ok := r.records[id]
	if !ok {
		return domain.ErrInteractionNotFound
	}
	if in.ActorID == viewerID {
		in.UnreadActor = 0
	} else {
		in.UnreadTarget = 0
	}
	return nil
}

func (r *InteractionRepository) list(keep func(*domain.Interaction) bool) []*domain.Interaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Interaction
	for _, in := range r.records {
		if keep(in) {
			cpy := *in
			out = append(out, &cpy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func samePair(in *domain.Interaction, a, b uuid.UUID) bool {
	return (in.ActorID == a && in.TargetID == b) || (in.ActorID == b && in.TargetID == a)
}

type MessageRepository struct {
	mu       sync.Mutex
	messages []*domain.Message
}

var _ repository.MessageRepository = (*MessageRepository)(nil)

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	cpy := *msg
	r.messages = append(r.messages, &cpy)
	return nil
}

func (r *MessageRepository) ListByInteraction(_ context.Context, interactionID uuid.UUID) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Message
	for _, m := range r.messages {
		if m.InteractionID == interactionID {
			cpy := *m
			out = append(out, &cpy)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
