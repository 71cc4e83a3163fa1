package service

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/repository"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

var testCreds = transfer.TwitterCredentials{
	TwitterAPIKey:       "api-key",
	TwitterAPISecret:    "api-secret",
	TwitterAccessToken:  "access-token",
	TwitterAccessSecret: "access-secret",
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fakeScheduledRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.ScheduledTweet
}

func newFakeScheduledRepo() *fakeScheduledRepo {
	return &fakeScheduledRepo{rows: map[int64]*models.ScheduledTweet{}}
}

func (r *fakeScheduledRepo) Create(_ context.Context, st *models.ScheduledTweet) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	cp := *st
	cp.ID = r.nextID
	cp.Status = models.ScheduleStatusPending
	r.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeScheduledRepo) GetByID(_ context.Context, id int64) (*models.ScheduledTweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *fakeScheduledRepo) GetByUserID(_ context.Context, userID int64) ([]*models.ScheduledTweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduledTweet
	for _, st := range r.rows {
		if st.UserID == userID {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduledRepo) CheckByUserID(_ context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rows[id]
	return ok && st.UserID == userID, nil
}

func (r *fakeScheduledRepo) FindDuePending(_ context.Context, now time.Time) ([]*models.ScheduledTweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ScheduledTweet
	for _, st := range r.rows {
		if st.Status == models.ScheduleStatusPending && !st.ScheduledTime.After(now) {
			cp := *st
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduledRepo) TryTransition(_ context.Context, id int64, from, to models.ScheduleStatus, f models.TransitionFields) (bool, error) {
	if from.Terminal() || !to.Terminal() {
		return false, repository.ErrInvalidTransition
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.rows[id]
	if !ok || st.Status != from {
		return false, nil
	}
	st.Status = to
	st.PostedTweetID = f.PostedTweetID
	st.FailureReason = f.FailureReason
	return true, nil
}

func (r *fakeScheduledRepo) Remove(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

type fakeTweetRepo struct {
	nextID int64
	rows   map[int64]*models.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{rows: map[int64]*models.Tweet{}}
}

func (r *fakeTweetRepo) Create(_ context.Context, t *models.Tweet) (int64, error) {
	r.nextID++
	cp := *t
	cp.ID = r.nextID
	r.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeTweetRepo) GetByID(_ context.Context, id int64) (*models.Tweet, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *fakeTweetRepo) GetByUserID(_ context.Context, userID int64) ([]*models.Tweet, error) {
	var out []*models.Tweet
	for _, t := range r.rows {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTweetRepo) Remove(_ context.Context, id int64) error {
	delete(r.rows, id)
	return nil
}

type fakeUserRepo struct {
	nextID int64
	users  map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, bool, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, bool, error) {
	u, ok := r.users[email]
	return u, ok, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	if _, ok := r.users[user.Email]; ok {
		return 0, repository.ErrEmailTaken
	}
	r.nextID++
	cp := *user
	cp.ID = r.nextID
	r.users[cp.Email] = &cp
	return cp.ID, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, email, hash string) error {
	if u, ok := r.users[email]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *fakeUserRepo) Remove(_ context.Context, id int64) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
		}
	}
	return nil
}

type fakeKeysRepo struct {
	rows map[int64]*models.ProviderKeys
}

func newFakeKeysRepo() *fakeKeysRepo {
	return &fakeKeysRepo{rows: map[int64]*models.ProviderKeys{}}
}

func (r *fakeKeysRepo) GetByUserID(_ context.Context, userID int64) (*models.ProviderKeys, error) {
	k, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	cp := *k
	return &cp, nil
}

func (r *fakeKeysRepo) Upsert(_ context.Context, keys *models.ProviderKeys) error {
	cp := *keys
	r.rows[keys.UserID] = &cp
	return nil
}

type fakeImageStore struct {
	stored []*Media
}

func (s *fakeImageStore) Store(_ context.Context, media *Media) (string, error) {
	s.stored = append(s.stored, media)
	return "https://cdn.example.com/images/abc." + media.Extension, nil
}

type fakeSender struct {
	codes map[string]string
}

func (s *fakeSender) SendOTP(_ context.Context, email, otp, purpose string) error {
	if s.codes == nil {
		s.codes = map[string]string{}
	}
	s.codes[purpose+":"+email] = otp
	return nil
}
