package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeguardian-ai/codeguardian/internal/core"
	"github.com/codeguardian-ai/codeguardian/internal/crypto"
	"github.com/codeguardian-ai/codeguardian/internal/github"
	"github.com/codeguardian-ai/codeguardian/internal/storage"
)

const testKey = "6368616e676520746869732070617373776f726420746f206120736563726574"

type fakeStore struct {
	repo    *storage.Repository
	repoErr error
	user    *storage.User
	userErr error
	saveErr error

	savedReviews []*core.Review
}

func (f *fakeStore) GetRepositoryByFullName(_ context.Context, fullName string) (*storage.Repository, error) {
	if f.repoErr != nil {
		return nil, f.repoErr
	}
	return f.repo, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, _ int64) (*storage.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

func (f *fakeStore) SaveReview(_ context.Context, review *core.Review) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	review.ID = int64(len(f.savedReviews) + 1)
	f.savedReviews = append(f.savedReviews, review)
	return nil
}

func (f *fakeStore) ListReviewsForRepository(_ context.Context, _ int64) ([]core.Review, error) {
	return nil, nil
}

type fakeClient struct {
	err    error
	calls  int
	bodies []string
	tokens []string
}

func (f *fakeClient) CreateComment(_ context.Context, _, _ string, _ int, body string) error {
	f.calls++
	f.bodies = append(f.bodies, body)
	return f.err
}

func newTestPublisher(t *testing.T, store storage.Store, client *fakeClient) Publisher {
	t.Helper()
	cipher, err := crypto.NewTokenCipher(testKey)
	require.NoError(t, err)

	factory := github.ClientFactory(func(_ context.Context, token string) github.Client {
		client.tokens = append(client.tokens, token)
		return client
	})
	return NewPublisher(store, cipher, factory, testLogger())
}

func encryptedToken(t *testing.T, plaintext string) string {
	t.Helper()
	cipher, err := crypto.NewTokenCipher(testKey)
	require.NoError(t, err)
	sealed, err := cipher.Encrypt(plaintext)
	require.NoError(t, err)
	return sealed
}

func trackedStore(t *testing.T) *fakeStore {
	t.Helper()
	return &fakeStore{
		repo: &storage.Repository{ID: 7, FullName: "alice/widget", OwnerID: 3, IsActive: true},
		user: &storage.User{ID: 3, Username: "alice", AccessToken: encryptedToken(t, "gho_plaintext")},
	}
}

func TestPublishHappyPath(t *testing.T) {
	store := trackedStore(t)
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "Looks good to me!")
	require.NoError(t, err)

	// Exactly one comment, carrying the banner and the review text.
	require.Equal(t, 1, client.calls)
	assert.True(t, strings.HasPrefix(client.bodies[0], "**CodeGuardian AI Review:**"))
	assert.Contains(t, client.bodies[0], "Looks good to me!")

	// The client was authenticated with the decrypted token.
	require.Len(t, client.tokens, 1)
	assert.Equal(t, "gho_plaintext", client.tokens[0])

	// Exactly one record, tied to the resolved repository and original event.
	require.Len(t, store.savedReviews, 1)
	saved := store.savedReviews[0]
	assert.Equal(t, int64(7), saved.RepositoryID)
	assert.Equal(t, 42, saved.PRNumber)
	assert.Equal(t, "Add feature", saved.PRTitle)
	assert.Equal(t, "Looks good to me!", saved.ReviewContent)
}

func TestPublishUntrackedRepositorySkips(t *testing.T) {
	store := &fakeStore{repoErr: storage.ErrNotFound}
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	require.NoError(t, err)

	assert.Zero(t, client.calls)
	assert.Empty(t, store.savedReviews)
}

func TestPublishRepositoryLookupFailure(t *testing.T) {
	store := &fakeStore{repoErr: errors.New("connection refused")}
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	assert.ErrorContains(t, err, "failed to look up repository")
	assert.Zero(t, client.calls)
}

func TestPublishOwnerLookupFailure(t *testing.T) {
	store := trackedStore(t)
	store.userErr = errors.New("user row missing")
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	assert.ErrorContains(t, err, "failed to load repository owner")
	assert.Zero(t, client.calls)
}

func TestPublishBadCiphertext(t *testing.T) {
	store := trackedStore(t)
	store.user.AccessToken = "not-a-ciphertext"
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	assert.ErrorContains(t, err, "failed to decrypt access token")
	assert.Zero(t, client.calls)
}

func TestPublishCommentFailureSavesNothing(t *testing.T) {
	store := trackedStore(t)
	client := &fakeClient{err: errors.New("500 internal server error")}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	assert.ErrorContains(t, err, "failed to post review comment")
	assert.Empty(t, store.savedReviews)
}

func TestPublishSaveFailureAfterComment(t *testing.T) {
	store := trackedStore(t)
	store.saveErr = errors.New("disk full")
	client := &fakeClient{}
	pub := newTestPublisher(t, store, client)

	err := pub.Publish(context.Background(), testEvent(), "- issue")
	assert.ErrorContains(t, err, "failed to save review record")
	// The comment went out before the save was attempted.
	assert.Equal(t, 1, client.calls)
}
