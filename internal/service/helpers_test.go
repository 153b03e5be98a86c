package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/socialhub/internal/apperror"
	"github.com/sakif/socialhub/internal/model"
	"github.com/sakif/socialhub/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeGateway keeps the last snapshot as encoded bytes, the same way a real
// gateway would, so a test can't accidentally share memory with the App.
type fakeGateway struct {
	saved   []byte
	saves   int
	saveErr error
	loadErr error
}

func (f *fakeGateway) Save(_ context.Context, state *model.State) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	b, err := repository.EncodeState(state)
	if err != nil {
		return err
	}
	f.saved = b
	f.saves++
	return nil
}

func (f *fakeGateway) Load(_ context.Context) (*model.State, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.saved == nil {
		return nil, apperror.NotFound("snapshot", repository.DefaultSnapshotName)
	}
	return repository.DecodeState(f.saved)
}

// testClock ticks one minute per call so every created entity gets a
// distinct, increasing timestamp.
func testClock() func() time.Time {
	t := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func testIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestApp returns an App over an empty fake gateway.
func newTestApp(t *testing.T) (*App, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{}
	app, err := Open(context.Background(), gw, testLogger(), Options{Now: testClock(), NewID: testIDs()})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return app, gw
}

// newTestStores wires the stores directly, without App or persistence.
// Follow notifications are on.
func newTestStores() (*IdentityStore, *RelationshipGraph, *ContentStore, *NotificationCenter, *FeedComposer) {
	state := model.NewState()
	e := &env{now: testClock(), newID: testIDs()}
	users := newIdentityStore(state, e)
	notes := newNotificationCenter(state, e)
	graph := newRelationshipGraph(state, e, users, notes)
	graph.notifyOnFollow = true
	content := newContentStore(state, e, users, notes)
	return users, graph, content, notes, newFeedComposer(users, graph, content)
}

func mustRegister(t *testing.T, users *IdentityStore, name, username string) model.User {
	t.Helper()
	u, err := users.Register(name, username, username+"@x.com", "pw-"+username)
	if err != nil {
		t.Fatalf("Register(%q) error = %v", username, err)
	}
	return u
}

func mustPost(t *testing.T, content *ContentStore, authorID, text string) model.Post {
	t.Helper()
	p, err := content.CreatePost(authorID, text)
	if err != nil {
		t.Fatalf("CreatePost(%q) error = %v", text, err)
	}
	return p
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("error = nil, want %v", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want %v", err, kind)
	}
}

func postIDs(posts []model.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
