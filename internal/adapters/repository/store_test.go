package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/calibra/internal/adapters/repository"
	"github.com/okian/calibra/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSession(id string) *session.Session {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := &session.Session{
		ID:        id,
		State:     session.StateResumeIngest,
		CreatedAt: at,
		UpdatedAt: at,
	}
	s.Prompts[0].Question = "What broke down recently?"
	s.History = append(s.History, session.Transition{
		From:  session.StateResumeIngest,
		To:    session.StateResumeIngest,
		Event: session.TypeCreateSession,
		At:    at,
	})
	return s
}

// exercise runs the shared Store contract against an implementation.
func exercise(t *testing.T, store repository.Store) {
	t.Helper()
	ctx := context.Background()

	Convey("Getting an unknown id should return ErrNotFound", func() {
		_, err := store.Get(ctx, "missing")
		So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
	})

	Convey("Set then Get should round-trip the session", func() {
		sess := sampleSession("s-1")
		So(store.Set(ctx, sess), ShouldBeNil)

		got, err := store.Get(ctx, "s-1")
		So(err, ShouldBeNil)
		So(got.ID, ShouldEqual, "s-1")
		So(got.State, ShouldEqual, session.StateResumeIngest)
		So(got.Prompts[0].Question, ShouldEqual, "What broke down recently?")
		So(got.History, ShouldHaveLength, 1)
		So(store.Count(ctx), ShouldEqual, 1)
	})

	Convey("A second Set for the same id should win", func() {
		sess := sampleSession("s-2")
		So(store.Set(ctx, sess), ShouldBeNil)

		updated := sess.Clone()
		updated.State = session.PromptState(1)
		So(store.Set(ctx, updated), ShouldBeNil)

		got, err := store.Get(ctx, "s-2")
		So(err, ShouldBeNil)
		So(got.State, ShouldEqual, session.PromptState(1))
	})

	Convey("Mutating a returned session should not affect the store", func() {
		sess := sampleSession("s-3")
		So(store.Set(ctx, sess), ShouldBeNil)

		got, err := store.Get(ctx, "s-3")
		So(err, ShouldBeNil)
		got.State = session.StateTerminalComplete

		again, err := store.Get(ctx, "s-3")
		So(err, ShouldBeNil)
		So(again.State, ShouldEqual, session.StateResumeIngest)
	})

	Convey("CountByState should tally sessions per lifecycle state", func() {
		So(store.CountByState(ctx), ShouldBeEmpty)

		first := sampleSession("s-4")
		So(store.Set(ctx, first), ShouldBeNil)

		second := sampleSession("s-5")
		second.State = session.PromptState(2)
		So(store.Set(ctx, second), ShouldBeNil)

		third := sampleSession("s-6")
		third.State = session.PromptState(2)
		So(store.Set(ctx, third), ShouldBeNil)

		counts := store.CountByState(ctx)
		So(counts[session.StateResumeIngest], ShouldEqual, 1)
		So(counts[session.PromptState(2)], ShouldEqual, 2)
		So(counts, ShouldHaveLength, 2)
	})

	Convey("Invalid inputs should be rejected", func() {
		So(errors.Is(store.Set(ctx, nil), repository.ErrNilSession), ShouldBeTrue)
		So(errors.Is(store.Set(ctx, &session.Session{}), repository.ErrEmptyID), ShouldBeTrue)
		_, err := store.Get(ctx, "")
		So(errors.Is(err, repository.ErrEmptyID), ShouldBeTrue)
	})
}

func TestMemStore(t *testing.T) {
	Convey("Given an in-memory store", t, func() {
		store := repository.NewMemStore()
		defer store.Close()
		exercise(t, store)
	})
}

func TestSQLiteStore(t *testing.T) {
	Convey("Given a sqlite store in a temp directory", t, func() {
		path := filepath.Join(t.TempDir(), "calibra.db")
		store, err := repository.NewSQLiteStore(context.Background(), path)
		So(err, ShouldBeNil)
		defer store.Close()
		exercise(t, store)
	})
}
