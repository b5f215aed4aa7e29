package sessionlock_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/calibra/internal/domain/sessionlock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new lock registry", t, func() {
		Convey("When created with default options", func() {
			r := sessionlock.NewRegistry()

			Convey("Then it should start empty", func() {
				So(r, ShouldNotBeNil)
				So(r.Size(), ShouldEqual, 0)
			})
		})

		Convey("When acquiring and releasing one id", func() {
			r := sessionlock.NewRegistry()
			release := r.Acquire(ctx, "session-1")

			Convey("Then the id should be tracked while held", func() {
				So(r.Size(), ShouldEqual, 1)
				release()
				So(r.Size(), ShouldEqual, 1)
			})

			Convey("Then release should be safe to call twice", func() {
				release()
				So(release, ShouldNotPanic)
			})
		})

		Convey("When holding one id and acquiring another", func() {
			r := sessionlock.NewRegistry()
			releaseA := r.Acquire(ctx, "session-a")

			Convey("Then an unrelated id should not block", func() {
				done := make(chan struct{})
				go func() {
					releaseB := r.Acquire(ctx, "session-b")
					releaseB()
					close(done)
				}()
				<-done
				releaseA()
				So(r.Size(), ShouldEqual, 2)
			})
		})

		Convey("When many goroutines contend on the same id", func() {
			r := sessionlock.NewRegistry()
			counter := 0
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release := r.Acquire(ctx, "hot-session")
					counter++
					release()
				}()
			}
			wg.Wait()

			Convey("Then the critical section should serialize them all", func() {
				So(counter, ShouldEqual, 50)
				So(r.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the registry exceeds its capacity", func() {
			r := sessionlock.NewRegistry(sessionlock.WithCapacity(10))
			for i := 0; i < 25; i++ {
				release := r.Acquire(ctx, fmt.Sprintf("session-%d", i))
				release()
			}

			Convey("Then idle entries should be dropped back to capacity", func() {
				So(r.Size(), ShouldBeLessThanOrEqualTo, 10)
			})
		})
	})
}
