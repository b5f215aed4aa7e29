package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/calibra/internal/adapters/http/api"
	"github.com/okian/calibra/internal/adapters/repository"
	"github.com/okian/calibra/internal/domain/machine"
	"github.com/okian/calibra/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

// stubService scripts dispatch and lookup outcomes for handler tests.
type stubService struct {
	dispatched []session.Event
	sess       *session.Session
	derr       *machine.Error
	getSess    *session.Session
	getErr     error
}

func (s *stubService) Dispatch(ctx context.Context, ev session.Event) (*session.Session, *machine.Error) {
	s.dispatched = append(s.dispatched, ev)
	if s.derr != nil {
		return nil, s.derr
	}
	return s.sess, nil
}

func (s *stubService) GetSession(ctx context.Context, id string) (*session.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getSess, nil
}

type stubStats struct {
	stats api.Stats
}

func (s *stubStats) GetStats() api.Stats {
	return s.stats
}

func newMux(svc *stubService) *http.ServeMux {
	server := api.NewServer(svc, &stubStats{stats: api.Stats{Started: true, Store: "memory", Generator: "template"}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestServerRegister(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&stubService{sess: &session.Session{ID: "s-1"}})

		Convey("Then the health endpoint responds", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("And the stats endpoint responds with JSON", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "started")
		})

		Convey("And the metrics endpoint serves the registry", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			So(w.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestHandleDispatch(t *testing.T) {
	Convey("Given a dispatch endpoint", t, func() {
		svc := &stubService{sess: &session.Session{ID: "s-1", State: session.StateResumeIngest}}
		mux := newMux(svc)

		post := func(body string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/dispatch", strings.NewReader(body))
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("When posting a valid create event", func() {
			w := post(`{"event":{"type":"CREATE_SESSION"}}`)

			Convey("Then the updated session is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeResponse(t, w)
				So(string(body["ok"]), ShouldEqual, "true")
				So(string(body["session"]), ShouldContainSubstring, `"s-1"`)
				So(svc.dispatched, ShouldHaveLength, 1)
			})
		})

		Convey("When posting malformed JSON", func() {
			w := post(`{"event":`)

			Convey("Then the request is rejected as BAD_REQUEST", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, machine.CodeBadRequest)
				So(svc.dispatched, ShouldBeEmpty)
			})
		})

		Convey("When a required field is missing", func() {
			w := post(`{"event":{"type":"SUBMIT_RESUME","text":"hello"}}`)

			Convey("Then the coded field error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, machine.CodeMissingRequiredField)
			})
		})

		Convey("When the session does not exist", func() {
			svc.derr = &machine.Error{Code: machine.CodeSessionNotFound, Message: "session missing not found"}
			w := post(`{"event":{"type":"ADVANCE","sessionId":"missing"}}`)

			Convey("Then the handler answers 404 with the code", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, machine.CodeSessionNotFound)
			})
		})

		Convey("When the event is invalid for the current state", func() {
			svc.derr = &machine.Error{Code: machine.CodeInvalidEventForState, Message: "event not allowed"}
			w := post(`{"event":{"type":"ADVANCE","sessionId":"s-1"}}`)

			Convey("Then the handler answers 409 with ok:false", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				body := decodeResponse(t, w)
				So(string(body["ok"]), ShouldEqual, "false")
				So(string(body["error"]), ShouldContainSubstring, machine.CodeInvalidEventForState)
			})
		})

		Convey("When the method is not POST", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dispatch", nil))

			Convey("Then the route is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandleGetSession(t *testing.T) {
	Convey("Given a sessions endpoint", t, func() {
		svc := &stubService{getSess: &session.Session{ID: "s-9", State: session.StateTitleDialogue}}
		mux := newMux(svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		Convey("When the session exists", func() {
			w := get("/sessions/s-9")

			Convey("Then it is returned in the dispatch shape", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decodeResponse(t, w)
				So(string(body["ok"]), ShouldEqual, "true")
				So(string(body["session"]), ShouldContainSubstring, `"TITLE_DIALOGUE"`)
			})
		})

		Convey("When the session is unknown", func() {
			svc.getErr = repository.ErrNotFound
			w := get("/sessions/nope")

			Convey("Then it translates to SESSION_NOT_FOUND", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(w.Body.String(), ShouldContainSubstring, machine.CodeSessionNotFound)
			})
		})

		Convey("When the path has no id", func() {
			w := get("/sessions/")

			Convey("Then the request is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, machine.CodeBadRequest)
			})
		})
	})
}
