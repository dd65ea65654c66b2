package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"example.com/strengthlog/internal/domain"
	"example.com/strengthlog/internal/importer"
)

func TestListActivities(t *testing.T) {
	h := newTestHandler()
	h.users.items[1] = domain.User{ID: 1}
	h.activities.items = []domain.Activity{
		{ID: 1, UserID: 1, Name: "Workout"},
		{ID: 2, UserID: 1, Name: "Press", ParentID: int64Ptr(1)},
	}

	rr := doRequest(t, h.handler, http.MethodGet, "/api/activities", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var got []domain.Activity
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[1].Name != "Press" {
		t.Fatalf("unexpected activities: %+v", got)
	}
}

func TestListActivitiesMissingUser(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodGet, "/api/activities", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}
}

func TestCreateActivity(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodPost, "/api/activities", `{"name":"Deadlift"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var got domain.Activity
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Name != "Deadlift" {
		t.Fatalf("unexpected name %q", got.Name)
	}
	// Omitted user_id falls back to the stand-in user.
	if got.UserID != 1 {
		t.Fatalf("expected user 1 got %d", got.UserID)
	}
}

func TestCreateActivityRequiresName(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodPost, "/api/activities", `{"name":"   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestCreateActivityRejectsBadBody(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodPost, "/api/activities", `{`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestListActivityEvents(t *testing.T) {
	h := newTestHandler()
	h.events.items = []domain.ActivityEvent{{ID: 1, ActivityID: 1, Notes: "25,30"}}

	rr := doRequest(t, h.handler, http.MethodGet, "/api/activity_events", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var got []domain.ActivityEvent
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Notes != "25,30" {
		t.Fatalf("unexpected events: %+v", got)
	}
}

func TestImportCreatesMissingUser(t *testing.T) {
	h := newTestHandler()
	h.fetcher.sheet = "Date\tExercise\tReps\tSets\n2020-04-01\tBicep Curl\t6\t25,30\n"

	rr := doRequest(t, h.handler, http.MethodGet, "/db/import", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var summary importer.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary.Days != 1 || summary.EventsCreated != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(h.users.items) != 1 {
		t.Fatal("expected the stand-in user to be created")
	}
}

func TestImportFetchFailure(t *testing.T) {
	h := newTestHandler()
	h.fetcher.err = errors.New("upstream unreachable")

	rr := doRequest(t, h.handler, http.MethodGet, "/db/import", "")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", rr.Code)
	}
}

func TestReset(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodGet, "/db/reset", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var user domain.User
	if err := json.Unmarshal(rr.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.ID != 1 {
		t.Fatalf("expected fresh user 1 got %d", user.ID)
	}
}

func TestImportMethodNotAllowed(t *testing.T) {
	h := newTestHandler()

	rr := doRequest(t, h.handler, http.MethodPost, "/db/import", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

type testHandler struct {
	handler    *Handler
	activities *stubActivities
	events     *stubEvents
	users      *stubUsers
	fetcher    *stubFetcher
	resetter   *stubResetter
}

func newTestHandler() *testHandler {
	activities := &stubActivities{}
	events := &stubEvents{}
	users := &stubUsers{items: map[int64]domain.User{}}
	fetcher := &stubFetcher{}
	resetter := &stubResetter{}
	imp := importer.NewImporter(activities, events, nil)

	return &testHandler{
		handler:    NewHandler(activities, events, users, imp, fetcher, resetter),
		activities: activities,
		events:     events,
		users:      users,
		fetcher:    fetcher,
		resetter:   resetter,
	}
}

func doRequest(t *testing.T, h *Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

type stubActivities struct {
	nextID int64
	items  []domain.Activity
}

func (s *stubActivities) FindOrCreate(ctx context.Context, name string, parent *domain.Activity, user domain.User) (domain.Activity, error) {
	trimmed := strings.TrimSpace(name)
	var parentID *int64
	if parent != nil {
		parentID = &parent.ID
	}
	for _, a := range s.items {
		if a.UserID == user.ID && strings.EqualFold(a.Name, trimmed) && int64PtrEqual(a.ParentID, parentID) {
			return a, nil
		}
	}
	return s.Create(ctx, domain.NewActivity{UserID: user.ID, Name: trimmed}, parent)
}

func (s *stubActivities) Create(ctx context.Context, activity domain.NewActivity, parent *domain.Activity) (domain.Activity, error) {
	var parentID *int64
	if parent != nil {
		id := parent.ID
		parentID = &id
	}
	s.nextID++
	created := domain.Activity{ID: s.nextID, UserID: activity.UserID, Name: strings.TrimSpace(activity.Name), ParentID: parentID}
	s.items = append(s.items, created)
	return created, nil
}

func (s *stubActivities) FetchFor(ctx context.Context, user domain.User) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0)
	for _, a := range s.items {
		if a.UserID == user.ID {
			out = append(out, a)
		}
	}
	return out, nil
}

type stubEvents struct {
	nextID int64
	items  []domain.ActivityEvent
}

func (s *stubEvents) Create(ctx context.Context, activity domain.Activity, notes string, parent *domain.ActivityEvent) (domain.ActivityEvent, error) {
	var parentID *int64
	if parent != nil {
		id := parent.ID
		parentID = &id
	}
	s.nextID++
	created := domain.ActivityEvent{ID: s.nextID, ActivityID: activity.ID, Notes: notes, ParentID: parentID}
	s.items = append(s.items, created)
	return created, nil
}

func (s *stubEvents) Fetch(ctx context.Context) ([]domain.ActivityEvent, error) {
	return append([]domain.ActivityEvent(nil), s.items...), nil
}

type stubUsers struct {
	nextID int64
	items  map[int64]domain.User
}

func (s *stubUsers) Create(ctx context.Context) (domain.User, error) {
	s.nextID++
	user := domain.User{ID: s.nextID}
	s.items[user.ID] = user
	return user, nil
}

func (s *stubUsers) Find(ctx context.Context, id int64) (domain.User, error) {
	user, ok := s.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

type stubFetcher struct {
	sheet string
	err   error
}

func (s *stubFetcher) Fetch(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.sheet, nil
}

type stubResetter struct{}

func (s *stubResetter) Reset(ctx context.Context) (domain.User, error) {
	return domain.User{ID: 1}, nil
}

func int64Ptr(v int64) *int64 { return &v }

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
