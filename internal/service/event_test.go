package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"github.com/zohair-aabidi/ajenda/internal/repository"
)

// =============================================================================
// Mock EventRepository
// =============================================================================

type mockEventRepository struct {
	createFunc             func(ctx context.Context, event *models.Event) error
	findByIDFunc           func(ctx context.Context, id int64) (*models.Event, error)
	existsByIDFunc         func(ctx context.Context, id int64) (bool, error)
	updateFunc             func(ctx context.Context, event *models.Event) error
	deleteFunc             func(ctx context.Context, id int64) error
	findAllFunc            func(ctx context.Context) ([]models.Event, error)
	findByOwnerFunc        func(ctx context.Context, userID int64) ([]models.Event, error)
	findInRangeFunc        func(ctx context.Context, from, to time.Time) ([]models.Event, error)
	findByOwnerInRangeFunc func(ctx context.Context, userID int64, from, to time.Time) ([]models.Event, error)
	searchFunc             func(ctx context.Context, keyword string) ([]models.Event, error)
	searchByOwnerFunc      func(ctx context.Context, userID int64, keyword string) ([]models.Event, error)
}

func (m *mockEventRepository) Create(ctx context.Context, event *models.Event) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, event)
	}
	return errors.New("not implemented")
}

func (m *mockEventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if m.existsByIDFunc != nil {
		return m.existsByIDFunc(ctx, id)
	}
	return false, errors.New("not implemented")
}

func (m *mockEventRepository) Update(ctx context.Context, event *models.Event) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, event)
	}
	return errors.New("not implemented")
}

func (m *mockEventRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockEventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) FindByOwner(ctx context.Context, userID int64) ([]models.Event, error) {
	if m.findByOwnerFunc != nil {
		return m.findByOwnerFunc(ctx, userID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) FindInRange(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	if m.findInRangeFunc != nil {
		return m.findInRangeFunc(ctx, from, to)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) FindByOwnerInRange(ctx context.Context, userID int64, from, to time.Time) ([]models.Event, error) {
	if m.findByOwnerInRangeFunc != nil {
		return m.findByOwnerInRangeFunc(ctx, userID, from, to)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) Search(ctx context.Context, keyword string) ([]models.Event, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, keyword)
	}
	return nil, errors.New("not implemented")
}

func (m *mockEventRepository) SearchByOwner(ctx context.Context, userID int64, keyword string) ([]models.Event, error) {
	if m.searchByOwnerFunc != nil {
		return m.searchByOwnerFunc(ctx, userID, keyword)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

var (
	owner    = auth.NewPrincipal(1, "owner", "owner@example.com", []string{"USER"})
	intruder = auth.NewPrincipal(2, "intruder", "intruder@example.com", []string{"USER"})
	admin    = auth.NewPrincipal(3, "admin", "admin@example.com", []string{"ADMIN"})
)

func hour(h int) time.Time {
	return time.Date(2024, 5, 1, h, 0, 0, 0, time.UTC)
}

func storedEvent() *models.Event {
	return &models.Event{
		ID:              10,
		Title:           "Standup",
		Start:           hour(9),
		End:             hour(10),
		BackgroundColor: models.DefaultBackgroundColor,
		TextColor:       models.DefaultTextColor,
		UserID:          owner.ID,
	}
}

func repoWithEvent(e *models.Event) *mockEventRepository {
	return &mockEventRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*models.Event, error) {
			if id != e.ID {
				return nil, fmt.Errorf("failed to find event by id %d: %w", id, repository.ErrNotFound)
			}
			copied := *e
			return &copied, nil
		},
	}
}

// =============================================================================
// Create Tests
// =============================================================================

func TestEventService_Create(t *testing.T) {
	var saved *models.Event
	repo := &mockEventRepository{
		createFunc: func(ctx context.Context, event *models.Event) error {
			event.ID = 42
			saved = event
			return nil
		},
	}
	svc := NewEventService(repo)

	got, err := svc.Create(context.Background(), owner, EventRequest{
		Title: "Standup",
		Start: EventTime{hour(9)},
		End:   EventTime{hour(10)},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if got.ID != 42 || got.UserID != owner.ID {
		t.Errorf("Create() = %+v", got)
	}
	if saved.BackgroundColor != models.DefaultBackgroundColor || saved.TextColor != models.DefaultTextColor {
		t.Errorf("colors = %s/%s, want defaults", saved.BackgroundColor, saved.TextColor)
	}
}

func TestEventService_Create_Unauthenticated(t *testing.T) {
	svc := NewEventService(&mockEventRepository{})

	_, err := svc.Create(context.Background(), nil, EventRequest{Title: "x"})
	if !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("Create() error = %v, want %v", err, auth.ErrUnauthenticated)
	}
}

// =============================================================================
// Ownership Tests
// =============================================================================

func TestEventService_Get(t *testing.T) {
	svc := NewEventService(repoWithEvent(storedEvent()))

	tests := []struct {
		name    string
		caller  *auth.Principal
		id      int64
		wantErr error
	}{
		{name: "owner", caller: owner, id: 10},
		{name: "admin bypasses ownership", caller: admin, id: 10},
		{name: "other user", caller: intruder, id: 10, wantErr: auth.ErrForbidden},
		{name: "anonymous", caller: nil, id: 10, wantErr: auth.ErrUnauthenticated},
		{name: "missing", caller: owner, id: 99, wantErr: ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Get(context.Background(), tt.caller, tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Get() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Title != "Standup" {
				t.Errorf("Title = %q, want Standup", got.Title)
			}
		})
	}
}

func TestEventService_Update(t *testing.T) {
	tests := []struct {
		name       string
		caller     *auth.Principal
		wantErr    error
		wantUpdate bool
	}{
		{name: "owner", caller: owner, wantUpdate: true},
		{name: "admin is not the owner", caller: admin, wantErr: auth.ErrForbidden},
		{name: "other user", caller: intruder, wantErr: auth.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithEvent(storedEvent())
			updated := false
			repo.updateFunc = func(ctx context.Context, event *models.Event) error {
				updated = true
				return nil
			}
			svc := NewEventService(repo)

			got, err := svc.Update(context.Background(), tt.caller, 10, EventRequest{
				Title:           "Retro",
				Start:           EventTime{hour(14)},
				End:             EventTime{hour(15)},
				BackgroundColor: "#000000",
			})

			if updated != tt.wantUpdate {
				t.Errorf("updated = %v, want %v", updated, tt.wantUpdate)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Update() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if got.Title != "Retro" || got.BackgroundColor != "#000000" || got.TextColor != models.DefaultTextColor {
				t.Errorf("Update() = %+v", got)
			}
		})
	}
}

func TestEventService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		caller     *auth.Principal
		id         int64
		wantErr    error
		wantDelete bool
	}{
		{name: "owner", caller: owner, id: 10, wantDelete: true},
		{name: "other user", caller: intruder, id: 10, wantErr: auth.ErrForbidden},
		{name: "missing", caller: owner, id: 11, wantErr: ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoWithEvent(storedEvent())
			deleted := false
			repo.deleteFunc = func(ctx context.Context, id int64) error {
				deleted = true
				return nil
			}
			svc := NewEventService(repo)

			err := svc.Delete(context.Background(), tt.caller, tt.id)

			if deleted != tt.wantDelete {
				t.Errorf("deleted = %v, want %v", deleted, tt.wantDelete)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("Delete() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Delete() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// =============================================================================
// Listing Tests
// =============================================================================

func TestEventService_ListOwnScopesToCaller(t *testing.T) {
	var gotOwner int64
	repo := &mockEventRepository{
		findByOwnerFunc: func(ctx context.Context, userID int64) ([]models.Event, error) {
			gotOwner = userID
			return []models.Event{*storedEvent()}, nil
		},
	}
	svc := NewEventService(repo)

	events, err := svc.ListOwn(context.Background(), intruder)
	if err != nil {
		t.Fatalf("ListOwn() error = %v", err)
	}
	if gotOwner != intruder.ID {
		t.Errorf("queried owner = %d, want %d", gotOwner, intruder.ID)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestEventService_InvalidRange(t *testing.T) {
	svc := NewEventService(&mockEventRepository{})

	if _, err := svc.ListOwnInRange(context.Background(), owner, hour(10), hour(9)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ListOwnInRange() error = %v, want %v", err, ErrInvalidRange)
	}
	if _, err := svc.ListInRange(context.Background(), hour(10), hour(9)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ListInRange() error = %v, want %v", err, ErrInvalidRange)
	}
}

func TestEventService_EmptyListIsNotNil(t *testing.T) {
	repo := &mockEventRepository{
		searchFunc: func(ctx context.Context, keyword string) ([]models.Event, error) {
			return []models.Event{}, nil
		},
	}
	svc := NewEventService(repo)

	events, err := svc.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if events == nil {
		t.Error("Search() should return an empty slice, not nil")
	}
}

// =============================================================================
// EventTime Tests
// =============================================================================

func TestParseEventTime(t *testing.T) {
	want := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-05-01T10:30:00", want: want},
		{in: "2024-05-01T10:30", want: want},
		{in: "2024-05-01T10:30:00Z", want: want},
		{in: "2024-05-01T12:30:00+02:00", want: want},
		{in: "2024-05-01", want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{in: "01/05/2024", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEventTime(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseEventTime(%q) should fail", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEventTime(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseEventTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestEventResponse_JSONNames(t *testing.T) {
	data, err := json.Marshal(toResponse(storedEvent()))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	for _, key := range []string{"id", "titre", "description", "dateDebut", "dateFin", "couleurFond", "couleurTexte", "lieu", "estJourneeEntiere", "userId"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing JSON field %q in %s", key, data)
		}
	}
	if fields["dateDebut"] != "2024-05-01T09:00:00" {
		t.Errorf("dateDebut = %v, want 2024-05-01T09:00:00", fields["dateDebut"])
	}
}

func TestEventRequest_UnmarshalLocalDateTime(t *testing.T) {
	var req EventRequest
	body := `{"titre":"Standup","dateDebut":"2024-05-01T09:00:00","dateFin":"2024-05-01T10:00","estJourneeEntiere":true}`

	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !req.Start.Equal(hour(9)) || !req.End.Equal(hour(10)) || !req.AllDay {
		t.Errorf("Unmarshal() = %+v", req)
	}

	if err := json.Unmarshal([]byte(`{"dateDebut":"tomorrow"}`), &req); err == nil {
		t.Error("Unmarshal() should reject an unparseable date")
	}
}
