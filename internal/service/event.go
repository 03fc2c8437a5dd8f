package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"github.com/zohair-aabidi/ajenda/internal/repository"
)

var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidRange  = errors.New("range end is before range start")
)

// EventTimeLayout is the wire format of event timestamps (ISO local date-time).
const EventTimeLayout = "2006-01-02T15:04:05"

var eventTimeLayouts = []string{
	time.RFC3339Nano,
	EventTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseEventTime parses an ISO date-time. Values without a zone are taken as UTC.
func ParseEventTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date-time %q", s)
}

// EventTime is a timestamp exchanged as an ISO local date-time in UTC.
type EventTime struct {
	time.Time
}

func (t EventTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(EventTimeLayout) + `"`), nil
}

func (t *EventTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date-time %s", s)
	}
	parsed, err := ParseEventTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// EventRequest is the writable part of an event.
type EventRequest struct {
	Title           string    `json:"titre" binding:"required,max=255"`
	Description     string    `json:"description" binding:"max=1000"`
	Start           EventTime `json:"dateDebut" swaggertype:"string" example:"2024-05-01T09:00:00"`
	End             EventTime `json:"dateFin" swaggertype:"string" example:"2024-05-01T09:30:00"`
	BackgroundColor string    `json:"couleurFond" binding:"omitempty,hexcolor"`
	TextColor       string    `json:"couleurTexte" binding:"omitempty,hexcolor"`
	Location        string    `json:"lieu" binding:"max=255"`
	AllDay          bool      `json:"estJourneeEntiere"`
}

type EventResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"titre"`
	Description     string    `json:"description"`
	Start           EventTime `json:"dateDebut" swaggertype:"string" example:"2024-05-01T09:00:00"`
	End             EventTime `json:"dateFin" swaggertype:"string" example:"2024-05-01T09:30:00"`
	BackgroundColor string    `json:"couleurFond"`
	TextColor       string    `json:"couleurTexte"`
	Location        string    `json:"lieu"`
	AllDay          bool      `json:"estJourneeEntiere"`
	UserID          int64     `json:"userId"`
}

// EventService manages events on behalf of an authenticated principal.
// Methods taking a principal enforce ownership and return auth.ErrForbidden
// or auth.ErrUnauthenticated on refusal.
type EventService interface {
	Create(ctx context.Context, owner *auth.Principal, req EventRequest) (*EventResponse, error)
	Get(ctx context.Context, caller *auth.Principal, id int64) (*EventResponse, error)
	Update(ctx context.Context, caller *auth.Principal, id int64, req EventRequest) (*EventResponse, error)
	Delete(ctx context.Context, caller *auth.Principal, id int64) error
	ListOwn(ctx context.Context, caller *auth.Principal) ([]EventResponse, error)
	ListOwnInRange(ctx context.Context, caller *auth.Principal, from, to time.Time) ([]EventResponse, error)
	SearchOwn(ctx context.Context, caller *auth.Principal, keyword string) ([]EventResponse, error)
	ListAll(ctx context.Context) ([]EventResponse, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]EventResponse, error)
	Search(ctx context.Context, keyword string) ([]EventResponse, error)
}

type eventService struct {
	repo repository.EventRepository
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo}
}

func (s *eventService) Create(ctx context.Context, owner *auth.Principal, req EventRequest) (*EventResponse, error) {
	if owner == nil {
		return nil, auth.ErrUnauthenticated
	}

	event := &models.Event{UserID: owner.ID}
	applyRequest(event, req)

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	return toResponse(event), nil
}

func (s *eventService) Get(ctx context.Context, caller *auth.Principal, id int64) (*EventResponse, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.HasRole(auth.RoleAdmin) {
		if d := auth.CheckOwnership(caller, event.UserID); !d.Allowed {
			return nil, d.Reason
		}
	}
	return toResponse(event), nil
}

func (s *eventService) Update(ctx context.Context, caller *auth.Principal, id int64, req EventRequest) (*EventResponse, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := auth.CheckOwnership(caller, event.UserID); !d.Allowed {
		return nil, d.Reason
	}

	applyRequest(event, req)
	event.UserID = caller.ID

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return toResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, caller *auth.Principal, id int64) error {
	event, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if d := auth.CheckOwnership(caller, event.UserID); !d.Allowed {
		return d.Reason
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func (s *eventService) ListOwn(ctx context.Context, caller *auth.Principal) ([]EventResponse, error) {
	if caller == nil {
		return nil, auth.ErrUnauthenticated
	}
	return toResponses(s.repo.FindByOwner(ctx, caller.ID))
}

func (s *eventService) ListOwnInRange(ctx context.Context, caller *auth.Principal, from, to time.Time) ([]EventResponse, error) {
	if caller == nil {
		return nil, auth.ErrUnauthenticated
	}
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	return toResponses(s.repo.FindByOwnerInRange(ctx, caller.ID, from, to))
}

func (s *eventService) SearchOwn(ctx context.Context, caller *auth.Principal, keyword string) ([]EventResponse, error) {
	if caller == nil {
		return nil, auth.ErrUnauthenticated
	}
	return toResponses(s.repo.SearchByOwner(ctx, caller.ID, keyword))
}

func (s *eventService) ListAll(ctx context.Context) ([]EventResponse, error) {
	return toResponses(s.repo.FindAll(ctx))
}

func (s *eventService) ListInRange(ctx context.Context, from, to time.Time) ([]EventResponse, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}
	return toResponses(s.repo.FindInRange(ctx, from, to))
}

func (s *eventService) Search(ctx context.Context, keyword string) ([]EventResponse, error) {
	return toResponses(s.repo.Search(ctx, keyword))
}

func (s *eventService) load(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

func applyRequest(event *models.Event, req EventRequest) {
	event.Title = req.Title
	event.Description = req.Description
	event.Start = req.Start.UTC()
	event.End = req.End.UTC()
	event.Location = req.Location
	event.AllDay = req.AllDay
	event.BackgroundColor = orDefault(req.BackgroundColor, models.DefaultBackgroundColor)
	event.TextColor = orDefault(req.TextColor, models.DefaultTextColor)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func toResponse(e *models.Event) *EventResponse {
	return &EventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Start:           EventTime{e.Start},
		End:             EventTime{e.End},
		BackgroundColor: e.BackgroundColor,
		TextColor:       e.TextColor,
		Location:        e.Location,
		AllDay:          e.AllDay,
		UserID:          e.UserID,
	}
}

func toResponses(events []models.Event, err error) ([]EventResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, *toResponse(&events[i]))
	}
	return out, nil
}
