package event

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/textnorm"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/ingest"
	"github.com/google/uuid"
)

// Register implements event.EventService. Name, cargo and sede default to
// those of the person already present in the dataset with the same RUT.
func (s *EventServiceImpl) Register(ctx context.Context, req event.CreateEventRequest) (event.Event, error) {
	if err := req.Validate(); err != nil {
		return event.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Event{}, err
	}
	if len(s.dataset) == 0 {
		return event.Event{}, event.ErrNoDataset
	}

	settings := s.settings.Get()
	start, _ := daycount.ParseDate(req.StartDate)
	end, _ := daycount.ParseDate(req.EndDate)

	e := event.Event{
		ID:        uuid.NewString(),
		RUT:       validator.NormalizeRUT(req.RUT),
		Type:      textnorm.TitleOrNil(req.Type),
		Subtype:   textnorm.TitleOrNil(deref(req.Subtype)),
		StartDate: &start,
		EndDate:   &end,
		Hours:     req.Hours,
		Status:    ingest.NormalizeStatus(deref(req.Status)),
		Notes:     trimmed(req.Notes),
	}
	if person, ok := s.findPerson(e.RUT); ok {
		e.RUT = person.RUT
		e.Name = person.Name
		e.Position = person.Position
		e.Site = person.Site
	}
	if name := strings.TrimSpace(deref(req.Name)); name != "" {
		e.Name = name
	}
	if req.Position != nil {
		e.Position = trimmed(req.Position)
	}
	if req.Site != nil {
		e.Site = ingest.NormalizeSite(*req.Site, settings.SiteEquivalences)
	}

	var errs validator.ValidationErrors
	if e.Name == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "nombre",
			Message: "nombre is required for a rut not present in the dataset",
		})
	}
	if e.Type == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "tipo_registro",
			Message: "tipo_registro must name an event type",
		})
	}
	if len(errs) > 0 {
		return event.Event{}, errs
	}

	recompute(&e, settings)

	dataset := append(slices.Clone(s.dataset), e)
	if err := s.commit(ctx, dataset); err != nil {
		return event.Event{}, err
	}

	slog.Info("event registered", "id", e.ID, "rut", e.RUT, "tipo", *e.Type, "dias", e.Days)
	return e, nil
}

// Update implements event.EventService. Only the fields present in req
// change; dias is always recomputed.
func (s *EventServiceImpl) Update(ctx context.Context, req event.UpdateEventRequest) (event.Event, error) {
	if err := req.Validate(); err != nil {
		return event.Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Event{}, err
	}
	idx := s.indexOf(req.ID)
	if idx < 0 {
		return event.Event{}, event.ErrEventNotFound
	}

	e := s.dataset[idx]
	if req.Type != nil {
		if e.Type = textnorm.TitleOrNil(*req.Type); e.Type == nil {
			return event.Event{}, validator.ValidationErrors{{
				Field:   "tipo_registro",
				Message: "tipo_registro must name an event type",
			}}
		}
	}
	if req.Subtype != nil {
		e.Subtype = textnorm.TitleOrNil(*req.Subtype)
	}
	if req.StartDate != nil {
		e.StartDate = daycount.ParseDatePtr(*req.StartDate)
	}
	if req.EndDate != nil {
		e.EndDate = daycount.ParseDatePtr(*req.EndDate)
	}
	if e.StartDate != nil && e.EndDate != nil && e.EndDate.Before(*e.StartDate) {
		return event.Event{}, validator.ValidationErrors{{
			Field:   "fecha_termino",
			Message: "fecha_termino must be on or after fecha_inicio",
		}}
	}
	if req.Hours != nil {
		e.Hours = req.Hours
	}
	if req.Status != nil {
		e.Status = ingest.NormalizeStatus(*req.Status)
	}
	if req.Notes != nil {
		e.Notes = trimmed(req.Notes)
	}

	recompute(&e, s.settings.Get())

	dataset := slices.Clone(s.dataset)
	dataset[idx] = e
	if err := s.commit(ctx, dataset); err != nil {
		return event.Event{}, err
	}

	slog.Info("event updated", "id", e.ID, "dias", e.Days)
	return e, nil
}

// Delete implements event.EventService.
func (s *EventServiceImpl) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return err
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return event.ErrEventNotFound
	}

	dataset := slices.Delete(slices.Clone(s.dataset), idx, idx+1)
	if err := s.commit(ctx, dataset); err != nil {
		return err
	}

	slog.Info("event deleted", "id", id)
	return nil
}

// Preview implements event.EventService.
func (s *EventServiceImpl) Preview(ctx context.Context, req event.PreviewRequest) (event.PreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return event.PreviewResponse{}, err
	}

	rule := daycount.Resolve(req.Type, s.settings.Get().DayRules)
	start, _ := daycount.ParseDate(req.StartDate)
	start = daycount.DateOf(start)

	var end time.Time
	if validator.IsEmpty(req.EndDate) {
		end = daycount.EndFromDays(start, *req.Days, rule)
	} else {
		end, _ = daycount.ParseDate(req.EndDate)
		end = daycount.DateOf(end)
	}

	days, _ := daycount.Days(&start, &end, rule, req.Hours)
	return event.PreviewResponse{
		Rule:      rule,
		StartDate: start,
		EndDate:   end,
		Days:      days,
	}, nil
}

// commit installs dataset as the current one. With the master file active the
// whole dataset is written back and the signature follows the new file, so
// the rows and their IDs are not reloaded.
func (s *EventServiceImpl) commit(ctx context.Context, dataset []event.Event) error {
	if s.source == event.SourceMaster && s.master.Exists() {
		if err := s.master.Save(ctx, dataset); err != nil {
			return fmt.Errorf("failed to save master file: %w", err)
		}
		sig, err := s.loader.Signature(event.SourceFile{Path: s.master.Path()})
		if err != nil {
			return &event.LoadError{Cause: err}
		}
		s.signature = sig
	}
	s.setDataset(dataset)
	return nil
}

// findPerson returns the first dataset row whose RUT matches rut once both
// are normalized.
func (s *EventServiceImpl) findPerson(rut string) (event.Event, bool) {
	for _, e := range s.dataset {
		if e.Name != "" && validator.NormalizeRUT(e.RUT) == rut {
			return e, true
		}
	}
	return event.Event{}, false
}

// recompute sets dias from the range and the counting rule of the event type.
func recompute(e *event.Event, settings config.Settings) {
	rule := daycount.Resolve(e.TypeOr(""), settings.DayRules)
	days, ok := daycount.Days(e.StartDate, e.EndDate, rule, e.Hours)
	if !ok {
		days = 0
	}
	e.Days = days
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
