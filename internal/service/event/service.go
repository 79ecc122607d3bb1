package event

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/query"
	"github.com/google/uuid"
)

// DefaultRecent is the number of rows Recent returns when n is not positive.
const DefaultRecent = 5

type SettingsProvider interface {
	Get() config.Settings
}

// EventServiceImpl owns the application state: the active source, the
// uploaded payload, the signature of the loaded dataset, the dataset itself
// and the derived events and filter options. Every method holds mu.
type EventServiceImpl struct {
	mu sync.Mutex

	loader        event.DatasetLoader
	master        event.MasterRepository
	settings      SettingsProvider
	archive       storage.FileStorage
	examplePath   string
	uploadOptions storage.UploadOptions

	source    event.Source
	upload    *event.SourceFile
	signature string
	dataset   []event.Event
	events    []event.Event
	options   event.Options
}

// NewEventService starts on the master file when it exists, otherwise on the
// example file. archive may be nil, in which case uploads are not kept.
func NewEventService(
	loader event.DatasetLoader,
	master event.MasterRepository,
	settings SettingsProvider,
	archive storage.FileStorage,
	examplePath string,
	uploadOptions storage.UploadOptions,
) event.EventService {
	source := event.SourceExample
	if master.Exists() {
		source = event.SourceMaster
	}
	return &EventServiceImpl{
		loader:        loader,
		master:        master,
		settings:      settings,
		archive:       archive,
		examplePath:   examplePath,
		uploadOptions: uploadOptions,
		source:        source,
	}
}

// Sources implements event.EventService.
func (s *EventServiceImpl) Sources(ctx context.Context) []event.SourceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	uploadName := ""
	if s.upload != nil {
		uploadName = s.upload.Name
	}
	return []event.SourceInfo{
		{
			Source:    event.SourceMaster,
			Label:     "Base maestra",
			Available: s.master.Exists(),
			Active:    s.source == event.SourceMaster,
			Path:      s.master.Path(),
		},
		{
			Source:    event.SourceExample,
			Label:     "Archivo de ejemplo",
			Available: fileExists(s.examplePath),
			Active:    s.source == event.SourceExample,
			Path:      s.examplePath,
		},
		{
			Source:    event.SourceUpload,
			Label:     "Subir archivo",
			Available: s.upload != nil,
			Active:    s.source == event.SourceUpload,
			Path:      uploadName,
		},
	}
}

// SelectSource implements event.EventService. The previous source stays
// active when the new one cannot be loaded.
func (s *EventServiceImpl) SelectSource(ctx context.Context, req event.SelectSourceRequest) (event.DatasetInfo, error) {
	if err := req.Validate(); err != nil {
		return event.DatasetInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.source
	s.source = req.Source
	if err := s.refresh(ctx); err != nil {
		s.source = previous
		return event.DatasetInfo{}, err
	}

	slog.Info("data source selected", "source", s.source, "rows", len(s.dataset))
	return s.info(), nil
}

// Upload implements event.EventService. The payload becomes the upload
// source and is activated; a copy is archived when storage is configured.
func (s *EventServiceImpl) Upload(ctx context.Context, fileName string, data []byte) (event.DatasetInfo, error) {
	if err := s.uploadOptions.Check(fileName, int64(len(data))); err != nil {
		return event.DatasetInfo{}, validator.ValidationErrors{{
			Field:   "file",
			Message: err.Error(),
		}}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previousSource, previousUpload := s.source, s.upload
	s.source = event.SourceUpload
	s.upload = &event.SourceFile{Name: filepath.Base(fileName), Data: data}
	if err := s.refresh(ctx); err != nil {
		s.source, s.upload = previousSource, previousUpload
		return event.DatasetInfo{}, err
	}

	s.archiveUpload(ctx, *s.upload)
	slog.Info("source uploaded", "file", s.upload.Name, "bytes", len(data), "rows", len(s.dataset))
	return s.info(), nil
}

func (s *EventServiceImpl) archiveUpload(ctx context.Context, src event.SourceFile) {
	if s.archive == nil {
		return
	}
	path := filepath.ToSlash(filepath.Join(
		"sources",
		time.Now().Format("2006-01"),
		fmt.Sprintf("%s-%s", uuid.NewString(), src.Name),
	))
	stored, err := s.archive.Upload(ctx, bytes.NewReader(src.Data), path, storage.ContentType(src.Name))
	if err != nil {
		slog.Warn("failed to archive upload", "file", src.Name, "error", err)
		return
	}
	slog.Debug("upload archived", "path", stored)
}

// Columns implements event.EventService.
func (s *EventServiceImpl) Columns(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.currentSource()
	if err != nil {
		return nil, err
	}
	return s.loader.PeekColumns(ctx, src)
}

// Info implements event.EventService.
func (s *EventServiceImpl) Info(ctx context.Context) (event.DatasetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.DatasetInfo{}, err
	}
	return s.info(), nil
}

// Dataset implements event.EventService.
func (s *EventServiceImpl) Dataset(ctx context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.dataset), nil
}

// Events implements event.EventService.
func (s *EventServiceImpl) Events(ctx context.Context) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(s.events), nil
}

// Options implements event.EventService.
func (s *EventServiceImpl) Options(ctx context.Context) (event.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Options{}, err
	}
	return s.options, nil
}

// Get implements event.EventService.
func (s *EventServiceImpl) Get(ctx context.Context, id string) (event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return event.Event{}, err
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return event.Event{}, event.ErrEventNotFound
	}
	return s.dataset[idx], nil
}

// Recent implements event.EventService. Events are ordered by fecha_inicio,
// newest first; undated events go last.
func (s *EventServiceImpl) Recent(ctx context.Context, n int) ([]event.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultRecent
	}

	recent := slices.Clone(s.events)
	slices.SortStableFunc(recent, func(a, b event.Event) int {
		switch {
		case a.StartDate == nil && b.StartDate == nil:
			return 0
		case a.StartDate == nil:
			return 1
		case b.StartDate == nil:
			return -1
		}
		return b.StartDate.Compare(*a.StartDate)
	})
	if len(recent) > n {
		recent = recent[:n]
	}
	return recent, nil
}

// currentSource resolves the active source to the file or payload to read.
func (s *EventServiceImpl) currentSource() (event.SourceFile, error) {
	switch s.source {
	case event.SourceMaster:
		if !s.master.Exists() {
			return event.SourceFile{}, event.ErrMasterFileMissing
		}
		return event.SourceFile{Path: s.master.Path()}, nil
	case event.SourceExample:
		return event.SourceFile{Path: s.examplePath}, nil
	case event.SourceUpload:
		if s.upload == nil {
			return event.SourceFile{}, event.ErrUploadMissing
		}
		return *s.upload, nil
	}
	return event.SourceFile{}, event.ErrUnknownSource
}

// refresh reloads the dataset when the signature of the active source has
// changed since the last load.
func (s *EventServiceImpl) refresh(ctx context.Context) error {
	src, err := s.currentSource()
	if err != nil {
		return err
	}
	sig, err := s.loader.Signature(src)
	if err != nil {
		return &event.LoadError{Cause: err}
	}
	if s.dataset != nil && sig == s.signature {
		return nil
	}

	dataset, sig, err := s.loader.Load(ctx, src)
	if err != nil {
		return err
	}
	s.signature = sig
	s.setDataset(dataset)
	return nil
}

func (s *EventServiceImpl) setDataset(dataset []event.Event) {
	events := make([]event.Event, 0, len(dataset))
	for _, e := range dataset {
		if e.IsEvent() {
			events = append(events, e)
		}
	}
	s.dataset = dataset
	s.events = events
	s.options = query.ListOptions(events)
}

func (s *EventServiceImpl) info() event.DatasetInfo {
	info := event.DatasetInfo{
		Source:    s.source,
		Signature: s.signature,
		Rows:      len(s.dataset),
		Events:    len(s.events),
	}
	if s.source == event.SourceUpload && s.upload != nil {
		info.FileName = s.upload.Name
	}
	return info
}

func (s *EventServiceImpl) indexOf(id string) int {
	return slices.IndexFunc(s.dataset, func(e event.Event) bool {
		return e.ID == id
	})
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
