package event

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/daycount"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	masterPath  = "data/base_maestra.xlsx"
	examplePath = "data/ejemplo.csv"
)

type fakeLoader struct {
	datasets map[string][]event.Event
	versions map[string]int
	loads    int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{datasets: map[string][]event.Event{}, versions: map[string]int{}}
}

func loaderKey(src event.SourceFile) string {
	if src.IsPayload() {
		return "upload:" + src.Name
	}
	return src.Path
}

func (l *fakeLoader) Signature(src event.SourceFile) (string, error) {
	key := loaderKey(src)
	if _, ok := l.datasets[key]; !ok {
		return "", fmt.Errorf("stat %s: no such file", key)
	}
	return fmt.Sprintf("%s#%d", key, l.versions[key]), nil
}

func (l *fakeLoader) Load(ctx context.Context, src event.SourceFile) ([]event.Event, string, error) {
	sig, err := l.Signature(src)
	if err != nil {
		return nil, "", &event.LoadError{Cause: err}
	}
	l.loads++
	rows := l.datasets[loaderKey(src)]
	out := make([]event.Event, len(rows))
	copy(out, rows)
	return out, sig, nil
}

func (l *fakeLoader) PeekColumns(ctx context.Context, src event.SourceFile) ([]string, error) {
	if _, err := l.Signature(src); err != nil {
		return nil, &event.LoadError{Cause: err}
	}
	return event.Columns, nil
}

type fakeMaster struct {
	exists   bool
	saved    [][]event.Event
	staff    []event.Person
	catalogs event.Catalogs
	saveErr  error
}

func (m *fakeMaster) Path() string { return masterPath }
func (m *fakeMaster) Exists() bool { return m.exists }

func (m *fakeMaster) Save(ctx context.Context, events []event.Event) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, events)
	return nil
}

func (m *fakeMaster) Staff(ctx context.Context) ([]event.Person, error) {
	return m.staff, nil
}

func (m *fakeMaster) Catalogs(ctx context.Context) (event.Catalogs, error) {
	return m.catalogs, nil
}

type staticSettings struct {
	settings config.Settings
}

func (s staticSettings) Get() config.Settings { return s.settings }

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func baseDataset() []event.Event {
	return []event.Event{
		{ID: "staff-ana", RUT: "11111111-1", Name: "Ana Pérez", Position: strPtr("Enfermera"), Site: strPtr("Quilpué"), Status: event.StatusPending},
		{
			ID: "ev-1", RUT: "11111111-1", Name: "Ana Pérez", Position: strPtr("Enfermera"), Site: strPtr("Quilpué"),
			Type: strPtr("Vacaciones"), Subtype: strPtr("Legal"),
			StartDate: day(2024, 2, 5), EndDate: day(2024, 2, 9), Days: 5, Status: event.StatusApproved,
		},
		{
			ID: "ev-2", RUT: "7654321-6", Name: "Luis Soto", Site: strPtr("Villa Alemana"),
			Type: strPtr("Licencia Médica"), StartDate: day(2024, 3, 1), EndDate: day(2024, 3, 20), Days: 20,
			Status: event.StatusPending,
		},
		{ID: "ev-3", RUT: "7654321-6", Name: "Luis Soto", Type: strPtr("Permiso"), Status: event.StatusPending},
	}
}

type fixture struct {
	loader *fakeLoader
	master *fakeMaster
	svc    event.EventService
}

func newFixture(t *testing.T, masterExists bool, settings config.Settings) fixture {
	t.Helper()

	loader := newFakeLoader()
	loader.datasets[masterPath] = baseDataset()
	loader.datasets[examplePath] = baseDataset()[2:]
	master := &fakeMaster{exists: masterExists}

	svc := NewEventService(loader, master, staticSettings{settings}, nil, examplePath, storage.SourceUploadOptions(1<<20))
	return fixture{loader: loader, master: master, svc: svc}
}

func TestNewEventService_DefaultSource(t *testing.T) {
	ctx := context.Background()

	withMaster := newFixture(t, true, config.DefaultSettings())
	info, err := withMaster.svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.SourceMaster, info.Source)
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 3, info.Events)

	withoutMaster := newFixture(t, false, config.DefaultSettings())
	info, err = withoutMaster.svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.SourceExample, info.Source)
	assert.Equal(t, 2, info.Rows)
}

func TestEventService_ReloadsOnlyWhenSignatureChanges(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	_, err := f.svc.Dataset(ctx)
	require.NoError(t, err)
	_, err = f.svc.Events(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.loader.loads)

	f.loader.versions[masterPath]++
	rows, err := f.svc.Dataset(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, 2, f.loader.loads)
}

func TestEventService_SelectSource(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	info, err := f.svc.SelectSource(ctx, event.SelectSourceRequest{Source: event.SourceExample})
	require.NoError(t, err)
	assert.Equal(t, event.SourceExample, info.Source)
	assert.Equal(t, 2, info.Rows)

	_, err = f.svc.SelectSource(ctx, event.SelectSourceRequest{Source: event.SourceUpload})
	assert.ErrorIs(t, err, event.ErrUploadMissing)

	_, err = f.svc.SelectSource(ctx, event.SelectSourceRequest{Source: "ftp"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	info, err = f.svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.SourceExample, info.Source, "failed selections keep the previous source")

	sources := f.svc.Sources(ctx)
	require.Len(t, sources, 3)
	assert.True(t, sources[1].Active)
	assert.False(t, sources[2].Available)
}

func TestEventService_Upload(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	archive, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	f.svc.(*EventServiceImpl).archive = archive

	f.loader.datasets["upload:nuevo.csv"] = baseDataset()[:2]
	info, err := f.svc.Upload(ctx, "nuevo.csv", []byte("rut,nombre\n"))
	require.NoError(t, err)
	assert.Equal(t, event.SourceUpload, info.Source)
	assert.Equal(t, "nuevo.csv", info.FileName)
	assert.Equal(t, 2, info.Rows)

	_, err = f.svc.Upload(ctx, "notas.pdf", []byte("x"))
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "file", verrs[0].Field)

	_, err = f.svc.Upload(ctx, "roto.csv", []byte("x"))
	var loadErr *event.LoadError
	assert.True(t, errors.As(err, &loadErr))

	info, err = f.svc.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "nuevo.csv", info.FileName, "a failed upload keeps the previous payload")
}

func TestEventService_GetAndRecent(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	e, err := f.svc.Get(ctx, "ev-2")
	require.NoError(t, err)
	assert.Equal(t, "Luis Soto", e.Name)

	_, err = f.svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, event.ErrEventNotFound)

	recent, err := f.svc.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"ev-2", "ev-1", "ev-3"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})

	recent, err = f.svc.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestEventService_RegisterFillsPersonAndPersists(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	created, err := f.svc.Register(ctx, event.CreateEventRequest{
		RUT:       "11.111.111-1",
		Type:      "vacaciones",
		StartDate: "04/03/2024",
		EndDate:   "08/03/2024",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "11111111-1", created.RUT)
	assert.Equal(t, "Ana Pérez", created.Name)
	assert.Equal(t, "Quilpué", *created.Site)
	assert.Equal(t, "Vacaciones", *created.Type)
	assert.Equal(t, event.StatusPending, created.Status)
	assert.Equal(t, 5.0, created.Days)

	require.Len(t, f.master.saved, 1)
	assert.Len(t, f.master.saved[0], 5)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err, "registered rows keep their ID")
	assert.Equal(t, created.Days, got.Days)

	opts, err := f.svc.Options(ctx)
	require.NoError(t, err)
	assert.Contains(t, opts.Years, 2024)
}

func TestEventService_RegisterUsesConfiguredRule(t *testing.T) {
	settings := config.DefaultSettings()
	settings.DayRules["vacaciones"] = "naturales"
	f := newFixture(t, true, settings)

	created, err := f.svc.Register(context.Background(), event.CreateEventRequest{
		RUT:       "11111111-1",
		Type:      "Vacaciones",
		StartDate: "2024-03-04",
		EndDate:   "2024-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, created.Days)
}

func TestEventService_RegisterUnknownPersonNeedsName(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	req := event.CreateEventRequest{
		RUT:       "12.345.678-5",
		Type:      "Permiso",
		StartDate: "04/03/2024",
		EndDate:   "04/03/2024",
	}
	_, err := f.svc.Register(ctx, req)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "nombre", verrs[0].Field)

	req.Name = strPtr("Rosa Díaz")
	req.Site = strPtr("vina del mar")
	created, err := f.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "12345678-5", created.RUT)
	assert.Equal(t, "Viña del Mar", *created.Site)
	assert.Equal(t, 1.0, created.Days)
}

func TestEventService_RegisterOnExampleIsNotPersisted(t *testing.T) {
	f := newFixture(t, false, config.DefaultSettings())

	_, err := f.svc.Register(context.Background(), event.CreateEventRequest{
		RUT:       "7654321-6",
		Type:      "Permiso",
		StartDate: "04/03/2024",
		EndDate:   "05/03/2024",
	})
	require.NoError(t, err)
	assert.Empty(t, f.master.saved)

	events, err := f.svc.Events(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestEventService_Update(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, event.UpdateEventRequest{
		ID:        "ev-1",
		StartDate: strPtr("04/03/2024"),
		EndDate:   strPtr("12/03/2024"),
		Status:    strPtr("aprobado"),
	})
	require.NoError(t, err)
	assert.Equal(t, 7.0, updated.Days, "vacaciones count business days")
	assert.Equal(t, event.StatusApproved, updated.Status)
	assert.Equal(t, "Legal", *updated.Subtype)
	require.Len(t, f.master.saved, 1)

	_, err = f.svc.Update(ctx, event.UpdateEventRequest{ID: "ev-1", EndDate: strPtr("01/03/2024")})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "fecha_termino", verrs[0].Field)

	_, err = f.svc.Update(ctx, event.UpdateEventRequest{ID: "missing"})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestEventService_Delete(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, "ev-2"))
	_, err := f.svc.Get(ctx, "ev-2")
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	require.Len(t, f.master.saved, 1)
	assert.Len(t, f.master.saved[0], 3)

	assert.ErrorIs(t, f.svc.Delete(ctx, "ev-2"), event.ErrEventNotFound)
}

func TestEventService_DeleteSaveFailureKeepsDataset(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	f.master.saveErr = errors.New("disk full")
	ctx := context.Background()

	assert.Error(t, f.svc.Delete(ctx, "ev-2"))
	_, err := f.svc.Get(ctx, "ev-2")
	assert.NoError(t, err)
}

func TestEventService_Preview(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	// Friday plus three business days ends on Tuesday.
	days := 3.0
	resp, err := f.svc.Preview(ctx, event.PreviewRequest{Type: "Permiso", StartDate: "08/03/2024", Days: &days})
	require.NoError(t, err)
	assert.Equal(t, daycount.Business, resp.Rule)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), resp.EndDate)
	assert.Equal(t, 3.0, resp.Days)

	resp, err = f.svc.Preview(ctx, event.PreviewRequest{Type: "Licencia Médica", StartDate: "01/03/2024", EndDate: "05/03/2024"})
	require.NoError(t, err)
	assert.Equal(t, daycount.Calendar, resp.Rule)
	assert.Equal(t, 5.0, resp.Days)

	_, err = f.svc.Preview(ctx, event.PreviewRequest{Type: "Permiso", StartDate: "08/03/2024"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestEventService_Staff(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	ctx := context.Background()

	staff, err := f.svc.Staff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 2, "derived from the dataset when the sheet lists nobody")
	assert.Equal(t, "Ana Pérez", staff[0].Name)
	assert.Equal(t, "Luis Soto", staff[1].Name)

	f.master.staff = []event.Person{{RUT: "1-9", Name: "Desde Hoja"}}
	staff, err = f.svc.Staff(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.master.staff, staff)
}

func TestEventService_Catalogs(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())
	f.master.catalogs = event.Catalogs{Types: []string{"Permiso", "Turno"}}

	catalogs, err := f.svc.Catalogs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Permiso", "Turno"}, catalogs.Types)
	assert.Equal(t, event.Statuses, catalogs.Statuses)
	assert.Equal(t, []string{"Quilpué", "Villa Alemana"}, catalogs.Sites)
	assert.Equal(t, []string{"Enfermera"}, catalogs.Positions)
	assert.Equal(t, map[string][]string{"Vacaciones": {"Legal"}}, catalogs.Subtypes)
}

func TestEventService_Columns(t *testing.T) {
	f := newFixture(t, true, config.DefaultSettings())

	cols, err := f.svc.Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, event.Columns, cols)
}
