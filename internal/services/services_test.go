package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/localstore"
	"designhub-backend/internal/models"
	"designhub-backend/internal/reconcile"
	"designhub-backend/internal/remote"
	"designhub-backend/internal/state"
)

type fakeRemote struct {
	inserted []models.Order
	updated  map[string]models.Status
	deleted  []string
	err      error
	onInsert func()
}

func (f *fakeRemote) ListOrders(context.Context) ([]models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Order(nil), f.inserted...), nil
}

func (f *fakeRemote) InsertOrder(_ context.Context, o models.Order) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, o)
	if f.onInsert != nil {
		f.onInsert()
	}
	return nil
}

func (f *fakeRemote) UpdateOrderStatus(_ context.Context, id string, st models.Status) error {
	if f.err != nil {
		return f.err
	}
	if f.updated == nil {
		f.updated = map[string]models.Status{}
	}
	f.updated[id] = st
	for i := range f.inserted {
		if f.inserted[i].ID == id {
			f.inserted[i].Status = st
		}
	}
	return nil
}

func (f *fakeRemote) DeleteOrder(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	for i := range f.inserted {
		if f.inserted[i].ID == id {
			f.inserted = append(f.inserted[:i], f.inserted[i+1:]...)
			break
		}
	}
	return nil
}

type fakeAttachments struct {
	uploaded []string
	removed  []string
	err      error
}

func (f *fakeAttachments) UploadAttachment(orderID, filename, _ string, _ []byte) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	f.uploaded = append(f.uploaded, filename)
	return "orders/" + orderID + "/" + filename, "https://cdn.example/" + filename, nil
}

func (f *fakeAttachments) DeleteOrderAttachments(orderID string) error {
	f.removed = append(f.removed, orderID)
	return f.err
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func validForm() models.OrderForm {
	return models.OrderForm{
		Name:        "Ana",
		Email:       "ana@example.com",
		WhatsApp:    "+100",
		Category:    models.CategoryPoster,
		Subcategory: "Event Poster",
		Details:     "Festival poster",
	}
}

type orderEvents struct {
	mu       sync.Mutex
	changed  int
	newOrder []string
}

func (e *orderEvents) NotifyOrdersChanged() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changed++
}

func (e *orderEvents) NotifyNewOrder(o models.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.newOrder = append(e.newOrder, o.ID)
}

type orderFixture struct {
	svc    *OrderService
	cache  *cache.Store
	state  *state.Holder
	engine *reconcile.Engine
	events *orderEvents
}

func newOrderFixture(t *testing.T, store remote.OrderStore, blobs localstore.Store, att AttachmentStore) *orderFixture {
	t.Helper()
	f := &orderFixture{
		cache:  cache.New(blobs),
		state:  state.NewHolder(),
		events: &orderEvents{},
	}
	adapter := remote.Unavailable()
	if store != nil {
		adapter = remote.NewAdapter(store, "test", remote.WithRetry(1, time.Millisecond))
	}
	f.engine = reconcile.NewEngine(adapter, f.cache, f.state, reconcile.WithNotifier(f.events))
	f.svc = NewOrderService(adapter, f.cache, f.state, f.engine, att)
	f.svc.now = fixedClock(1000)
	f.svc.newID = sequentialIDs("o")
	return f
}

func newOrderService(t *testing.T, store remote.OrderStore, att AttachmentStore) (*OrderService, *cache.Store, *state.Holder) {
	t.Helper()
	f := newOrderFixture(t, store, localstore.NewMemoryStore(), att)
	return f.svc, f.cache, f.state
}

func TestSubmit_BuildsPendingOrder(t *testing.T) {
	rem := &fakeRemote{}
	svc, c, h := newOrderService(t, rem, nil)

	order, warnings, err := svc.Submit(context.Background(), validForm(), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "Poster - Event Poster", order.ProjectType)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, int64(1000), order.CreatedAt)
	require.Len(t, rem.inserted, 1)
	assert.Equal(t, order.ID, rem.inserted[0].ID)

	assert.Equal(t, []models.Order{order}, h.Orders())
	cached, ok, err := c.Orders(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []models.Order{order}, cached)
}

func TestSubmit_PrependsNewest(t *testing.T) {
	svc, _, h := newOrderService(t, nil, nil)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)
	svc.now = fixedClock(2000)
	second, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)

	orders := h.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
}

func TestSubmit_RemoteFailureSavesLocally(t *testing.T) {
	svc, _, h := newOrderService(t, &fakeRemote{err: errors.New("timeout")}, nil)

	order, warnings, err := svc.Submit(context.Background(), validForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{WarningSyncFailed}, warnings)
	assert.Equal(t, order.ID, h.Orders()[0].ID)
}

func TestSubmit_ValidationError(t *testing.T) {
	svc, _, h := newOrderService(t, nil, nil)
	form := validForm()
	form.Subcategory = "Company Card"

	_, _, err := svc.Submit(context.Background(), form, nil)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "subcategory", verr.Field)
	assert.Empty(t, h.Orders())
}

func TestSubmit_AttachmentUploaded(t *testing.T) {
	att := &fakeAttachments{}
	svc, _, _ := newOrderService(t, &fakeRemote{}, att)

	order, warnings, err := svc.Submit(context.Background(), validForm(), &Attachment{Filename: "brief.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "https://cdn.example/brief.pdf", order.FileURL)
}

func TestSubmit_AttachmentWithoutStorage(t *testing.T) {
	svc, _, _ := newOrderService(t, nil, nil)

	order, _, err := svc.Submit(context.Background(), validForm(), &Attachment{Filename: "brief.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "local://brief.pdf", order.FileURL)
}

func TestSubmit_AttachmentUploadFailure(t *testing.T) {
	svc, _, _ := newOrderService(t, &fakeRemote{}, &fakeAttachments{err: errors.New("bucket missing")})

	order, warnings, err := svc.Submit(context.Background(), validForm(), &Attachment{Filename: "brief.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "local://brief.pdf", order.FileURL)
	assert.Equal(t, []string{WarningUploadFailed}, warnings)
}

func TestSubmit_QuotaExceededWithoutRemote(t *testing.T) {
	f := newOrderFixture(t, nil, localstore.WithQuota(localstore.NewMemoryStore(), 10), nil)

	_, _, err := f.svc.Submit(context.Background(), validForm(), nil)
	assert.ErrorIs(t, err, cache.ErrSaveFailed)
	assert.ErrorIs(t, err, localstore.ErrQuotaExceeded)
	assert.Empty(t, f.state.Orders())
	assert.Zero(t, f.events.changed)
}

func TestSubmit_QuotaExceededAfterRemoteInsert(t *testing.T) {
	f := newOrderFixture(t, &fakeRemote{}, localstore.WithQuota(localstore.NewMemoryStore(), 10), nil)

	_, warnings, err := f.svc.Submit(context.Background(), validForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{WarningLocalSaveFailed}, warnings)
	assert.Len(t, f.state.Orders(), 1)
}

func TestUpdateStatus_AnyTransition(t *testing.T) {
	rem := &fakeRemote{}
	svc, _, h := newOrderService(t, rem, nil)
	ctx := context.Background()
	order, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)

	for _, st := range []models.Status{models.StatusCompleted, models.StatusPending, models.StatusInProgress} {
		updated, warnings, err := svc.UpdateStatus(ctx, order.ID, st)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		assert.Equal(t, st, updated.Status)
		assert.Equal(t, st, h.Orders()[0].Status)
		assert.Equal(t, st, rem.updated[order.ID])
	}
}

func TestUpdateStatus_SurvivesReload(t *testing.T) {
	tests := []struct {
		name   string
		remote remote.OrderStore
		source string
	}{
		{"local only", nil, reconcile.SourceCache},
		{"remote", &fakeRemote{}, reconcile.SourceRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t, tt.remote, localstore.NewMemoryStore(), nil)
			ctx := context.Background()
			order, _, err := f.svc.Submit(ctx, validForm(), nil)
			require.NoError(t, err)

			for _, st := range models.Statuses {
				_, _, err := f.svc.UpdateStatus(ctx, order.ID, st)
				require.NoError(t, err)

				res, err := f.engine.Reconcile(ctx, reconcile.TriggerManual)
				require.NoError(t, err)
				assert.Equal(t, tt.source, res.Source)
				require.Len(t, res.Orders, 1)
				assert.Equal(t, st, res.Orders[0].Status)
				assert.Equal(t, st, f.state.Orders()[0].Status)
			}
		})
	}
}

func TestSubmit_SyncDoesNotRepeatNewOrder(t *testing.T) {
	f := newOrderFixture(t, nil, localstore.NewMemoryStore(), nil)
	ctx := context.Background()
	_, err := f.engine.Reconcile(ctx, reconcile.TriggerInitial)
	require.NoError(t, err)

	_, _, err = f.svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)
	res, err := f.engine.Reconcile(ctx, reconcile.TriggerManual)
	require.NoError(t, err)
	assert.Nil(t, res.NewOrder)

	f.svc.now = fixedClock(2000)
	second, _, err := f.svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)
	res, err = f.engine.Reconcile(ctx, reconcile.TriggerManual)
	require.NoError(t, err)
	assert.Nil(t, res.NewOrder)
	assert.Len(t, res.Orders, 2)

	// Only the submit that grew a non-empty collection is reported.
	assert.Equal(t, []string{second.ID}, f.events.newOrder)
}

func TestSubmit_ChangeFeedRunBeforePublish(t *testing.T) {
	rem := &fakeRemote{}
	f := newOrderFixture(t, rem, localstore.NewMemoryStore(), nil)
	ctx := context.Background()
	rem.onInsert = func() {
		_, err := f.engine.Reconcile(ctx, reconcile.TriggerChangeFeed)
		require.NoError(t, err)
	}

	order, _, err := f.svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{order.ID}, orderIDs(f.state.Orders()))
}

// gatedStore blocks the first Get until release is closed.
type gatedStore struct {
	localstore.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.Store.Get(ctx, key)
}

func TestSubmit_OverlappingLocalRunKeepsOrder(t *testing.T) {
	gate := &gatedStore{
		Store:   localstore.NewMemoryStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f := newOrderFixture(t, nil, gate, nil)
	ctx := context.Background()

	runDone := make(chan error, 1)
	go func() {
		_, err := f.engine.Reconcile(ctx, reconcile.TriggerManual)
		runDone <- err
	}()
	<-gate.entered

	submitDone := make(chan error, 1)
	var submitted models.Order
	go func() {
		var err error
		submitted, _, err = f.svc.Submit(ctx, validForm(), nil)
		submitDone <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(gate.release)
	require.NoError(t, <-runDone)
	require.NoError(t, <-submitDone)

	cached, ok, err := f.cache.Orders(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{submitted.ID}, orderIDs(cached))
	assert.Equal(t, []string{submitted.ID}, orderIDs(f.state.Orders()))

	res, err := f.engine.Reconcile(ctx, reconcile.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, []string{submitted.ID}, orderIDs(res.Orders))
}

func orderIDs(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, _, _ := newOrderService(t, nil, nil)
	ctx := context.Background()
	order, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)

	_, _, err = svc.UpdateStatus(ctx, "missing", models.StatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, _, err = svc.UpdateStatus(ctx, order.ID, "Archived")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateStatus_RemoteFailureIsWarning(t *testing.T) {
	rem := &fakeRemote{}
	svc, _, h := newOrderService(t, rem, nil)
	ctx := context.Background()
	order, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)

	rem.err = errors.New("offline")
	_, warnings, err := svc.UpdateStatus(ctx, order.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{WarningSyncFailed}, warnings)
	assert.Equal(t, models.StatusCompleted, h.Orders()[0].Status)
}

func TestDelete(t *testing.T) {
	rem := &fakeRemote{}
	att := &fakeAttachments{}
	svc, c, h := newOrderService(t, rem, att)
	ctx := context.Background()
	withFile, _, err := svc.Submit(ctx, validForm(), &Attachment{Filename: "brief.pdf"})
	require.NoError(t, err)
	plain, _, err := svc.Submit(ctx, validForm(), nil)
	require.NoError(t, err)

	warnings, err := svc.Delete(ctx, withFile.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{withFile.ID}, rem.deleted)
	assert.Equal(t, []string{withFile.ID}, att.removed)

	orders := h.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, plain.ID, orders[0].ID)
	cached, _, err := c.Orders(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	_, err = svc.Delete(ctx, withFile.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestStats(t *testing.T) {
	svc, _, h := newOrderService(t, nil, nil)
	h.SetProjects([]models.Project{{ID: "p1"}, {ID: "p2"}})

	var orders []models.Order
	for i := 0; i < 7; i++ {
		st := models.StatusPending
		switch {
		case i < 2:
			st = models.StatusCompleted
		case i < 3:
			st = models.StatusInProgress
		}
		orders = append(orders, models.Order{ID: fmt.Sprintf("o%d", i), Status: st})
	}
	h.SetOrders(orders)

	stats := svc.Stats()
	assert.Equal(t, 2, stats.TotalProjects)
	assert.Equal(t, 7, stats.TotalOrders)
	assert.Equal(t, 4, stats.PendingOrders)
	assert.Equal(t, 1, stats.InProgressOrders)
	assert.Equal(t, 2, stats.CompletedOrders)
	require.Len(t, stats.RecentOrders, 5)
	assert.Equal(t, "o0", stats.RecentOrders[0].ID)
}

func newPortfolio(t *testing.T, blobs localstore.Store) (*PortfolioService, *cache.Store, *state.Holder) {
	t.Helper()
	c := cache.New(blobs)
	h := state.NewHolder()
	svc := NewPortfolioService(c, h)
	svc.now = fixedClock(5000)
	svc.newID = sequentialIDs("p")
	return svc, c, h
}

func TestPortfolio_LoadSeedsOnFirstRun(t *testing.T) {
	svc, c, h := newPortfolio(t, localstore.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Load(ctx))

	projects := h.Projects()
	require.Len(t, projects, 3)
	assert.Equal(t, "Elite Music Festival", projects[0].Name)
	assert.Equal(t, models.CategoryPoster, projects[0].Category)

	cached, ok, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, cached, 3)
}

func TestPortfolio_LoadKeepsEmptyCachedList(t *testing.T) {
	svc, c, h := newPortfolio(t, localstore.NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, c.SetProjects(ctx, []models.Project{}))

	require.NoError(t, svc.Load(ctx))
	assert.Empty(t, h.Projects())
}

func TestSeedProjects_AreValid(t *testing.T) {
	projects, err := SeedProjects()
	require.NoError(t, err)
	for _, p := range projects {
		assert.NoError(t, models.ValidateClassification(p.Category, p.Subcategory), p.Name)
	}
}

func projectForm() models.ProjectForm {
	return models.ProjectForm{
		Name:        "Launch Banner",
		Category:    models.CategoryBanner,
		Subcategory: "Event Banner",
		Description: "Banner for a launch event",
	}
}

func TestPortfolio_CreateUpdateDelete(t *testing.T) {
	svc, c, h := newPortfolio(t, localstore.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, projectForm())
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, models.DefaultImageURL("p1"), created.ImageURL)
	assert.Equal(t, int64(5000), created.CreatedAt)

	svc.now = fixedClock(9000)
	form := projectForm()
	form.Name = "Renamed"
	form.ImageURL = "https://img.example/a.png"
	updated, err := svc.Update(ctx, created.ID, form)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, int64(5000), updated.CreatedAt)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, h.Projects())
	cached, _, err := c.Projects(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached)

	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrProjectNotFound)
	_, err = svc.Update(ctx, created.ID, form)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	_, err = svc.Get(created.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestPortfolio_SaveFailureKeepsSnapshot(t *testing.T) {
	svc, _, h := newPortfolio(t, localstore.WithQuota(localstore.NewMemoryStore(), 64))
	h.SetProjects([]models.Project{{ID: "existing"}})

	_, err := svc.Create(context.Background(), projectForm())
	assert.ErrorIs(t, err, cache.ErrSaveFailed)

	projects := h.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "existing", projects[0].ID)
}

func TestPortfolio_List(t *testing.T) {
	svc, _, _ := newPortfolio(t, localstore.NewMemoryStore())
	require.NoError(t, svc.Load(context.Background()))

	assert.Len(t, svc.List(models.ProjectFilter{}), 3)
	assert.Len(t, svc.List(models.ProjectFilter{Category: models.CategoryBanner}), 1)
	assert.Len(t, svc.List(models.ProjectFilter{Query: "LUXURY"}), 1)
	assert.Empty(t, svc.List(models.ProjectFilter{Category: models.CategoryThumbnail}))
}

func TestExportOrders(t *testing.T) {
	orders := []models.Order{
		{ID: "o2", ClientName: "Ana", ProjectType: "Poster - Event Poster", Status: models.StatusCompleted, CreatedAt: 2000},
		{ID: "o1", ClientName: "Bo", Status: models.StatusPending, CreatedAt: 1000},
	}
	var buf bytes.Buffer
	require.NoError(t, ExportOrders(&buf, orders))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ordersSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "o2", rows[1][0])
	assert.Equal(t, "Ana", rows[1][1])
	assert.Equal(t, "Completed", rows[1][8])
	assert.Equal(t, []string{ordersSheet}, f.GetSheetList())
}
