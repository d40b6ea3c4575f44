package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"backoffice/internal/async"
	"backoffice/internal/filters"
	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBoardSource serves fixed data. When gate is set, LoadBoardOrders blocks
// until it is closed.
type fakeBoardSource struct {
	mu      sync.Mutex
	orders  []models.Order
	loadErr error
	gate    chan struct{}
	loads   int
}

func (f *fakeBoardSource) ListPayments(context.Context) ([]models.Payment, error) {
	return []models.Payment{{ID: 1, Description: "Zalando"}, {ID: 2, Description: "PayPal"}}, nil
}

func (f *fakeBoardSource) ListCustomerGroups(context.Context) ([]models.CustomerGroup, error) {
	return testGroups, nil
}

func (f *fakeBoardSource) LoadBoardOrders(ctx context.Context, groups []models.CustomerGroup) ([]models.Order, error) {
	f.mu.Lock()
	f.loads++
	gate, orders, err := f.gate, f.orders, f.loadErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return orders, err
}

func boardOrder(id int, country, changed string) models.Order {
	return models.Order{
		ID:            id,
		Shipping:      models.Address{Country: models.Country{IsoName: country}},
		OrderStatus:   models.StatusRef{Position: 0},
		PaymentStatus: models.StatusRef{Position: 1},
		Changed:       changed,
	}
}

func boardOrders() []models.Order {
	return []models.Order{
		boardOrder(1, "Germany", "2024-01-01"),
		boardOrder(2, "France", "2024-01-03"),
		boardOrder(3, "Germany", "2024-01-02"),
		{ID: 4, OrderStatus: models.StatusRef{Position: 3}, PaymentStatus: models.StatusRef{Position: 1}, Changed: "2024-01-04"},
	}
}

func rowIDs(v *services.BoardView) []int {
	out := make([]int, len(v.Rows))
	for i, r := range v.Rows {
		out[i] = r.ID
	}
	return out
}

func openBoard(t *testing.T, src *fakeBoardSource) (*services.BoardService, *services.BoardSession, *countingObserver) {
	t.Helper()
	obs := &countingObserver{}
	svc := services.NewBoardService(context.Background(), src, nil, obs)
	view, err := svc.Open(context.Background())
	require.NoError(t, err)
	sess, err := svc.Get(view.ID)
	require.NoError(t, err)
	return svc, sess, obs
}

func TestBoard_OpenLoadsWithDefaultFilters(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	_, sess, obs := openBoard(t, src)
	sess.Wait()

	view := sess.View()

	assert.Equal(t, async.Success, view.Status)
	assert.Equal(t, []int{2, 3, 1}, rowIDs(view))
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, []string{"open"}, view.Filters.OrderStatus)
	assert.Equal(t, filters.Desc, view.Filters.Sort)
	assert.Equal(t, services.DefaultRowsPerPage, view.RowsPerPage)
	assert.Equal(t, []filters.Option{{Label: "Zalando", Value: "zalando"}, {Label: "PayPal", Value: "paypal"}}, view.Options[filters.FieldPayment])
	assert.Equal(t, 1, obs.open)
	assert.Equal(t, []string{
		"OrderStatus: OPEN",
		"PaymentStatus: COMPLETELY PAID",
		"PaymentStatus: PARTLY INVOICED",
		"PaymentStatus: COMPLETELY INVOICED",
	}, view.Chips)
}

func TestBoard_ViewWhileLoading(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders(), gate: make(chan struct{})}
	_, sess, _ := openBoard(t, src)

	view := sess.View()
	assert.Equal(t, async.Loading, view.Status)
	assert.Empty(t, view.Rows)
	assert.NotNil(t, view.Rows)

	close(src.gate)
	sess.Wait()
	assert.Equal(t, async.Success, sess.View().Status)
}

func TestBoard_FilterSortAndPage(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	_, sess, _ := openBoard(t, src)
	sess.Wait()

	require.NoError(t, sess.SetPage(0, 1))
	require.NoError(t, sess.SetPage(1, 1))
	view := sess.View()
	assert.Equal(t, []int{3}, rowIDs(view))
	assert.Equal(t, 1, view.Page)

	require.NoError(t, sess.SetCategory(filters.FieldCountry, []string{"germany"}))
	view = sess.View()
	assert.Equal(t, 0, view.Page)
	assert.Equal(t, []int{3}, rowIDs(view))
	assert.Equal(t, 2, view.Count)

	require.NoError(t, sess.SetSort(filters.Asc))
	require.NoError(t, sess.SetPage(0, 10))
	assert.Equal(t, []int{1, 3}, rowIDs(sess.View()))

	assert.True(t, sess.RemoveCriterion(filters.Criterion{Field: filters.FieldCountry, Value: "germany"}))
	assert.Equal(t, 3, sess.View().Count)

	require.NoError(t, sess.ToggleStatus(filters.FieldOrderStatus, "open", false))
	view = sess.View()
	assert.Equal(t, 0, view.Count)
	assert.Equal(t, []string{}, view.Filters.OrderStatus)

	require.NoError(t, sess.ToggleStatus(filters.FieldOrderStatus, filters.AllValue, true))
	assert.Equal(t, 4, sess.View().Count)
}

func TestBoard_RowsPerPageChangeResetsPage(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	_, sess, _ := openBoard(t, src)
	sess.Wait()

	require.NoError(t, sess.SetPage(0, 1))
	require.NoError(t, sess.SetPage(2, 1))
	assert.Equal(t, 2, sess.View().Page)

	require.NoError(t, sess.SetPage(2, 2))
	assert.Equal(t, 0, sess.View().Page)

	var verr *services.ValidationError
	assert.True(t, errors.As(sess.SetPage(-1, 2), &verr))
}

func TestBoard_PresetsAndQuery(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	_, sess, _ := openBoard(t, src)
	sess.Wait()

	require.NoError(t, sess.ApplyPreset([]string{"zalandoDe"}))
	view := sess.View()
	assert.Equal(t, []string{"zalandoDe"}, view.Standard)
	assert.Equal(t, []string{"germany"}, view.Filters.Country)
	assert.Equal(t, []string{"open"}, view.Filters.OrderStatus)

	assert.ErrorIs(t, sess.ApplyPreset([]string{"nope"}), filters.ErrUnknownPreset)

	sess.SetQuery("fra")
	view = sess.View()
	assert.Equal(t, "fra", view.Filters.Query)
	assert.Equal(t, []string{"fra"}, view.Filters.Country)
	assert.Contains(t, view.Chips, "Country: fra")

	require.NoError(t, sess.ApplyNegativePreset([]string{"zalandoNotDe"}))
	view = sess.View()
	assert.Equal(t, []string{"france", "austria"}, view.Filters.Country)
	assert.Equal(t, []string{"zalandoNotDe"}, view.NegativeStandard)
}

func TestBoard_ReloadReplacesOrders(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	_, sess, _ := openBoard(t, src)
	sess.Wait()

	src.mu.Lock()
	src.orders = boardOrders()[:1]
	src.mu.Unlock()
	sess.Reload()
	sess.Wait()

	assert.Equal(t, []int{1}, rowIDs(sess.View()))
	assert.Equal(t, 2, src.loads)
}

func TestBoard_FailedLoad(t *testing.T) {
	src := &fakeBoardSource{loadErr: errors.New("upstream down")}
	_, sess, _ := openBoard(t, src)
	sess.Wait()

	view := sess.View()
	assert.Equal(t, async.Failed, view.Status)
	assert.Empty(t, view.Rows)
}

func TestBoard_CloseDropsLateResult(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders(), gate: make(chan struct{})}
	svc, sess, obs := openBoard(t, src)

	require.NoError(t, svc.Close(sess.ID()))
	close(src.gate)
	sess.Wait()

	assert.Equal(t, async.Loading, sess.View().Status)
	assert.Equal(t, 0, obs.open)

	_, err := svc.Get(sess.ID())
	assert.ErrorIs(t, err, services.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Close(sess.ID()), services.ErrSessionNotFound)
}

func TestBoard_CloseAll(t *testing.T) {
	src := &fakeBoardSource{orders: boardOrders()}
	svc, sess, obs := openBoard(t, src)
	_, err := svc.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, obs.open)

	svc.CloseAll()
	sess.Wait()

	assert.Equal(t, 0, obs.open)
}
