package services

import (
	"context"
	"fmt"
	"sync"

	"backoffice/internal/async"
	"backoffice/internal/filters"
	"backoffice/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultRowsPerPage is the page size of a newly opened board.
const DefaultRowsPerPage = 100

// BoardSource loads the data shown on an order board.
type BoardSource interface {
	ListPayments(ctx context.Context) ([]models.Payment, error)
	ListCustomerGroups(ctx context.Context) ([]models.CustomerGroup, error)
	LoadBoardOrders(ctx context.Context, groups []models.CustomerGroup) ([]models.Order, error)
}

// SessionObserver is told when board sessions open and close.
type SessionObserver interface {
	SessionOpened()
	SessionClosed()
}

// BoardService keeps the open order boards. Each board is a filtered,
// sorted and paginated view over one load of the recent orders.
type BoardService struct {
	ctx      context.Context
	source   BoardSource
	logger   *zap.Logger
	observer SessionObserver

	mu       sync.RWMutex
	sessions map[string]*BoardSession
}

// NewBoardService creates a new BoardService. Order loads run on ctx, not on
// the request that triggered them.
func NewBoardService(ctx context.Context, source BoardSource, logger *zap.Logger, observer SessionObserver) *BoardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		ctx:      ctx,
		source:   source,
		logger:   logger,
		observer: observer,
		sessions: make(map[string]*BoardSession),
	}
}

// BoardSession is one open order board.
type BoardSession struct {
	id     string
	source BoardSource
	ctx    context.Context
	loader *async.Loader[[]models.Order]

	mu          sync.Mutex
	model       *filters.Model
	filters     filters.Filters
	orders      []models.Order
	page        int
	rowsPerPage int
}

// BoardRow is an order with its status classification.
type BoardRow struct {
	models.Order
	OrderSeverity   models.Severity `json:"orderSeverity"`
	PaymentSeverity models.Severity `json:"paymentSeverity"`
}

// BoardView is the rendered state of a board.
type BoardView struct {
	ID               string                             `json:"id"`
	Status           async.Status                       `json:"status"`
	Rows             []BoardRow                         `json:"rows"`
	Count            int                                `json:"count"`
	Page             int                                `json:"page"`
	RowsPerPage      int                                `json:"rowsPerPage"`
	Filters          filters.Filters                    `json:"filters"`
	Criteria         []filters.Criterion                `json:"criteria"`
	Chips            []string                           `json:"chips"`
	Standard         []string                           `json:"standard"`
	NegativeStandard []string                           `json:"negativeStandard"`
	Options          map[filters.Field][]filters.Option `json:"options"`
	Presets          []filters.Preset                   `json:"presets"`
	NegativePresets  []filters.NegativePreset           `json:"negativePresets"`
	SortOptions      []filters.Option                   `json:"sortOptions"`
}

// Open mounts a new board and starts loading its orders. Payment methods and
// customer groups feed the filter options; when they cannot be fetched the
// board opens with empty options.
func (s *BoardService) Open(ctx context.Context) (*BoardView, error) {
	var (
		payments []models.Payment
		groups   []models.CustomerGroup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		payments, err = s.source.ListPayments(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = s.source.ListCustomerGroups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("board filter options unavailable", zap.Error(err))
	}

	sess := &BoardSession{
		id:          uuid.New().String(),
		source:      s.source,
		ctx:         s.ctx,
		loader:      async.NewLoader[[]models.Order](s.logger),
		orders:      []models.Order{},
		rowsPerPage: DefaultRowsPerPage,
	}
	sess.model = filters.NewModel(
		filters.PaymentOptions(payments),
		filters.CustomerOptions(groups),
		sess.filtersChanged,
	)
	sess.filters = sess.model.Summary()
	sess.loader.OnApply(sess.loaded)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	if s.observer != nil {
		s.observer.SessionOpened()
	}
	s.logger.Info("board opened", zap.String("board_id", sess.id))

	sess.Reload()
	return sess.View(), nil
}

// Get returns an open board.
func (s *BoardService) Get(id string) (*BoardSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, ErrSessionNotFound)
	}
	return sess, nil
}

// Close unmounts a board. Loads still in flight finish but are discarded.
func (s *BoardService) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("board %s: %w", id, ErrSessionNotFound)
	}

	sess.loader.Unmount()
	if s.observer != nil {
		s.observer.SessionClosed()
	}
	s.logger.Info("board closed", zap.String("board_id", id))
	return nil
}

// CloseAll unmounts every open board.
func (s *BoardService) CloseAll() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.Close(id)
	}
}

// ID returns the board id.
func (b *BoardSession) ID() string { return b.id }

// filtersChanged is the model's change listener. It runs with b.mu held.
func (b *BoardSession) filtersChanged(f filters.Filters) {
	b.filters = f
	b.page = 0
}

// loaded is the loader hook. It runs with the loader's lock held, so it must
// not call back into the loader.
func (b *BoardSession) loaded(st async.State[[]models.Order]) {
	if st.Status != async.Success {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = st.Value
	if b.orders == nil {
		b.orders = []models.Order{}
	}
	b.page = 0
}

// Reload starts a new load of the board's orders.
func (b *BoardSession) Reload() {
	b.loader.Run(b.ctx, func(ctx context.Context) ([]models.Order, error) {
		groups, err := b.source.ListCustomerGroups(ctx)
		if err != nil {
			return nil, err
		}
		return b.source.LoadBoardOrders(ctx, groups)
	})
}

// Wait blocks until every started load has finished.
func (b *BoardSession) Wait() {
	b.loader.Wait()
}

// SetCategory replaces the criteria of one field.
func (b *BoardSession) SetCategory(field filters.Field, values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.SetCategory(field, values)
}

// RemoveCriterion removes one criterion chip.
func (b *BoardSession) RemoveCriterion(c filters.Criterion) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.RemoveCriterion(c)
}

// ApplyPreset applies the selected standard presets.
func (b *BoardSession) ApplyPreset(values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.ApplyPreset(values)
}

// ApplyNegativePreset applies the selected negative presets.
func (b *BoardSession) ApplyNegativePreset(values []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.ApplyNegativePreset(values)
}

// SetQuery applies the free-text search.
func (b *BoardSession) SetQuery(q string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model.SetQuery(q)
}

// SetSort changes the sort direction.
func (b *BoardSession) SetSort(dir filters.Direction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.SetSort(dir)
}

// ToggleStatus checks or unchecks one status value.
func (b *BoardSession) ToggleStatus(field filters.Field, value string, checked bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.model.ToggleStatus(field, value, checked)
}

// SetPage moves to page. Changing rowsPerPage returns to the first page.
func (b *BoardSession) SetPage(page, rowsPerPage int) error {
	if page < 0 || rowsPerPage <= 0 {
		return &ValidationError{Fields: map[string]string{"page": "must be >= 0 with rowsPerPage > 0"}}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if rowsPerPage != b.rowsPerPage {
		b.rowsPerPage = rowsPerPage
		page = 0
	}
	b.page = page
	return nil
}

// View renders the board.
func (b *BoardSession) View() *BoardView {
	status := b.loader.Snapshot().Status

	b.mu.Lock()
	defer b.mu.Unlock()

	page := filters.Apply(b.orders, b.filters, b.page, b.rowsPerPage)
	rows := make([]BoardRow, len(page.Orders))
	for i, o := range page.Orders {
		rows[i] = BoardRow{Order: o, OrderSeverity: o.OrderSeverity(), PaymentSeverity: o.PaymentSeverity()}
	}

	options := make(map[filters.Field][]filters.Option)
	for _, f := range []filters.Field{filters.FieldCountry, filters.FieldPayment, filters.FieldCustomer, filters.FieldOrderStatus, filters.FieldPaymentStatus} {
		opts := b.model.Options(f)
		if opts == nil {
			opts = []filters.Option{}
		}
		options[f] = opts
	}

	criteria := b.model.Criteria()
	chips := make([]string, len(criteria))
	for i, c := range criteria {
		chips[i] = c.Label + ": " + c.Display()
	}

	return &BoardView{
		ID:               b.id,
		Status:           status,
		Rows:             rows,
		Count:            page.Count,
		Page:             b.page,
		RowsPerPage:      b.rowsPerPage,
		Filters:          b.filters,
		Criteria:         criteria,
		Chips:            chips,
		Standard:         nonNil(b.model.Standard()),
		NegativeStandard: nonNil(b.model.NegativeStandard()),
		Options:          options,
		Presets:          filters.StandardPresets,
		NegativePresets:  filters.NegativePresets,
		SortOptions:      filters.SortOptions,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
