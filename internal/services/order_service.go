package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"backoffice/internal/models"
	"backoffice/pkg/shopware"
	"backoffice/pkg/upstream"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderService handles order and order reference data lookups.
type OrderService struct {
	shop   Shopware
	logger *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(shop Shopware, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		shop:   shop,
		logger: logger,
	}
}

// OrderDetail is an order with its customer group and the fields shown in the
// order drawer.
type OrderDetail struct {
	Order           models.Order          `json:"order"`
	CustomerGroup   *models.CustomerGroup `json:"customerGroup"`
	OrderSeverity   models.Severity       `json:"orderSeverity"`
	PaymentSeverity models.Severity       `json:"paymentSeverity"`
	Sections        []Section             `json:"sections"`
}

// ListOrders retrieves the most recent orders as listed by the platform.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := s.shop.Decode(ctx, shopware.RecentOrders(), &orders); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.shop.Decode(ctx, shopware.OrderPath(id), &order); err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// LoadBoardOrders lists the recent orders, fetches every order's full record
// concurrently and fills in the customer group name of each order. Orders
// that disappeared between listing and fetching are dropped; any other
// failure fails the whole load.
func (s *OrderService) LoadBoardOrders(ctx context.Context, groups []models.CustomerGroup) ([]models.Order, error) {
	list, err := s.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	details := make([]*models.Order, len(list))
	g, gctx := errgroup.WithContext(ctx)
	for i, o := range list {
		g.Go(func() error {
			order, err := s.GetOrder(gctx, strconv.Itoa(o.ID))
			if errors.Is(err, upstream.ErrNotFound) {
				s.logger.Debug("order vanished before detail fetch", zap.Int("order_id", o.ID))
				return nil
			}
			if err != nil {
				return err
			}
			details[i] = order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(groups))
	for _, grp := range groups {
		names[grp.Key] = grp.Name
	}

	orders := make([]models.Order, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		d.Dispatch.CustomerGroupName = names[d.Customer.GroupKey]
		orders = append(orders, *d)
	}
	return orders, nil
}

// GetOrderDetail retrieves an order with the customer group referenced by its
// dispatch and the drawer field sections.
func (s *OrderService) GetOrderDetail(ctx context.Context, id string) (*OrderDetail, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	var group *models.CustomerGroup
	if order.Dispatch.CustomerGroupID != 0 {
		group, err = s.GetCustomerGroup(ctx, strconv.Itoa(order.Dispatch.CustomerGroupID))
		switch {
		case errors.Is(err, upstream.ErrNotFound):
			group = nil
		case err != nil:
			return nil, err
		default:
			order.Dispatch.CustomerGroupName = group.Name
		}
	}

	return &OrderDetail{
		Order:           *order,
		CustomerGroup:   group,
		OrderSeverity:   order.OrderSeverity(),
		PaymentSeverity: order.PaymentSeverity(),
		Sections:        OrderSections(*order),
	}, nil
}

// ListCustomerGroups retrieves all customer groups.
func (s *OrderService) ListCustomerGroups(ctx context.Context) ([]models.CustomerGroup, error) {
	groups := []models.CustomerGroup{}
	if err := s.shop.Decode(ctx, shopware.ResourceCustomerGroups, &groups); err != nil {
		return nil, fmt.Errorf("failed to list customer groups: %w", err)
	}
	return groups, nil
}

// GetCustomerGroup retrieves a single customer group by its ID.
func (s *OrderService) GetCustomerGroup(ctx context.Context, id string) (*models.CustomerGroup, error) {
	var group models.CustomerGroup
	if err := s.shop.Decode(ctx, shopware.CustomerGroupPath(id), &group); err != nil {
		return nil, fmt.Errorf("failed to get customer group %s: %w", id, err)
	}
	return &group, nil
}

// ListPayments retrieves all payment methods.
func (s *OrderService) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments := []models.Payment{}
	if err := s.shop.Decode(ctx, shopware.ResourcePayments, &payments); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return payments, nil
}

// ListDocumentTypes retrieves all document types.
func (s *OrderService) ListDocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	types := []models.DocumentType{}
	if err := s.shop.Decode(ctx, shopware.ResourceDocumentTypes, &types); err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}
	return types, nil
}
