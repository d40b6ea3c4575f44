package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"backoffice/internal/models"
	"backoffice/internal/repositories"
	"backoffice/pkg/shopware"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pdfMarker is where the PDF begins inside a document response.
const pdfMarker = "%PDF-1.4"

// placeholderPDF is a one page "Hello, world!" PDF printed for documents
// that carry no PDF content.
const placeholderPDF = "JVBERi0xLjcKCjEgMCBvYmogICUgZW50cnkgcG9pbnQKPDwKICAvVHlwZSAvQ2F0YWxvZwogIC9QYWdlcyAyIDAgUgo+PgplbmRvYmoKCjIgMCBvYmoKPDwKICAvVHlwZSAvUGFnZXMKICAvTWVkaWFCb3ggWyAwIDAgMjAwIDIwMCBdCiAgL0NvdW50IDEKICAvS2lkcyBbIDMgMCBSIF0KPj4KZW5kb2JqCgozIDAgb2JqCjw8CiAgL1R5cGUgL1BhZ2UKICAvUGFyZW50IDIgMCBSCiAgL1Jlc291cmNlcyA8PAogICAgL0ZvbnQgPDwKICAgICAgL0YxIDQgMCBSIAogICAgPj4KICA+PgogIC9Db250ZW50cyA1IDAgUgo+PgplbmRvYmoKCjQgMCBvYmoKPDwKICAvVHlwZSAvRm9udAogIC9TdWJ0eXBlIC9UeXBlMQogIC9CYXNlRm9udCAvVGltZXMtUm9tYW4KPj4KZW5kb2JqCgo1IDAgb2JqICAlIHBhZ2UgY29udGVudAo8PAogIC9MZW5ndGggNDQKPj4Kc3RyZWFtCkJUCjcwIDUwIFRECi9GMSAxMiBUZgooSGVsbG8sIHdvcmxkISkgVGoKRVQKZW5kc3RyZWFtCmVuZG9iagoKeHJlZgowIDYKMDAwMDAwMDAwMCA2NTUzNSBmIAowMDAwMDAwMDEwIDAwMDAwIG4gCjAwMDAwMDAwNzkgMDAwMDAgbiAKMDAwMDAwMDE3MyAwMDAwMCBuIAowMDAwMDAwMzAxIDAwMDAwIG4gCjAwMDAwMDAzODAgMDAwMDAgbiAKdHJhaWxlcgo8PAogIC9TaXplIDYKICAvUm9vdCAxIDAgUgo+PgpzdGFydHhyZWYKNDkyCiUlRU9G"

var printPage = template.Must(template.New("print").Parse(`<html><head><title>Print PDF Invoice</title></head><body>
{{- range .}}<iframe title="Invoice File {{.Number}}" width="100%" height="100%" src="{{.Source}}"></iframe>{{end -}}
</body></html>`))

// DocumentOrders lists the orders whose documents are fetched.
type DocumentOrders interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListCustomerGroups(ctx context.Context) ([]models.CustomerGroup, error)
	ListDocumentTypes(ctx context.Context) ([]models.DocumentType, error)
}

// DocumentService manages document-type settings and builds print pages.
type DocumentService struct {
	shop     Shopware
	orders   DocumentOrders
	settings repositories.SettingsRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(shop Shopware, orders DocumentOrders, settings repositories.SettingsRepository, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		shop:     shop,
		orders:   orders,
		settings: settings,
		validate: NewValidator(),
		logger:   logger,
	}
}

// Settings returns the saved document-type settings.
func (s *DocumentService) Settings() ([]models.DocumentTypeSetting, error) {
	return s.settings.GetAll()
}

// SaveSettings validates and replaces the document-type settings.
func (s *DocumentService) SaveSettings(settings []models.DocumentTypeSetting) error {
	seen := make(map[string]bool, len(settings))
	for i := range settings {
		if err := s.validate.Struct(settings[i]); err != nil {
			return validationError(err)
		}
		if seen[settings[i].Customer] {
			return &ValidationError{Fields: map[string]string{
				"customer": fmt.Sprintf("%s is configured more than once", settings[i].Customer),
			}}
		}
		seen[settings[i].Customer] = true
	}
	if err := s.settings.ReplaceAll(settings); err != nil {
		return err
	}
	s.logger.Info("document settings saved", zap.Int("count", len(settings)))
	return nil
}

// DefaultSettings proposes a setting for every customer group using the first
// document type.
func (s *DocumentService) DefaultSettings(ctx context.Context) ([]models.DocumentTypeSetting, error) {
	var (
		groups []models.CustomerGroup
		types  []models.DocumentType
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.orders.ListCustomerGroups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = s.orders.ListDocumentTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.DocumentTypeSetting, 0, len(groups))
	if len(types) == 0 {
		return out, nil
	}
	first := models.DocumentChoice{ID: types[0].ID, Label: types[0].Name, Key: types[0].Key}
	for _, grp := range groups {
		out = append(out, models.DocumentTypeSetting{Customer: grp.Name, Document: first})
	}
	return out, nil
}

// FetchDocument retrieves the raw document of one order.
func (s *DocumentService) FetchDocument(ctx context.Context, typeID, orderID string) ([]byte, error) {
	body, err := s.shop.Get(ctx, shopware.DocumentPath(typeID, orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s of order %s: %w", typeID, orderID, err)
	}
	return body, nil
}

// ExtractPDF returns the part of a document response starting at the PDF
// header, or nil when there is none.
func ExtractPDF(body []byte) []byte {
	i := bytes.Index(body, []byte(pdfMarker))
	if i < 0 {
		return nil
	}
	return body[i:]
}

type printFrame struct {
	Number string
	Source template.URL
}

// Print fetches the configured document of every order and renders an HTML
// page with one embedded PDF per order, in the given order.
func (s *DocumentService) Print(ctx context.Context, orderIDs []string) ([]byte, error) {
	if len(orderIDs) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"orderIds": "must contain at least 1 entries"}}
	}

	settings, err := s.settings.GetAll()
	if err != nil {
		return nil, err
	}
	if len(settings) == 0 {
		return nil, ErrDocumentSettingsMissing
	}

	groups, err := s.orders.ListCustomerGroups(ctx)
	if err != nil {
		return nil, err
	}
	groupNames := make(map[string]string, len(groups))
	for _, grp := range groups {
		groupNames[grp.Key] = grp.Name
	}

	frames := make([]printFrame, len(orderIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range orderIDs {
		g.Go(func() error {
			order, err := s.orders.GetOrder(gctx, id)
			if err != nil {
				return err
			}
			groupName := groupNames[order.Customer.GroupKey]
			setting, err := s.settings.GetByCustomer(groupName)
			if errors.Is(err, repositories.ErrSettingNotFound) {
				return fmt.Errorf("customer group %q of order %s: %w", groupName, id, ErrDocumentSettingsMissing)
			}
			if err != nil {
				return err
			}
			body, err := s.FetchDocument(gctx, strconv.Itoa(setting.Document.ID), id)
			if err != nil {
				return err
			}
			frames[i] = printFrame{Number: order.Number, Source: pdfSource(ExtractPDF(body))}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrDocumentSettingsMissing) {
			s.logger.Warn("print aborted", zap.Error(err))
		}
		return nil, err
	}

	var buf bytes.Buffer
	if err := printPage.Execute(&buf, frames); err != nil {
		return nil, fmt.Errorf("failed to render print page: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfSource(pdf []byte) template.URL {
	data := placeholderPDF
	if len(pdf) > 0 {
		data = base64.StdEncoding.EncodeToString(pdf)
	}
	return template.URL("data:application/pdf;base64," + data)
}
