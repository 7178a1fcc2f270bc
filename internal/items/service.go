package items

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/rfqdesk/internal/schema"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
	"golang.org/x/sync/errgroup"
)

const (
	defaultGenerationTimeout = 12 * time.Second

	msgEmployeeIDRequired = "employeeId مطلوب"
	msgDetailKeysRequired = "rfq و lineItem مطلوبان"
	msgItemNotFound       = "البند غير موجود"
)

// Service defines the behavior needed by the item controllers.
type Service interface {
	ListForEmployee(ctx context.Context, employeeID string) (*ListResponse, error)
	Detail(ctx context.Context, req DetailRequest) (*DetailResponse, error)
}

// Generator produces optional enrichments for the detail view.
type Generator interface {
	GenerateImage(ctx context.Context, description string) (string, error)
	DescribeInArabic(ctx context.Context, product string) (string, error)
}

type service struct {
	store     rowstore.Store
	table     string
	generator Generator
	timeout   time.Duration
	logg      *logger.Logger
}

// ServiceParams bundles the dependencies required to build an items service.
type ServiceParams struct {
	Store     rowstore.Store
	Table     string
	Generator Generator
	// GenerationTimeout bounds the image and description calls together.
	GenerationTimeout time.Duration
	Logger            *logger.Logger
}

// NewService constructs an items service. Generator may be nil, in which case the
// detail view never carries an image.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("row store is required")
	}
	if strings.TrimSpace(params.Table) == "" {
		return nil, fmt.Errorf("items table is required")
	}
	timeout := params.GenerationTimeout
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		store:     params.Store,
		table:     params.Table,
		generator: params.Generator,
		timeout:   timeout,
		logg:      logg,
	}, nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) (*ListResponse, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgEmployeeIDRequired)
	}

	rows, err := s.store.FetchAll(ctx, s.table)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0)
	for _, row := range rows {
		if schema.OwnedBy(row, employeeID) {
			out = append(out, FromRow(row).summary())
		}
	}
	return &ListResponse{Success: true, Items: out}, nil
}

func (s *service) Detail(ctx context.Context, req DetailRequest) (*DetailResponse, error) {
	if strings.TrimSpace(req.RFQ) == "" || strings.TrimSpace(req.LineItem) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgDetailKeysRequired)
	}

	rows, err := s.store.FetchAll(ctx, s.table)
	if err != nil {
		return nil, err
	}

	var (
		item  Item
		found bool
	)
	for _, row := range rows {
		candidate := FromRow(row)
		if candidate.Matches(req.RFQ, req.LineItem) {
			item, found = candidate, true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
	}

	resp := &DetailResponse{Success: true, Item: item.detail()}
	s.enrich(ctx, item, req.WithDescription, resp)
	return resp, nil
}

// enrich fills the image and, when asked, the Arabic description. Failures only log.
func (s *service) enrich(ctx context.Context, item Item, withDescription bool, resp *DetailResponse) {
	if s.generator == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	subject := item.ImageSubject()
	var (
		imageURL    string
		description string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.generator.GenerateImage(gctx, subject)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "items.image_failed")
			return nil
		}
		imageURL = url
		return nil
	})
	if withDescription {
		g.Go(func() error {
			text, err := s.generator.DescribeInArabic(gctx, subject)
			if err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "items.description_failed")
				return nil
			}
			description = text
			return nil
		})
	}
	_ = g.Wait()

	if imageURL != "" {
		resp.ImageURL = &imageURL
	}
	resp.ArabicDescription = description
}
