// Package analytics computes the aggregates behind the dashboard endpoints:
// per-kind event distribution, daily activity, and the order sales trend.
// Everything is returned as plain JSON-ready data; rendering is the client's
// concern.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dookan/catalog-backend/models"
	"github.com/dookan/catalog-backend/repositories"
	"github.com/dookan/catalog-backend/services"
	"github.com/dookan/catalog-backend/shopify"
)

// ActivityWindowDays is how far back the user activity report looks
const ActivityWindowDays = 30

// defaultOrderSample caps how many recent orders feed the sales trend
const defaultOrderSample = 100

// OrderSource fetches recent order totals from the commerce platform
type OrderSource interface {
	Orders(ctx context.Context, first int) ([]shopify.OrderTotal, error)
}

// Service computes analytics aggregates
type Service struct {
	auditRepo repositories.AuditRepository
	orders    OrderSource
	logger    *zap.Logger
}

// NewService creates a new analytics service
func NewService(auditRepo repositories.AuditRepository, orders OrderSource, logger *zap.Logger) *Service {
	return &Service{
		auditRepo: auditRepo,
		orders:    orders,
		logger:    logger,
	}
}

// Distribution is the per-kind event count breakdown for one actor
type Distribution struct {
	Create int64 `json:"create"`
	Update int64 `json:"update"`
	Delete int64 `json:"delete"`
	Total  int64 `json:"total"`
}

// EventDistribution returns how the actor's audit events split across kinds
func (s *Service) EventDistribution(ctx context.Context, actorID string) (*Distribution, error) {
	counts, err := s.auditRepo.CountByKind(ctx, actorID)
	if err != nil {
		return nil, err
	}

	d := &Distribution{
		Create: counts[models.EventKindCreate],
		Update: counts[models.EventKindUpdate],
		Delete: counts[models.EventKindDelete],
	}
	d.Total = d.Create + d.Update + d.Delete
	return d, nil
}

// ActivityReport is the actor's daily event counts over the activity window
type ActivityReport struct {
	Days    int                     `json:"days"`
	Buckets []models.ActivityBucket `json:"buckets"`
}

// UserActivity returns the actor's daily per-kind counts for the last
// ActivityWindowDays days.
func (s *Service) UserActivity(ctx context.Context, actorID string) (*ActivityReport, error) {
	since := time.Now().UTC().AddDate(0, 0, -ActivityWindowDays)
	buckets, err := s.auditRepo.ActivitySince(ctx, actorID, since)
	if err != nil {
		return nil, err
	}
	if buckets == nil {
		buckets = []models.ActivityBucket{}
	}
	return &ActivityReport{Days: ActivityWindowDays, Buckets: buckets}, nil
}

// SalesPoint is the summed order value for one calendar day
type SalesPoint struct {
	Date   string          `json:"date"` // YYYY-MM-DD
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

// SalesTrend groups recent order totals by calendar day, oldest first.
// Orders whose timestamps cannot be parsed are skipped with a warning.
func (s *Service) SalesTrend(ctx context.Context, sample int) ([]SalesPoint, error) {
	if sample <= 0 {
		sample = defaultOrderSample
	}

	orders, err := s.orders.Orders(ctx, sample)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeSyncFailed,
			"failed to fetch orders from shopify", err)
	}

	byDate := make(map[string]*SalesPoint)
	for _, o := range orders {
		ts, err := time.Parse(time.RFC3339, o.CreatedAt)
		if err != nil {
			s.logger.Warn("skipping order with unparseable timestamp",
				zap.String("created_at", o.CreatedAt),
				zap.Error(err))
			continue
		}
		date := ts.UTC().Format("2006-01-02")
		point, ok := byDate[date]
		if !ok {
			point = &SalesPoint{Date: date}
			byDate[date] = point
		}
		point.Amount = point.Amount.Add(o.Amount)
		point.Orders++
	}

	trend := make([]SalesPoint, 0, len(byDate))
	for _, p := range byDate {
		trend = append(trend, *p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })

	return trend, nil
}
