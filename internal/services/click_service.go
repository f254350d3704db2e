package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yoockh/adchat/internal/models"
	mongorepo "github.com/yoockh/adchat/internal/repositories/mongo"
	pgrepo "github.com/yoockh/adchat/internal/repositories/postgres"
	"github.com/yoockh/adchat/internal/utils"
)

type ClickInput struct {
	ProductID int64
	UserID    int64 // 0 when the link carried no user
	UserAgent string
	IP        string
	Referer   string
}

type ClickService interface {
	// Record counts one click-through and returns the product's destination link.
	// Every call counts; clicks are never de-duplicated.
	Record(ctx context.Context, in ClickInput) (string, error)
	// Audit lists the newest raw click events of one product.
	Audit(ctx context.Context, productID int64, limit int64) ([]models.ClickEvent, error)
}

type clickService struct {
	tx       pgrepo.Transactor
	products pgrepo.ProductRepository
	clicks   pgrepo.ClickRepository
	audit    mongorepo.ClickEventRepository // optional
	auditTTL time.Duration
	log      logrus.FieldLogger
}

func NewClickService(tx pgrepo.Transactor, products pgrepo.ProductRepository, clicks pgrepo.ClickRepository, audit mongorepo.ClickEventRepository, auditTTL time.Duration, log logrus.FieldLogger) ClickService {
	if auditTTL <= 0 {
		auditTTL = 30 * 24 * time.Hour
	}
	if log == nil {
		log = logrus.New()
	}
	return &clickService{tx: tx, products: products, clicks: clicks, audit: audit, auditTTL: auditTTL, log: log}
}

func (s *clickService) Record(ctx context.Context, in ClickInput) (string, error) {
	const op = "ClickService.Record"

	if in.ProductID <= 0 {
		return "", utils.E(utils.CodeInvalidArgument, op, "product_id is required", nil)
	}

	p, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "product not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load product", err)
	}

	now := time.Now().UTC()
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.IncrementClicks(ctx, p.ID); err != nil {
			return err
		}
		if in.UserID == 0 {
			return nil
		}
		return s.clicks.Insert(ctx, &models.ClickRecord{UserID: in.UserID, ProductID: p.ID, CreatedAt: now})
	})
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "product not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to record click", err)
	}

	s.writeAudit(ctx, in, now)
	return p.Link, nil
}

func (s *clickService) writeAudit(ctx context.Context, in ClickInput, at time.Time) {
	if s.audit == nil {
		return
	}
	ev := &models.ClickEvent{
		ProductID: in.ProductID,
		UserAgent: in.UserAgent,
		IP:        in.IP,
		Referer:   in.Referer,
		Timestamp: at,
		ExpiresAt: at.Add(s.auditTTL),
	}
	if in.UserID != 0 {
		uid := in.UserID
		ev.UserID = &uid
	}
	if err := s.audit.Insert(ctx, ev); err != nil {
		s.log.WithError(err).WithField("product_id", in.ProductID).Warn("click audit insert failed")
	}
}

func (s *clickService) Audit(ctx context.Context, productID int64, limit int64) ([]models.ClickEvent, error) {
	const op = "ClickService.Audit"

	if s.audit == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "click audit is not configured", nil)
	}
	if productID <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid product id", nil)
	}

	out, err := s.audit.ListByProduct(ctx, productID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list click events", err)
	}
	return out, nil
}
