package razorpay

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gramkart/gramkart-backend/internal/cart"
	"github.com/gramkart/gramkart-backend/internal/notify"
	"github.com/gramkart/gramkart-backend/internal/orders"
	"github.com/gramkart/gramkart-backend/internal/products"
	"github.com/gramkart/gramkart-backend/pkg/db/models"
	"github.com/gramkart/gramkart-backend/pkg/enums"
	pkgerrors "github.com/gramkart/gramkart-backend/pkg/errors"
	"github.com/gramkart/gramkart-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	OrdersRepo        orders.Repository
	ProductsRepo      products.Repository
	CartRepo          cart.Repository
	Notifier          notify.Notifier
	TransactionRunner txRunner
	FulfillmentEvent  string
	Logger            *logger.Logger
}

// Service turns verified provider events into order state transitions.
type Service struct {
	orders           orders.Repository
	products         products.Repository
	cart             cart.Repository
	notifier         notify.Notifier
	txRunner         txRunner
	fulfillmentEvent string
	logg             *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.OrdersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repo required")
	}
	if params.ProductsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products repo required")
	}
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repo required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "notifier required")
	}
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	fulfillment := params.FulfillmentEvent
	if fulfillment == "" {
		fulfillment = EventPaymentLinkPaid
	}
	return &Service{
		orders:           params.OrdersRepo,
		products:         params.ProductsRepo,
		cart:             params.CartRepo,
		notifier:         params.Notifier,
		txRunner:         params.TransactionRunner,
		fulfillmentEvent: fulfillment,
		logg:             params.Logger,
	}, nil
}

// HandleEvent dispatches one verified event. Unrecognized tags are
// acknowledged without side effects; recognized tags without a bill number
// are rejected so the provider redelivers once notes are fixed.
func (s *Service) HandleEvent(ctx context.Context, event *Event) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "event required")
	}
	ctx = s.logg.WithEvent(ctx, event.Event)

	if !event.IsRecognized() {
		s.logg.Info(ctx, "ignoring unrecognized webhook event")
		return nil
	}

	billNo := event.BillNo()
	if billNo == "" {
		return pkgerrors.New(pkgerrors.CodeEventUnprocessable, "event notes carry no bill number").
			WithDetails(map[string]string{"event": event.Event})
	}
	ctx = s.logg.WithBillNo(ctx, billNo)

	switch event.Event {
	case s.fulfillmentEvent:
		return s.confirmPayment(ctx, billNo, event)
	case EventPaymentLinkFailed, EventPaymentFailed:
		return s.markTerminal(ctx, billNo, enums.PaymentStatusFailed)
	case EventPaymentLinkExpired:
		return s.markTerminal(ctx, billNo, enums.PaymentStatusExpired)
	default:
		// paid/authorized/captured variants that are not the configured
		// fulfillment trigger: acknowledge only.
		s.logg.Info(ctx, "acknowledging non-fulfillment payment event")
		return nil
	}
}

// confirmPayment runs the atomic confirmation pipeline: order mutation, stock
// decrement and cart clear commit together or not at all. The notification
// chain runs after commit and never fails the request.
func (s *Service) confirmPayment(ctx context.Context, billNo string, event *Event) error {
	paymentID, method, amountMinor := event.PaymentDetails()

	var (
		confirmed   *models.Order
		alreadyPaid bool
		lostRace    bool
	)
	err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)

		order, err := ordersRepo.FindByBillNo(ctx, billNo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeEventUnprocessable, "no order for bill number").
					WithDetails(map[string]string{"bill_no": billNo})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}

		if order.PaymentStatus == enums.PaymentStatusPaid {
			s.logg.Info(ctx, "order already paid, skipping fulfillment")
			confirmed = order
			alreadyPaid = true
			return nil
		}

		amount := decimal.NewFromInt(amountMinor).Div(decimal.NewFromInt(100))
		paymentMethod := enums.PaymentMethodLink
		if method != "" {
			paymentMethod = enums.PaymentMethod(method)
		}
		patch := orders.PaidUpdate{
			TotalAmount:   amount,
			PaymentMethod: paymentMethod,
		}
		if paymentID != "" {
			patch.ProviderPaymentID = &paymentID
		}

		// The conditional PENDING -> PAID transition is the authoritative
		// duplicate guard: two deliveries racing on the same order agree on a
		// single winner at the database, and the loser must not touch stock.
		claimed, err := ordersRepo.MarkPaid(ctx, order.ID, patch)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
		}
		if !claimed {
			s.logg.Info(ctx, "order claimed by concurrent delivery, skipping fulfillment")
			lostRace = true
			return nil
		}

		order.TotalAmount = amount
		order.PaymentStatus = enums.PaymentStatusPaid
		order.OrderStatus = enums.OrderStatusProcessing
		order.PaymentMethod = &paymentMethod
		if paymentID != "" {
			order.ProviderPaymentID = &paymentID
		}

		productsRepo := s.products.WithTx(tx)
		for _, item := range order.Items {
			unit, err := productsRepo.ResolveUnit(ctx, order.TenantID, item.SKU, item.UnitLabel)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve line item unit")
			}
			if unit == nil {
				itemCtx := s.logg.WithField(ctx, "sku", item.SKU)
				s.logg.Warn(itemCtx, "line item matches no product unit, skipping decrement")
				continue
			}
			ok, err := productsRepo.DecrementStock(ctx, unit.ID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for line item").
					WithDetails(map[string]any{
						"sku":       item.SKU,
						"requested": item.Qty,
					})
			}
		}

		if err := s.cart.WithTx(tx).Clear(ctx, order.TenantID, order.SenderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}

		confirmed = order
		return nil
	})
	if err != nil {
		return err
	}

	// The winning delivery owns the customer notification.
	if lostRace {
		return nil
	}

	if alreadyPaid && confirmed.NotificationSent {
		return nil
	}

	outcome := s.notifier.NotifyOrderConfirmed(ctx, confirmed)
	if err := s.orders.RecordNotification(ctx, confirmed.ID, outcome); err != nil {
		s.logg.Error(ctx, "recording notification outcome failed", err)
	}
	return nil
}

// markTerminal moves a PENDING order into a terminal failure state. Missing
// orders and orders already out of PENDING are acknowledged with a warning.
func (s *Service) markTerminal(ctx context.Context, billNo string, status enums.PaymentStatus) error {
	order, err := s.orders.FindByBillNo(ctx, billNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Warn(ctx, fmt.Sprintf("no order for bill number on %s event", status))
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	if order.PaymentStatus != enums.PaymentStatusPending {
		s.logg.Warn(ctx, fmt.Sprintf("order already %s, ignoring %s event", order.PaymentStatus, status))
		return nil
	}

	if err := s.orders.SetPaymentStatus(ctx, order.ID, status); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set payment status")
	}
	s.logg.Info(ctx, fmt.Sprintf("order marked %s", status))
	return nil
}
