package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/repository"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrOrderNotFound  = errors.New("order not found")
)

// OrderService crea órdenes de compra y resuelve los pagos confirmados:
// generar el reporte comprado o activar la suscripción.
type OrderService struct {
	logger  *zap.Logger
	orders  repository.OrderRepository
	subs    repository.SubscriptionRepository
	users   repository.UserRepository
	reports *ReportService
	links   *ReportLinkService
}

func NewOrderService(
	logger *zap.Logger,
	orders repository.OrderRepository,
	subs repository.SubscriptionRepository,
	users repository.UserRepository,
	reports *ReportService,
	links *ReportLinkService,
) *OrderService {
	return &OrderService{
		logger:  logger,
		orders:  orders,
		subs:    subs,
		users:   users,
		reports: reports,
		links:   links,
	}
}

// CreateOrder registra una orden pendiente. El payload conserva la clave de
// idempotencia para el proveedor y, en compatibilidad, los datos del partner.
func (s *OrderService) CreateOrder(ctx context.Context, user domain.User, product string, extra map[string]any) (domain.Order, error) {
	price := domain.ProductPrice(product)
	if price == 0 {
		return domain.Order{}, ErrUnknownProduct
	}

	payload := map[string]any{
		"idempotence_key": uuid.NewString(),
	}
	for k, v := range extra {
		payload[k] = v
	}

	order := domain.Order{
		UserID:   user.ID,
		Product:  product,
		Price:    price,
		Currency: "RUB",
		Status:   domain.OrderStatusPending,
		Payload:  payload,
	}
	id, err := s.orders.Create(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	order.ID = id

	s.logger.Info("order created",
		zap.Int64("order_id", id),
		zap.Int64("user_id", user.ID),
		zap.String("product", product),
	)
	return order, nil
}

// HandlePaymentSucceeded marca la orden como pagada y entrega el producto.
// Devuelve el texto de notificación para el usuario. Reprocesar una orden
// ya pagada es un no-op (los webhooks de pago llegan repetidos).
func (s *OrderService) HandlePaymentSucceeded(ctx context.Context, orderID int64, providerID string) (int64, string, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, "", ErrOrderNotFound
		}
		return 0, "", fmt.Errorf("get order: %w", err)
	}
	if order.Status == domain.OrderStatusPaid {
		return 0, "", nil
	}

	if err := s.orders.UpdateStatus(ctx, orderID, domain.OrderStatusPaid); err != nil {
		return 0, "", fmt.Errorf("mark order paid: %w", err)
	}

	user, err := s.users.GetByID(ctx, order.UserID)
	if err != nil {
		return 0, "", fmt.Errorf("get order user: %w", err)
	}

	message, err := s.deliver(ctx, user, order, providerID)
	if err != nil {
		return 0, "", err
	}

	s.logger.Info("payment delivered",
		zap.Int64("order_id", orderID),
		zap.String("product", order.Product),
	)
	return user.TgID, message, nil
}

func (s *OrderService) deliver(ctx context.Context, user domain.User, order domain.Order, providerID string) (string, error) {
	switch order.Product {
	case domain.ProductFullReport:
		reportID, _, err := s.reports.Full(ctx, user)
		if err != nil {
			return "", fmt.Errorf("deliver full report: %w", err)
		}
		token, err := s.links.Sign(reportID)
		if err != nil {
			return "", fmt.Errorf("sign report link: %w", err)
		}
		return fmt.Sprintf("Ваш полный отчет готов! Скачать: /reports/%d/download?token=%s", reportID, token), nil

	case domain.ProductCompatibilityReport:
		partnerBirthdate, _ := order.Payload["partner_birthdate"].(string)
		partnerFIO, _ := order.Payload["partner_fio"].(string)
		if partnerBirthdate == "" || partnerFIO == "" {
			return "", fmt.Errorf("order %d missing partner data", order.ID)
		}
		reportID, _, err := s.reports.Compatibility(ctx, user, partnerBirthdate, partnerFIO)
		if err != nil {
			return "", fmt.Errorf("deliver compatibility report: %w", err)
		}
		token, err := s.links.Sign(reportID)
		if err != nil {
			return "", fmt.Errorf("sign report link: %w", err)
		}
		return fmt.Sprintf("Отчет о совместимости готов! Скачать: /reports/%d/download?token=%s", reportID, token), nil

	case domain.ProductSubscription:
		if _, err := s.subs.Create(ctx, user.ID, domain.SubscriptionStatusActive, providerID); err != nil {
			return "", fmt.Errorf("create subscription: %w", err)
		}
		return "Подписка активирована! Каждую неделю вы будете получать персональный прогноз.", nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownProduct, order.Product)
	}
}
