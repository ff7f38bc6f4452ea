package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/interpret"
	"github.com/nnikochann/numero-tg/internal/report"
	"github.com/nnikochann/numero-tg/internal/repository"
	"github.com/nnikochann/numero-tg/internal/service"
)

type stubUserRepo struct {
	user domain.User
}

func (s *stubUserRepo) Create(_ context.Context, tgID int64) (int64, error) {
	return s.user.ID, nil
}

func (s *stubUserRepo) GetByTgID(_ context.Context, tgID int64) (domain.User, error) {
	if s.user.TgID != tgID {
		return domain.User{}, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	if s.user.ID != id {
		return domain.User{}, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateProfile(_ context.Context, _ int64, fio, birthdate string) error {
	s.user.FIO = fio
	s.user.Birthdate = birthdate
	return nil
}

func (s *stubUserRepo) UpdateSettings(_ context.Context, _ int64, _ *string, _ *bool) error {
	return nil
}

type stubOrderRepo struct {
	orders map[int64]domain.Order
}

func (s *stubOrderRepo) Create(_ context.Context, order domain.Order) (int64, error) {
	id := int64(len(s.orders) + 1)
	order.ID = id
	s.orders[id] = order
	return id, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, orderID int64) (domain.Order, error) {
	order, ok := s.orders[orderID]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, orderID int64, status string) error {
	order, ok := s.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	s.orders[orderID] = order
	return nil
}

type stubSubRepo struct {
	created int
}

func (s *stubSubRepo) Create(_ context.Context, _ int64, _, _ string) (int64, error) {
	s.created++
	return int64(s.created), nil
}

func (s *stubSubRepo) GetLatestByUserID(_ context.Context, _ int64) (domain.Subscription, error) {
	return domain.Subscription{}, repository.ErrNotFound
}

func (s *stubSubRepo) UpdateStatus(_ context.Context, _ int64, _ string) error {
	return nil
}

func (s *stubSubRepo) ListActiveSubscribers(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

type stubReportRepo struct{}

func (s *stubReportRepo) Save(_ context.Context, _ int64, _ string, _ json.RawMessage) (int64, error) {
	return 1, nil
}

func (s *stubReportRepo) UpdatePDFURL(_ context.Context, _ int64, _ string) error {
	return nil
}

func (s *stubReportRepo) GetByID(_ context.Context, _ int64) (domain.Report, error) {
	return domain.Report{}, repository.ErrNotFound
}

func (s *stubReportRepo) LatestByType(_ context.Context, _ int64, _ string) (domain.Report, error) {
	return domain.Report{}, repository.ErrNotFound
}

type recordingSender struct {
	chatID int64
	text   string
}

func (s *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	s.chatID = chatID
	s.text = text
	return nil
}

const testPaymentSecret = "payment-secret"

func setupPaymentRouter(t *testing.T, orders *stubOrderRepo, subs *stubSubRepo, sender *recordingSender, testMode bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &stubUserRepo{user: domain.User{ID: 1, TgID: 100, FIO: "Иванов Иван", Birthdate: "1990-05-15"}}
	renderer, err := report.NewRenderer(t.TempDir())
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	reportSvc := service.NewReportService(zap.NewNop(), &stubReportRepo{}, &interpret.MockInterpreter{}, renderer)
	links := service.NewReportLinkService("test-secret", time.Hour)
	orderSvc := service.NewOrderService(zap.NewNop(), orders, subs, users, reportSvc, links)

	h := NewPaymentHandler(zap.NewNop(), orderSvc, sender, testPaymentSecret, testMode)
	r := gin.New()
	r.POST("/payments/yookassa", h.Webhook)
	return r
}

func signedPaymentRequest(t *testing.T, body any, sign bool) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/payments/yookassa", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		mac := hmac.New(sha256.New, []byte(testPaymentSecret))
		mac.Write(payload)
		req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
	}
	return req
}

func succeededEvent(orderID string) map[string]any {
	return map[string]any{
		"event": "payment.succeeded",
		"object": map[string]any{
			"id":       "pay-1",
			"status":   "succeeded",
			"metadata": map[string]any{"order_id": orderID},
		},
	}
}

func TestPaymentWebhook_MissingSignature(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{}}
	r := setupPaymentRouter(t, orders, &stubSubRepo{}, &recordingSender{}, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedPaymentRequest(t, succeededEvent("1"), false))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestPaymentWebhook_BadSignature(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{}}
	r := setupPaymentRouter(t, orders, &stubSubRepo{}, &recordingSender{}, false)

	req := signedPaymentRequest(t, succeededEvent("1"), false)
	req.Header.Set("X-Signature", "deadbeef")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestPaymentWebhook_SubscriptionDelivered(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{
		1: {ID: 1, UserID: 1, Product: domain.ProductSubscription, Status: domain.OrderStatusPending},
	}}
	subs := &stubSubRepo{}
	sender := &recordingSender{}
	r := setupPaymentRouter(t, orders, subs, sender, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedPaymentRequest(t, succeededEvent("1"), true))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if subs.created != 1 {
		t.Fatalf("expected subscription to be created")
	}
	if sender.chatID != 100 || sender.text == "" {
		t.Fatalf("expected user notification, got chat=%d text=%q", sender.chatID, sender.text)
	}

	order, _ := orders.GetByID(context.Background(), 1)
	if order.Status != domain.OrderStatusPaid {
		t.Fatalf("expected paid order, got %q", order.Status)
	}
}

func TestPaymentWebhook_IgnoresOtherEvents(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{}}
	r := setupPaymentRouter(t, orders, &stubSubRepo{}, &recordingSender{}, false)

	body := map[string]any{
		"event":  "payment.canceled",
		"object": map[string]any{"id": "pay-9", "status": "canceled"},
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedPaymentRequest(t, body, true))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for ignored event, got %d", rec.Code)
	}
}

func TestPaymentWebhook_OrderNotFound(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{}}
	r := setupPaymentRouter(t, orders, &stubSubRepo{}, &recordingSender{}, false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedPaymentRequest(t, succeededEvent("42"), true))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPaymentWebhook_TestModeSkipsSignature(t *testing.T) {
	orders := &stubOrderRepo{orders: map[int64]domain.Order{
		1: {ID: 1, UserID: 1, Product: domain.ProductSubscription, Status: domain.OrderStatusPending},
	}}
	r := setupPaymentRouter(t, orders, &stubSubRepo{}, &recordingSender{}, true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, signedPaymentRequest(t, succeededEvent("1"), false))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 in test mode, got %d", rec.Code)
	}
}
