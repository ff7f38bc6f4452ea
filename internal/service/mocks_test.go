package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nnikochann/numero-tg/internal/domain"
	"github.com/nnikochann/numero-tg/internal/repository"
)

type mockUserRepo struct {
	nextID int64
	byTgID map[int64]domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byTgID: make(map[int64]domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, tgID int64) (int64, error) {
	m.nextID++
	m.byTgID[tgID] = domain.User{
		ID:          m.nextID,
		TgID:        tgID,
		Lang:        "ru",
		PushEnabled: true,
		CreatedAt:   time.Now(),
	}
	return m.nextID, nil
}

func (m *mockUserRepo) GetByTgID(_ context.Context, tgID int64) (domain.User, error) {
	user, ok := m.byTgID[tgID]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (domain.User, error) {
	for _, user := range m.byTgID {
		if user.ID == id {
			return user, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, tgID int64, fio, birthdate string) error {
	user, ok := m.byTgID[tgID]
	if !ok {
		return repository.ErrNotFound
	}
	user.FIO = fio
	user.Birthdate = birthdate
	m.byTgID[tgID] = user
	return nil
}

func (m *mockUserRepo) UpdateSettings(_ context.Context, tgID int64, lang *string, pushEnabled *bool) error {
	user, ok := m.byTgID[tgID]
	if !ok {
		return repository.ErrNotFound
	}
	if lang != nil {
		user.Lang = *lang
	}
	if pushEnabled != nil {
		user.PushEnabled = *pushEnabled
	}
	m.byTgID[tgID] = user
	return nil
}

type mockReportRepo struct {
	nextID  int64
	reports map[int64]domain.Report
}

func newMockReportRepo() *mockReportRepo {
	return &mockReportRepo{reports: make(map[int64]domain.Report)}
}

func (m *mockReportRepo) Save(_ context.Context, userID int64, reportType string, coreJSON json.RawMessage) (int64, error) {
	m.nextID++
	m.reports[m.nextID] = domain.Report{
		ID:         m.nextID,
		UserID:     userID,
		ReportType: reportType,
		CoreJSON:   coreJSON,
		CreatedAt:  time.Now(),
	}
	return m.nextID, nil
}

func (m *mockReportRepo) UpdatePDFURL(_ context.Context, reportID int64, pdfURL string) error {
	report, ok := m.reports[reportID]
	if !ok {
		return repository.ErrNotFound
	}
	report.PDFURL = pdfURL
	m.reports[reportID] = report
	return nil
}

func (m *mockReportRepo) GetByID(_ context.Context, reportID int64) (domain.Report, error) {
	report, ok := m.reports[reportID]
	if !ok {
		return domain.Report{}, repository.ErrNotFound
	}
	return report, nil
}

func (m *mockReportRepo) LatestByType(_ context.Context, userID int64, reportType string) (domain.Report, error) {
	var latest domain.Report
	for _, report := range m.reports {
		if report.UserID == userID && report.ReportType == reportType && report.ID > latest.ID {
			latest = report
		}
	}
	if latest.ID == 0 {
		return domain.Report{}, repository.ErrNotFound
	}
	return latest, nil
}

type mockOrderRepo struct {
	nextID int64
	orders map[int64]domain.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[int64]domain.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order domain.Order) (int64, error) {
	m.nextID++
	order.ID = m.nextID
	order.CreatedAt = time.Now()
	m.orders[order.ID] = order
	return order.ID, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID int64) (domain.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID int64, status string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = status
	if status == domain.OrderStatusPaid {
		now := time.Now()
		order.PaidAt = &now
	}
	m.orders[orderID] = order
	return nil
}

type mockSubscriptionRepo struct {
	nextID      int64
	subs        map[int64]domain.Subscription
	subscribers []domain.User
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[int64]domain.Subscription)}
}

func (m *mockSubscriptionRepo) Create(_ context.Context, userID int64, status, providerID string) (int64, error) {
	m.nextID++
	m.subs[m.nextID] = domain.Subscription{
		ID:         m.nextID,
		UserID:     userID,
		Status:     status,
		ProviderID: providerID,
		CreatedAt:  time.Now(),
	}
	return m.nextID, nil
}

func (m *mockSubscriptionRepo) GetLatestByUserID(_ context.Context, userID int64) (domain.Subscription, error) {
	var latest domain.Subscription
	for _, sub := range m.subs {
		if sub.UserID == userID && sub.ID > latest.ID {
			latest = sub
		}
	}
	if latest.ID == 0 {
		return domain.Subscription{}, repository.ErrNotFound
	}
	return latest, nil
}

func (m *mockSubscriptionRepo) UpdateStatus(_ context.Context, subscriptionID int64, status string) error {
	sub, ok := m.subs[subscriptionID]
	if !ok {
		return repository.ErrNotFound
	}
	sub.Status = status
	m.subs[subscriptionID] = sub
	return nil
}

func (m *mockSubscriptionRepo) ListActiveSubscribers(_ context.Context) ([]domain.User, error) {
	return m.subscribers, nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type mockSender struct {
	sent []sentMessage
	err  error
}

func (m *mockSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}
