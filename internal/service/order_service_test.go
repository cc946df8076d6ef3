package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/summitops/conference-api/internal/domain"
	"github.com/summitops/conference-api/internal/service"
	"github.com/summitops/conference-api/internal/webhook"
)

// ---------- Mocks ----------

type mockOrderRepo struct {
	orders map[string]*domain.Order
	items  map[string][]domain.OrderItem

	lastSinceStatuses []domain.OrderStatus
	lastSince         time.Time
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: make(map[string]*domain.Order),
		items:  make(map[string][]domain.OrderItem),
	}
}

func (m *mockOrderRepo) addOrder(id string, status domain.OrderStatus) *domain.Order {
	o := &domain.Order{
		ID:            id,
		Status:        status,
		TotalAmount:   35000,
		Currency:      "XAF",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	m.orders[id] = o
	return o
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Order, error) {
	var result []domain.Order
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOrderRepo) List(_ context.Context, limit, offset int, status *domain.OrderStatus) ([]domain.Order, error) {
	var result []domain.Order
	for _, o := range m.orders {
		if status != nil && o.Status != *status {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

func (m *mockOrderRepo) ListByStatusesSince(_ context.Context, statuses []domain.OrderStatus, since time.Time) ([]domain.Order, error) {
	m.lastSinceStatuses = statuses
	m.lastSince = since

	var result []domain.Order
	for _, o := range m.orders {
		for _, s := range statuses {
			if o.Status == s && o.CreatedAt.After(since) {
				result = append(result, *o)
				break
			}
		}
	}
	return result, nil
}

func (m *mockOrderRepo) ItemsByOrderID(_ context.Context, orderID string) ([]domain.OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockOrderRepo) MarkCompleted(_ context.Context, id string, att domain.PaymentAttachment) (*domain.Order, bool, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, false, nil
	}
	if o.Status == domain.OrderCompleted {
		cp := *o
		return &cp, false, nil
	}

	now := time.Now()
	o.Status = domain.OrderCompleted
	o.ModemPayChargeID = &att.ChargeID
	o.TransactionReference = &att.TransactionReference
	o.PaymentMethod = &att.PaymentMethod
	o.PaidAt = &now
	o.UpdatedAt = now

	cp := *o
	return &cp, true, nil
}

func (m *mockOrderRepo) markTerminal(id string, status domain.OrderStatus, att domain.PaymentAttachment) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status == domain.OrderCompleted {
		return false, nil
	}
	o.Status = status
	o.ModemPayChargeID = &att.ChargeID
	o.UpdatedAt = time.Now()
	return true, nil
}

func (m *mockOrderRepo) MarkFailed(_ context.Context, id string, att domain.PaymentAttachment) (bool, error) {
	return m.markTerminal(id, domain.OrderFailed, att)
}

func (m *mockOrderRepo) MarkCancelled(_ context.Context, id string, att domain.PaymentAttachment) (bool, error) {
	return m.markTerminal(id, domain.OrderCancelled, att)
}

type mockMailer struct {
	mu sync.Mutex

	confirmations int
	credentials   int
	retries       int
	scholarships  int

	lastTo       string
	lastPassword string
	lastRetryURL string
	sendErr      error
}

func (m *mockMailer) SendOrderConfirmation(toEmail, toName, orderID string, totalAmount int64, currency string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations++
	m.lastTo = toEmail
	return m.sendErr
}

func (m *mockMailer) SendStaffCredentials(toEmail, toName, tempPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credentials++
	m.lastTo = toEmail
	m.lastPassword = tempPassword
	return m.sendErr
}

func (m *mockMailer) SendRetryPayment(toEmail, toName, retryURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retries++
	m.lastTo = toEmail
	m.lastRetryURL = retryURL
	return m.sendErr
}

func (m *mockMailer) SendScholarshipConfirmation(toEmail, toName, ticketType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scholarships++
	m.lastTo = toEmail
	return m.sendErr
}

type publishedEvent struct {
	subject string
	data    interface{}
}

type mockEventBus struct {
	mu        sync.Mutex
	published []publishedEvent
}

func (m *mockEventBus) Publish(_ context.Context, subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedEvent{subject: subject, data: data})
	return nil
}

func (m *mockEventBus) Close() error { return nil }

func (m *mockEventBus) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []string
	for _, e := range m.published {
		result = append(result, e.subject)
	}
	return result
}

func succeededEvent(orderID, chargeID string) webhook.SucceededEvent {
	return webhook.SucceededEvent{Payload: webhook.Payload{
		ID:                   chargeID,
		Amount:               35000,
		Currency:             "XAF",
		PaymentMethod:        "mobile_money",
		TransactionReference: "TXN-001",
		Status:               "succeeded",
		Metadata:             map[string]string{"orderId": orderID},
	}}
}

// ---------- Tests ----------

func TestHandleWebhook_Succeeded_CompletesOrder(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	m := &mockMailer{}
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, m, bus)

	if err := svc.HandleWebhookEvent(context.Background(), succeededEvent("ord_1", "ch_1")); err != nil {
		t.Fatalf("HandleWebhookEvent returned error: %v", err)
	}

	order := repo.orders["ord_1"]
	if order.Status != domain.OrderCompleted {
		t.Errorf("Expected status COMPLETED, got %s", order.Status)
	}
	if order.PaidAt == nil {
		t.Error("Expected paidAt to be set")
	}
	if order.ModemPayChargeID == nil || *order.ModemPayChargeID != "ch_1" {
		t.Error("Expected charge id to be attached")
	}
	if m.confirmations != 1 {
		t.Errorf("Expected 1 confirmation email, got %d", m.confirmations)
	}
	if m.lastTo != "jane@example.com" {
		t.Errorf("Expected email to jane@example.com, got %s", m.lastTo)
	}
	subjects := bus.subjects()
	if len(subjects) != 1 || subjects[0] != "order.completed" {
		t.Errorf("Expected one order.completed event, got %v", subjects)
	}
}

func TestHandleWebhook_Succeeded_DuplicateDelivery(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	m := &mockMailer{}
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, m, bus)

	ctx := context.Background()
	if err := svc.HandleWebhookEvent(ctx, succeededEvent("ord_1", "ch_1")); err != nil {
		t.Fatalf("First delivery returned error: %v", err)
	}
	if err := svc.HandleWebhookEvent(ctx, succeededEvent("ord_1", "ch_1")); err != nil {
		t.Fatalf("Duplicate delivery returned error: %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderCompleted {
		t.Errorf("Expected status COMPLETED, got %s", repo.orders["ord_1"].Status)
	}
	if m.confirmations != 1 {
		t.Errorf("Expected exactly 1 confirmation email across duplicate deliveries, got %d", m.confirmations)
	}
	if len(bus.subjects()) != 1 {
		t.Errorf("Expected exactly 1 published event, got %d", len(bus.subjects()))
	}
}

func TestHandleWebhook_Succeeded_UnknownOrder(t *testing.T) {
	repo := newMockOrderRepo()
	m := &mockMailer{}
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, m, bus)

	err := svc.HandleWebhookEvent(context.Background(), succeededEvent("ord_missing", "ch_1"))
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("Expected ErrOrderNotFound, got %v", err)
	}
	if m.confirmations != 0 {
		t.Errorf("Expected no confirmation email, got %d", m.confirmations)
	}
	if len(bus.subjects()) != 0 {
		t.Errorf("Expected no published events, got %v", bus.subjects())
	}
}

func TestHandleWebhook_Succeeded_MissingOrderID(t *testing.T) {
	svc := service.NewOrderService(newMockOrderRepo(), &mockMailer{}, &mockEventBus{})

	ev := webhook.SucceededEvent{Payload: webhook.Payload{ID: "ch_1", Metadata: map[string]string{}}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("Expected ErrOrderNotFound, got %v", err)
	}
}

func TestHandleWebhook_Failed_MarksOrderFailed(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, &mockMailer{}, bus)

	ev := webhook.FailedEvent{Payload: webhook.Payload{
		ID:       "ch_1",
		Status:   "failed",
		Metadata: map[string]string{"orderId": "ord_1"},
	}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent returned error: %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderFailed {
		t.Errorf("Expected status FAILED, got %s", repo.orders["ord_1"].Status)
	}
	subjects := bus.subjects()
	if len(subjects) != 1 || subjects[0] != "order.failed" {
		t.Errorf("Expected one order.failed event, got %v", subjects)
	}
}

func TestHandleWebhook_Failed_MissingOrderID_IsNoOp(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, &mockMailer{}, bus)

	ev := webhook.FailedEvent{Payload: webhook.Payload{ID: "ch_1"}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("Expected nil error for failure without order id, got %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderPending {
		t.Errorf("Expected order untouched, got %s", repo.orders["ord_1"].Status)
	}
	if len(bus.subjects()) != 0 {
		t.Errorf("Expected no published events, got %v", bus.subjects())
	}
}

func TestHandleWebhook_Failed_DoesNotDemoteCompleted(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderCompleted)
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, &mockMailer{}, bus)

	ev := webhook.FailedEvent{Payload: webhook.Payload{
		ID:       "ch_late",
		Metadata: map[string]string{"orderId": "ord_1"},
	}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent returned error: %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderCompleted {
		t.Errorf("Expected COMPLETED to stick, got %s", repo.orders["ord_1"].Status)
	}
	if len(bus.subjects()) != 0 {
		t.Errorf("Expected no published events, got %v", bus.subjects())
	}
}

func TestHandleWebhook_Cancelled_MarksOrderCancelled(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	bus := &mockEventBus{}
	svc := service.NewOrderService(repo, &mockMailer{}, bus)

	ev := webhook.CancelledEvent{Payload: webhook.Payload{
		ID:       "ch_1",
		Metadata: map[string]string{"orderId": "ord_1"},
	}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("HandleWebhookEvent returned error: %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderCancelled {
		t.Errorf("Expected status CANCELLED, got %s", repo.orders["ord_1"].Status)
	}
}

func TestHandleWebhook_UnknownEvent_IsAcknowledged(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderPending)
	m := &mockMailer{}
	svc := service.NewOrderService(repo, m, &mockEventBus{})

	ev := webhook.UnknownEvent{Type: "payout.settled", Payload: webhook.Payload{ID: "po_1"}}
	if err := svc.HandleWebhookEvent(context.Background(), ev); err != nil {
		t.Fatalf("Expected nil error for unknown event, got %v", err)
	}

	if repo.orders["ord_1"].Status != domain.OrderPending {
		t.Errorf("Expected order untouched, got %s", repo.orders["ord_1"].Status)
	}
	if m.confirmations != 0 {
		t.Errorf("Expected no emails, got %d", m.confirmations)
	}
}

func TestGetOrder_LoadsItems(t *testing.T) {
	repo := newMockOrderRepo()
	repo.addOrder("ord_1", domain.OrderCompleted)
	repo.items["ord_1"] = []domain.OrderItem{
		{ID: 1, OrderID: "ord_1", ProductRef: "tshirt-xl", Quantity: 2, UnitPrice: 10000, Subtotal: 20000},
	}
	svc := service.NewOrderService(repo, &mockMailer{}, &mockEventBus{})

	order, err := svc.GetOrder(context.Background(), "ord_1")
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if order == nil {
		t.Fatal("Expected order, got nil")
	}
	if len(order.Items) != 1 || order.Items[0].ProductRef != "tshirt-xl" {
		t.Errorf("Expected one tshirt-xl item, got %+v", order.Items)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	svc := service.NewOrderService(newMockOrderRepo(), &mockMailer{}, &mockEventBus{})

	order, err := svc.GetOrder(context.Background(), "ord_missing")
	if err != nil {
		t.Fatalf("GetOrder returned error: %v", err)
	}
	if order != nil {
		t.Errorf("Expected nil order, got %+v", order)
	}
}
