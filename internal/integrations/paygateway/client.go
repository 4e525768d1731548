// Package paygateway имитирует платежный шлюз.
// Реальная интеграция с провайдером живет за тем же контрактом:
// usecase-слой видит только Charge/Refund и их ошибки.
package paygateway

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Client симулятор платежного шлюза
type Client struct {
	declineMethods map[string]struct{}
	logs           Logger
}

// NewClient создает клиент шлюза.
// declineMethods — способы оплаты, платежи по которым будут отклоняться
// (используется для стендов и тестов отказов).
func NewClient(declineMethods []string, logs Logger) *Client {
	decline := make(map[string]struct{}, len(declineMethods))
	for _, m := range declineMethods {
		decline[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &Client{
		declineMethods: decline,
		logs:           logs,
	}
}

// IsSupportedMethod проверяет, что способ оплаты известен шлюзу
func IsSupportedMethod(method string) bool {
	switch method {
	case MethodCard, MethodCash, MethodOnline:
		return true
	}
	return false
}

// Charge списывает средства за бронирование
func (c *Client) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if !IsSupportedMethod(req.Method) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	if _, declined := c.declineMethods[req.Method]; declined {
		c.logs.Warn("[paygateway] charge declined: reference=%s method=%s", req.Reference, req.Method)
		return nil, fmt.Errorf("%w: method %q", ErrPaymentDeclined, req.Method)
	}

	result := &ChargeResult{
		TransactionID: newTransactionID("CH"),
		Amount:        req.Amount,
		ProcessedAt:   time.Now(),
	}

	c.logs.Info("[paygateway] charge ok: reference=%s amount=%.2f tx=%s", req.Reference, req.Amount, result.TransactionID)
	return result, nil
}

// Refund возвращает средства за отмененное бронирование.
// Нулевая сумма — валидный no-op (отмена без возврата).
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*RefundResult, error) {
	result := &RefundResult{
		TransactionID: newTransactionID("RF"),
		Amount:        req.Amount,
		ProcessedAt:   time.Now(),
	}

	c.logs.Info("[paygateway] refund ok: reference=%s amount=%.2f tx=%s", req.Reference, req.Amount, result.TransactionID)
	return result, nil
}

func newTransactionID(prefix string) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, time.Now().UnixMilli(), rand.Intn(10000))
}
