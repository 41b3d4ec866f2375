package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
)

// WhatsAppNotifier sends the "transfer paid" message to the original sender
// through the WhatChimp webhook.
type WhatsAppNotifier struct {
	webhookURL string
	enabled    bool
	client     *http.Client
}

var _ service_interfaces.WhatsAppNotifier = (*WhatsAppNotifier)(nil)

func NewWhatsAppNotifier(webhookURL string, enabled bool) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		webhookURL: webhookURL,
		enabled:    enabled && webhookURL != "",
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

type whatsAppPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (n *WhatsAppNotifier) TransferPaid(ctx context.Context, transfer domain.Transfer) error {
	if !n.enabled {
		return nil
	}

	phone := NormalizePhone(transfer.SenderPhone, transfer.SenderCountry)
	if phone == "" {
		return fmt.Errorf("sender phone %q cannot be normalized", transfer.SenderPhone)
	}

	message := fmt.Sprintf(
		"Your transfer %s has been paid to %s (%s %s).",
		transfer.Reference,
		transfer.BeneficiaryName,
		transfer.AmountReceived.String(),
		transfer.CurrencyReceived,
	)

	body, err := json.Marshal(whatsAppPayload{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("whatsapp gateway responded with status %d", resp.StatusCode)
	}

	logger.Info("whatsapp notification delivered", logger.Fields{
		"reference": transfer.Reference,
		"phone":     phone,
	})

	return nil
}

// NormalizePhone converts a locally formatted phone number to E.164. Numbers
// without a country prefix get +226 for Burkina senders and +1 for USA ones.
func NormalizePhone(phone, country string) string {
	trimmed := strings.TrimSpace(phone)
	hadPlus := strings.HasPrefix(trimmed, "+")

	var digits strings.Builder
	for _, ch := range trimmed {
		if ch >= '0' && ch <= '9' {
			digits.WriteRune(ch)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}

	if hadPlus {
		return "+" + number
	}

	switch {
	case len(number) == 11 && strings.HasPrefix(number, "226"):
		return "+" + number
	case len(number) == 11 && strings.HasPrefix(number, "1"):
		return "+" + number
	case len(number) == 8 && domain.IsBurkinaCountry(country):
		return "+226" + number
	case len(number) == 10 && domain.IsUSACountry(country):
		return "+1" + number
	case len(number) == 8:
		// Local Burkina numbers are 8 digits regardless of the stored country
		// string.
		return "+226" + number
	case len(number) == 10:
		return "+1" + number
	default:
		return "+" + number
	}
}
