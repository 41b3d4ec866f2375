package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/BillyHamid/backendGlobal/internal/domain"
	"github.com/BillyHamid/backendGlobal/internal/logger"
	"github.com/BillyHamid/backendGlobal/internal/usecase/service_interfaces"
)

// webhookTimeout bounds every outbound notification call.
const webhookTimeout = 15 * time.Second

// PushNotifier delivers transfer events to the push gateway webhook. A zero
// webhook URL disables delivery.
type PushNotifier struct {
	webhookURL string
	client     *http.Client
}

var _ service_interfaces.PushNotifier = (*PushNotifier)(nil)

func NewPushNotifier(webhookURL string) *PushNotifier {
	return &PushNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

type pushPayload struct {
	Event              string `json:"event"`
	Reference          string `json:"reference"`
	SenderName         string `json:"senderName"`
	BeneficiaryName    string `json:"beneficiaryName"`
	BeneficiaryCountry string `json:"beneficiaryCountry"`
	BeneficiaryCity    string `json:"beneficiaryCity"`
	AmountReceived     string `json:"amountReceived"`
	CurrencyReceived   string `json:"currencyReceived"`
}

func (n *PushNotifier) TransferCreated(ctx context.Context, transfer domain.Transfer) error {
	return n.send(ctx, pushPayload{
		Event:              "transfer.created",
		Reference:          transfer.Reference,
		SenderName:         transfer.SenderName,
		BeneficiaryName:    transfer.BeneficiaryName,
		BeneficiaryCountry: transfer.BeneficiaryCountry,
		BeneficiaryCity:    transfer.BeneficiaryCity,
		AmountReceived:     transfer.AmountReceived.String(),
		CurrencyReceived:   string(transfer.CurrencyReceived),
	})
}

func (n *PushNotifier) TransferPaid(ctx context.Context, transfer domain.Transfer) error {
	return n.send(ctx, pushPayload{
		Event:              "transfer.paid",
		Reference:          transfer.Reference,
		SenderName:         transfer.SenderName,
		BeneficiaryName:    transfer.BeneficiaryName,
		BeneficiaryCountry: transfer.BeneficiaryCountry,
		BeneficiaryCity:    transfer.BeneficiaryCity,
		AmountReceived:     transfer.AmountReceived.String(),
		CurrencyReceived:   string(transfer.CurrencyReceived),
	})
}

func (n *PushNotifier) send(ctx context.Context, payload pushPayload) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("push gateway responded with status %d", resp.StatusCode)
	}

	logger.Info("push notification delivered", logger.Fields{
		"event":     payload.Event,
		"reference": payload.Reference,
	})

	return nil
}
