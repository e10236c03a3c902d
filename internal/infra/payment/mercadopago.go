package payment

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/GHanamaAhmed/cancer-detection/internal/models"
)

type MercadoPagoCheckout struct {
	client          preference.Client
	notificationURL string
}

func NewMercadoPagoCheckout(accessToken, notificationURL string) (*MercadoPagoCheckout, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoCheckout{
		client:          preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// CreateCheckout opens a checkout preference for one consultation. The
// appointment ID is the external reference used to reconcile payments.
func (m *MercadoPagoCheckout) CreateCheckout(
	ctx context.Context,
	ap *models.Appointment,
	svc *models.ConsultationService,
) (string, string, error) {

	req := BuildPreference(ap, svc, m.notificationURL)

	res, err := m.client.Create(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("mercadopago create preference: %w", err)
	}

	return res.ID, res.InitPoint, nil
}

func BuildPreference(ap *models.Appointment, svc *models.ConsultationService, notificationURL string) preference.Request {
	return preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         strconv.FormatUint(uint64(svc.ID), 10),
				Title:      svc.Name,
				Quantity:   1,
				UnitPrice:  svc.Price,
				CurrencyID: svc.Currency,
			},
		},
		ExternalReference: strconv.FormatUint(uint64(ap.ID), 10),
		NotificationURL:   notificationURL,
	}
}
