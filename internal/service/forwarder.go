package service

import (
	"context"
	"fmt"

	"app/internal/model"

	"github.com/rs/zerolog"
)

// Forwarder sends one PDF to the receipt-intake address using a vendor template.
type Forwarder interface {
	ForwardPDF(ctx context.Context, vendor model.Vendor, contentBase64 string) error
}

type forwarder struct {
	email  EmailClient
	to     string
	logger zerolog.Logger
}

func NewForwarder(email EmailClient, receiptAddress string, logger zerolog.Logger) Forwarder {
	return &forwarder{
		email:  email,
		to:     receiptAddress,
		logger: logger.With().Str("service", "Forwarder").Logger(),
	}
}

func (f *forwarder) ForwardPDF(ctx context.Context, vendor model.Vendor, contentBase64 string) error {
	msg := &PostmarkMessage{
		From:          vendor.SenderAddress,
		To:            f.to,
		Subject:       vendor.Subject,
		TextBody:      vendor.TextBody,
		MessageStream: "outbound",
		Attachments: []PostmarkAttachment{
			{
				Name:        vendor.AttachmentName,
				Content:     contentBase64,
				ContentType: "application/pdf",
			},
		},
	}

	if err := f.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("forwarding %s PDF: %w", vendor.Name, err)
	}

	f.logger.Info().Str("vendor", vendor.Name).Msg("Forwarded PDF to receipt intake")
	return nil
}
