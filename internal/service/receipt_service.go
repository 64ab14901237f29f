package service

import (
	"context"
	"strings"

	"app/internal/api/v1/dto"
	"app/internal/model"

	"github.com/rs/zerolog"
)

// ReceiptService routes an inbound email payload to the vendor pipeline whose
// identifying substring appears in the HTML body. First match wins, in fixed
// priority order; a body matching no vendor is dropped without error.
type ReceiptService interface {
	ProcessInbound(ctx context.Context, payload *dto.EmailPayload)
}

type receiptService struct {
	digiKey     DigiKeyService
	attachments AttachmentService
	mcMaster    model.Vendor
	topKart     model.Vendor
	logger      zerolog.Logger
}

func NewReceiptService(digiKey DigiKeyService, attachments AttachmentService, mcMaster, topKart model.Vendor, logger zerolog.Logger) ReceiptService {
	return &receiptService{
		digiKey:     digiKey,
		attachments: attachments,
		mcMaster:    mcMaster,
		topKart:     topKart,
		logger:      logger.With().Str("service", "ReceiptService").Logger(),
	}
}

func (s *receiptService) ProcessInbound(ctx context.Context, payload *dto.EmailPayload) {
	htmlBody := ""
	if payload.HTMLBody != nil {
		htmlBody = *payload.HTMLBody
	}

	switch {
	case strings.Contains(htmlBody, "digikey"):
		s.digiKey.ProcessEmail(ctx, htmlBody)
	case strings.Contains(htmlBody, "mcmaster"):
		s.attachments.ProcessAttachments(ctx, s.mcMaster, payload.Attachments)
	case strings.Contains(htmlBody, "topkart"):
		s.attachments.ProcessAttachments(ctx, s.topKart, payload.Attachments)
	default:
		s.logger.Debug().Msg("Inbound email matched no supported vendor")
	}
}
