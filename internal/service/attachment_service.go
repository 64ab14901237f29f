package service

import (
	"context"

	"app/internal/api/v1/dto"
	"app/internal/model"

	"github.com/rs/zerolog"
)

// AttachmentService forwards inbound PDF attachments as-is. Content arrives
// pre-encoded from the upstream mail collaborator and is never re-encoded.
type AttachmentService interface {
	ProcessAttachments(ctx context.Context, vendor model.Vendor, attachments []dto.Attachment)
}

type attachmentService struct {
	forwarder Forwarder
	logger    zerolog.Logger
}

func NewAttachmentService(fwd Forwarder, logger zerolog.Logger) AttachmentService {
	return &attachmentService{
		forwarder: fwd,
		logger:    logger.With().Str("service", "AttachmentService").Logger(),
	}
}

func (s *attachmentService) ProcessAttachments(ctx context.Context, vendor model.Vendor, attachments []dto.Attachment) {
	for _, attachment := range attachments {
		if attachment.ContentType != "application/pdf" && attachment.ContentType != "application/octet-stream" {
			s.logger.Debug().
				Str("vendor", vendor.Name).
				Str("attachment_name", attachment.Name).
				Str("content_type", attachment.ContentType).
				Msg("Skipping non-PDF attachment")
			continue
		}

		// Each matching attachment produces its own forward call.
		if err := s.forwarder.ForwardPDF(ctx, vendor, attachment.Content); err != nil {
			s.logger.Error().Err(err).
				Str("vendor", vendor.Name).
				Str("attachment_name", attachment.Name).
				Msg("Failed to forward attachment")
		}
	}
}
