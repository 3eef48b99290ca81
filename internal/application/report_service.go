package application

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/perfectlystyled/service-checkout/internal/adapter"
	"github.com/perfectlystyled/service-checkout/internal/domain/report"
)

// ProcessReportRequest is the DTO for the paid report flow.
type ProcessReportRequest struct {
	QuestionnaireData *report.Questionnaire `json:"questionnaireData"`
	PaymentData       *SettlePaymentRequest `json:"paymentData"`
	Email             string                `json:"email"`
}

// ReportService settles a payment and delivers the style report it paid for.
type ReportService struct {
	settlement *SettlementService
	archive    adapter.ReportArchive
	mailer     adapter.Mailer
	now        func() time.Time
	logger     *zap.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	settlement *SettlementService,
	archive adapter.ReportArchive,
	mailer adapter.Mailer,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		settlement: settlement,
		archive:    archive,
		mailer:     mailer,
		now:        time.Now,
		logger:     logger,
	}
}

// ProcessReport validates the request, settles the payment, assembles the
// report, then archives and mails it. Archive and mail failures are logged
// and do not fail the request.
func (s *ReportService) ProcessReport(ctx context.Context, req ProcessReportRequest) (*report.UserReport, error) {
	if err := req.QuestionnaireData.Validate(); err != nil {
		return nil, err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return nil, ErrInvalidEmail.WithCause(err)
	}
	email := addr.Address
	if req.PaymentData == nil {
		return nil, ErrIncompletePayment
	}

	payment := *req.PaymentData
	payment.PayerEmail = &email
	o, err := s.settlement.Settle(ctx, payment)
	if err != nil {
		return nil, err
	}

	content := report.Assemble(*req.QuestionnaireData)
	result := &report.UserReport{
		Recommendations:   content,
		QuestionnaireData: *req.QuestionnaireData,
		RecipientEmail:    email,
		GeneratedAt:       s.now().UTC(),
	}

	location, err := s.archive.Archive(ctx, o.OrderID, content)
	if err != nil {
		s.logger.Warn("failed to archive report", zap.String("order_id", o.OrderID), zap.Error(err))
	}
	result.ArchiveLocation = location

	if err := s.mailer.SendReport(ctx, email, content); err != nil {
		s.logger.Warn("failed to send report", zap.String("order_id", o.OrderID), zap.Error(err))
	}

	s.logger.Info("report generated",
		zap.String("order_id", o.OrderID),
		zap.Int("report_length", len(content)),
	)
	return result, nil
}
