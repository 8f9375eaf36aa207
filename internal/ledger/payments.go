package ledger

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/minibank/internal/domain"
	"go.uber.org/zap"
)

var (
	upiIDPattern  = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// BillRequest pays a bill to a provider of a catalogue service.
type BillRequest struct {
	// Service is the catalogue type ("electricity") or title ("Electricity").
	Service    string
	Provider   string
	ConsumerID string
	Amount     decimal.Decimal
}

// TransferMethod selects how the recipient is addressed.
type TransferMethod string

const (
	TransferUPI    TransferMethod = "upi"
	TransferMobile TransferMethod = "mobile"
	TransferQR     TransferMethod = "qr"
)

// TransferRequest sends money to a UPI id or a mobile number.
type TransferRequest struct {
	Method    TransferMethod
	Recipient string
	Amount    decimal.Decimal
}

// PayBill debits the balance and records a bill transaction.
func (s *Service) PayBill(ctx context.Context, req BillRequest) (domain.Transaction, error) {
	const op = "pay_bill"

	s.mu.Lock()
	defer s.mu.Unlock()

	service, provider, err := validateBill(req)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	user, err := debit(current.user, req.Amount)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}

	s.logger.Debug("paying bill",
		zap.String("service", service.Type),
		zap.String("provider", provider),
		zap.String("consumer_id", req.ConsumerID))

	return s.record(ctx, op, current, outcome{
		user: user,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeBill,
			Category:    service.Title,
			Amount:      req.Amount,
			Description: service.Title + " Bill Payment",
			To:          provider,
		},
	})
}

func validateBill(req BillRequest) (BillService, string, error) {
	service, ok := findService(req.Service)
	if !ok {
		return BillService{}, "", reject(ReasonUnknownService, "Unknown bill service %q", req.Service)
	}
	if strings.TrimSpace(req.Provider) == "" {
		return BillService{}, "", reject(ReasonMissingProvider, "Please select a provider")
	}
	provider, ok := service.provider(req.Provider)
	if !ok {
		return BillService{}, "", reject(ReasonUnknownProvider, "%s is not a %s provider", req.Provider, service.Title)
	}
	if strings.TrimSpace(req.ConsumerID) == "" {
		return BillService{}, "", reject(ReasonMissingConsumerID, "Please enter Consumer ID / Mobile Number")
	}
	if err := validAmount(req.Amount); err != nil {
		return BillService{}, "", err
	}

	return service, provider, nil
}

// Transfer debits the balance and records a UPI transaction to the recipient.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (domain.Transaction, error) {
	const op = "transfer"

	s.mu.Lock()
	defer s.mu.Unlock()

	recipient, err := validateTransfer(req)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}

	current, err := s.load(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}

	user, err := debit(current.user, req.Amount)
	if err != nil {
		return domain.Transaction{}, s.rejected(op, err)
	}

	return s.record(ctx, op, current, outcome{
		user: user,
		tx: domain.Transaction{
			Type:        domain.TransactionTypeUPI,
			Amount:      req.Amount,
			Description: "UPI Transfer to " + recipient,
			From:        current.user.Email,
			To:          recipient,
		},
	})
}

func validateTransfer(req TransferRequest) (string, error) {
	recipient := strings.TrimSpace(req.Recipient)

	switch req.Method {
	case TransferUPI:
		if recipient == "" {
			return "", reject(ReasonMissingRecipient, "Please enter UPI ID")
		}
		if !upiIDPattern.MatchString(recipient) {
			return "", reject(ReasonInvalidRecipient, "Invalid UPI ID format (e.g., user@bank)")
		}
	case TransferMobile:
		if recipient == "" {
			return "", reject(ReasonMissingRecipient, "Please enter mobile number")
		}
		if !mobilePattern.MatchString(recipient) {
			return "", reject(ReasonInvalidRecipient, "Invalid mobile number")
		}
	case TransferQR:
		return "", reject(ReasonUnsupportedMethod, "QR Code scanning is simulated in this demo")
	default:
		return "", reject(ReasonUnsupportedMethod, "Unknown payment method %q", req.Method)
	}

	if err := validAmount(req.Amount); err != nil {
		return "", err
	}

	return recipient, nil
}
