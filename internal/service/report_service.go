package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/marketpay/internal/config"
	"github.com/nurpe/marketpay/internal/model"
)

type ExcelGenerator interface {
	Generate(report model.PaymentsReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(statement model.Statement) ([]byte, error)
}

// ReportService answers the admin aggregation queries over already-paid
// jobs. The queries are plain reads of the committed snapshot; a payment
// landing mid-query simply shows up in the next report.
type ReportService struct {
	store        ReportStore
	excel        ExcelGenerator
	pdf          PDFGenerator
	defaultLimit int
}

func NewReportService(store ReportStore, excel ExcelGenerator, pdf PDFGenerator, cfg *config.Config) *ReportService {
	return &ReportService{
		store:        store,
		excel:        excel,
		pdf:          pdf,
		defaultLimit: cfg.Ledger.BestClientsLimit,
	}
}

type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func (w TimeWindow) validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if w.Start.After(w.End) {
		return fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	return nil
}

// BestProfession returns the profession that earned the most over the
// window, or nil when no job was paid in it. Groups are walked in the
// order the store yields them (earliest first payment first) and a later
// group wins only with a strictly greater total, so the earliest group
// among equal maxima is kept.
func (s *ReportService) BestProfession(ctx context.Context, window TimeWindow) (*model.ProfessionTotal, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}

	totals, err := s.store.ProfessionTotals(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	var best *model.ProfessionTotal
	for i := range totals {
		if best == nil || totals[i].Total > best.Total {
			best = &totals[i]
		}
	}
	return best, nil
}

// BestClients returns the top paying clients over the window in
// descending order of total paid. A non-positive limit falls back to the
// configured default.
func (s *ReportService) BestClients(ctx context.Context, window TimeWindow, limit int) ([]model.ClientTotal, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return s.store.ClientTotals(ctx, window.Start, window.End, limit)
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// ExportPayments builds an xlsx workbook with the full profession and
// client totals for the window.
func (s *ReportService) ExportPayments(ctx context.Context, window TimeWindow) (*ExportResult, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}

	professions, err := s.store.ProfessionTotals(ctx, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	clients, err := s.store.ClientTotals(ctx, window.Start, window.End, 0)
	if err != nil {
		return nil, err
	}

	report := model.PaymentsReport{
		PeriodStart: window.Start,
		PeriodEnd:   window.End,
		Professions: professions,
		Clients:     clients,
	}

	content, err := s.excel.Generate(report)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("payments-%s-%s.xlsx",
		window.Start.Format("20060102"), window.End.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}

// ClientStatement renders a PDF statement of the client's paid jobs in
// the window together with the current balance.
func (s *ReportService) ClientStatement(ctx context.Context, clientID uuid.UUID, window TimeWindow) (*ExportResult, error) {
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if err := window.validate(); err != nil {
		return nil, err
	}

	client, err := s.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.ListPaidJobsForClient(ctx, clientID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, line := range lines {
		total += line.Price
	}

	statement := model.Statement{
		Client:      *client,
		PeriodStart: window.Start,
		PeriodEnd:   window.End,
		Lines:       lines,
		TotalPaid:   total,
	}

	content, err := s.pdf.Generate(statement)
	if err != nil {
		return nil, err
	}

	fileName := fmt.Sprintf("statement-%s-%s-%s.pdf",
		clientID, window.Start.Format("20060102"), window.End.Format("20060102"))
	return &ExportResult{FileName: fileName, Content: content}, nil
}
