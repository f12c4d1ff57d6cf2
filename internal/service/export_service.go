package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/excel"
	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/pdf"
	"github.com/hieuld/liftcare/internal/repository"
)

type PDFGenerator interface {
	Generate(log pdf.VisitLog) ([]byte, error)
}

type ExcelGenerator interface {
	Generate(summaries []excel.ContractSummary) ([]byte, error)
}

// ExportService produces the secondary office documents: the per-customer
// visit log as PDF and the contract overview workbook.
type ExportService struct {
	customers *repository.CustomerRepository
	contracts *repository.ContractRepository
	history   *repository.HistoryRepository
	pdf       PDFGenerator
	excel     ExcelGenerator
}

func NewExportService(
	customers *repository.CustomerRepository,
	contracts *repository.ContractRepository,
	history *repository.HistoryRepository,
	pdfGen PDFGenerator,
	excelGen ExcelGenerator,
) *ExportService {
	return &ExportService{
		customers: customers,
		contracts: contracts,
		history:   history,
		pdf:       pdfGen,
		excel:     excelGen,
	}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func (s *ExportService) VisitLogPDF(ctx context.Context, customerID uuid.UUID) (*ExportResult, error) {
	customer, err := s.customers.GetActive(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ids, err := s.customers.HistoryIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(pdf.VisitLog{
		CustomerName: customer.CustomerName,
		CompanyName:  customer.CompanyName,
		Address:      customer.Address,
		Entries:      entries,
	})
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("lich-su-%s-%s.pdf", sanitizeFileName(customer.CustomerName), time.Now().Format("20060102")),
		Content:  content,
	}, nil
}

func (s *ExportService) ContractsWorkbook(ctx context.Context) (*ExportResult, error) {
	customers, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]excel.ContractSummary, 0, len(customers))
	for _, customer := range customers {
		ids, err := s.customers.ContractIDs(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		contracts, err := s.contracts.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		active := make([]model.MaintenanceContract, 0, len(contracts))
		for _, contract := range contracts {
			if contract.IsDeleted {
				continue
			}
			equipment, err := s.contracts.Equipment(ctx, contract.ID)
			if err != nil {
				return nil, err
			}
			contract.EquipmentItems = equipment
			active = append(active, contract)
		}
		if len(active) == 0 {
			continue
		}
		summaries = append(summaries, excel.ContractSummary{
			Customer:  customer,
			Contracts: active,
		})
	}

	content, err := s.excel.Generate(summaries)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: fmt.Sprintf("hop-dong-%s.xlsx", time.Now().Format("20060102")),
		Content:  content,
	}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return string(result)
}
