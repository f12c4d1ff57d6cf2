package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/hieuld/liftcare/internal/docx"
	"github.com/hieuld/liftcare/internal/model"
	"github.com/hieuld/liftcare/internal/repository"
)

// DefaultMaintenanceContents is the full visit checklist printed on the
// report form, in form order.
var DefaultMaintenanceContents = []string{
	"Kiểm tra máy kéo",
	"Vệ sinh nóc car",
	"Kiểm tra tủ điện",
	"Kiểm tra đầu cửa car",
	"Vệ sinh phòng máy",
	"Kiểm tra hệ thống thông gió",
	"Kiểm tra cáp",
	"Kiểm tra hệ thống chiếu sáng",
	"Kiểm tra nhớt bôi trơn rail dẫn hướng",
	"Vệ sinh trần car",
	"Kiểm tra hệ thống điều khiển bên ngoài",
	"Vệ sinh sill và Cabin thang máy",
	"Vệ sinh sill cửa tầng và cửa tầng",
	"Kiểm tra và vệ sinh pít hố thang",
}

const (
	checkboxChecked   = "☑"
	checkboxUnchecked = "☐"
)

type ReportService struct {
	db        *gorm.DB
	customers *repository.CustomerRepository
	contracts *repository.ContractRepository
	history   *repository.HistoryRepository
	template  *docx.Template
	outputDir string
	log       zerolog.Logger
}

func NewReportService(
	db *gorm.DB,
	customers *repository.CustomerRepository,
	contracts *repository.ContractRepository,
	history *repository.HistoryRepository,
	template *docx.Template,
	outputDir string,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		db:        db,
		customers: customers,
		contracts: contracts,
		history:   history,
		template:  template,
		outputDir: outputDir,
		log:       log,
	}
}

// Candidate is a (customer, contract) pair due for a visit report in the
// current period.
type Candidate struct {
	CustomerID              uuid.UUID        `json:"customerId"`
	CustomerName            string           `json:"customerName"`
	CompanyName             string           `json:"companyName"`
	Address                 string           `json:"address"`
	ContractID              uuid.UUID        `json:"contractId"`
	ContractNumber          string           `json:"contractNumber"`
	StartDate               time.Time        `json:"startDate"`
	EndDate                 time.Time        `json:"endDate"`
	EquipmentItems          []model.Elevator `json:"equipmentItems"`
	LastMaintenanceContents []string         `json:"lastMaintenanceContents"`
	IsWarrantyOnly          bool             `json:"isWarrantyOnly"`
}

type GenerateRequest struct {
	CustomerID          uuid.UUID      `json:"-"`
	ContractID          *uuid.UUID     `json:"-"`
	TaskType            model.TaskType `json:"taskType"`
	VisitDate           time.Time      `json:"-"`
	MaintenanceContents []string       `json:"maintenanceContents"`
}

// Candidates selects every active contract whose period covers today and that
// has at least one equipment line item. The previous visit's checklist, when
// one exists, is offered as the content default.
func (s *ReportService) Candidates(ctx context.Context) ([]Candidate, error) {
	now := time.Now()
	customers, err := s.customers.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := []Candidate{}
	for _, customer := range customers {
		contractIDs, err := s.customers.ContractIDs(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		contracts, err := s.contracts.ListByIDs(ctx, contractIDs)
		if err != nil {
			return nil, err
		}

		historyIDs, err := s.customers.HistoryIDs(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		lastEntry, err := s.history.LatestActiveIn(ctx, historyIDs)
		if err != nil {
			return nil, err
		}
		var lastContents []string
		if lastEntry != nil {
			lastContents = lastEntry.MaintenanceContents
		}

		for _, contract := range contracts {
			if contract.IsDeleted {
				continue
			}
			if contract.StartDate.After(now) || contract.EndDate.Before(now) {
				continue
			}
			equipment, err := s.contracts.Equipment(ctx, contract.ID)
			if err != nil {
				return nil, err
			}
			if len(equipment) == 0 {
				continue
			}
			number := ""
			if contract.ContractNumber != nil {
				number = *contract.ContractNumber
			}
			result = append(result, Candidate{
				CustomerID:              customer.ID,
				CustomerName:            customer.CustomerName,
				CompanyName:             customer.CompanyName,
				Address:                 customer.Address,
				ContractID:              contract.ID,
				ContractNumber:          number,
				StartDate:               contract.StartDate,
				EndDate:                 contract.EndDate,
				EquipmentItems:          equipment,
				LastMaintenanceContents: lastContents,
				IsWarrantyOnly:          contract.WarrantyOnly,
			})
		}
	}
	return result, nil
}

// Generate renders one report per request, merges them into a single file
// named after the first visit's month and year, and records a history entry
// per rendered report. Requests whose customer or contract cannot be resolved
// are skipped, not fatal.
func (s *ReportService) Generate(ctx context.Context, requests []GenerateRequest) ([]string, error) {
	for i, req := range requests {
		if !req.TaskType.Valid() {
			return nil, fmt.Errorf("%w: requests[%d]: unknown task type %q", ErrInvalidInput, i, req.TaskType)
		}
		if req.VisitDate.IsZero() {
			return nil, fmt.Errorf("%w: requests[%d]: visitDate is required", ErrInvalidInput, i)
		}
	}
	if len(requests) == 0 {
		return []string{}, nil
	}

	customerIDs := make([]uuid.UUID, 0, len(requests))
	seen := map[uuid.UUID]bool{}
	for _, req := range requests {
		if !seen[req.CustomerID] {
			seen[req.CustomerID] = true
			customerIDs = append(customerIDs, req.CustomerID)
		}
	}

	customers, err := s.customers.ListByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}
	customerMap := make(map[uuid.UUID]model.Customer, len(customers))
	contractMap := make(map[uuid.UUID][]model.MaintenanceContract, len(customers))
	seqMap := make(map[uuid.UUID]int, len(customers))
	for _, customer := range customers {
		customerMap[customer.ID] = customer

		contractIDs, err := s.customers.ContractIDs(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		contracts, err := s.contracts.ListByIDs(ctx, contractIDs)
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
		contractMap[customer.ID] = active

		historyIDs, err := s.customers.HistoryIDs(ctx, customer.ID)
		if err != nil {
			return nil, err
		}
		count, err := s.history.CountActiveIn(ctx, historyIDs)
		if err != nil {
			return nil, err
		}
		seqMap[customer.ID] = int(count) + 1
	}

	rendered := make([]*docx.Document, 0, len(requests))
	for _, req := range requests {
		customer, ok := customerMap[req.CustomerID]
		if !ok {
			s.log.Warn().Str("customer_id", req.CustomerID.String()).Msg("report request skipped: customer not found")
			continue
		}

		var contract *model.MaintenanceContract
		if req.ContractID != nil {
			for i := range contractMap[customer.ID] {
				if contractMap[customer.ID][i].ID == *req.ContractID {
					contract = &contractMap[customer.ID][i]
					break
				}
			}
			if contract == nil {
				s.log.Warn().
					Str("customer_id", req.CustomerID.String()).
					Str("contract_id", req.ContractID.String()).
					Msg("report request skipped: contract not found")
				continue
			}
		}

		sequence := seqMap[customer.ID]
		contents := req.MaintenanceContents
		if contents == nil {
			contents = DefaultMaintenanceContents
		}

		doc := s.template.Render(reportFields(customer, contract, req, sequence, contents))
		rendered = append(rendered, doc)

		entry := &model.WarrantyHistoryEntry{
			SequenceNumber:      sequence,
			Date:                req.VisitDate,
			TaskType:            req.TaskType,
			MaintenanceContents: model.StringList(contents),
		}
		if contract != nil {
			entry.ContractID = &contract.ID
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.history.WithTx(tx).Create(ctx, entry); err != nil {
				return err
			}
			return s.customers.WithTx(tx).AppendHistory(ctx, customer.ID, entry.ID)
		})
		if err != nil {
			return nil, err
		}
		// Consecutive numbers for repeated customers within one batch.
		seqMap[customer.ID] = sequence + 1
	}

	if len(rendered) == 0 {
		return []string{}, nil
	}

	merged, err := docx.Merge(rendered)
	if err != nil {
		return nil, err
	}
	content, err := merged.Bytes()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, err
	}
	visit := requests[0].VisitDate
	name := fmt.Sprintf("phieu_bao_hanh_bao_tri_thang_%d_%d.docx", int(visit.Month()), visit.Year())
	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, err
	}

	s.log.Info().Int("reports", len(rendered)).Str("file", path).Msg("report batch generated")
	return []string{path}, nil
}

func reportFields(
	customer model.Customer,
	contract *model.MaintenanceContract,
	req GenerateRequest,
	sequence int,
	contents []string,
) map[string]string {
	selected := make(map[string]bool, len(contents))
	for _, content := range contents {
		selected[content] = true
	}
	check := func(label string) string {
		if selected[label] {
			return checkboxChecked
		}
		return checkboxUnchecked
	}
	task := func(t model.TaskType) string {
		if req.TaskType == t {
			return checkboxChecked
		}
		return checkboxUnchecked
	}

	var equipment []model.Elevator
	contractNumber := ""
	startDate := formatReportDate(customer.AcceptanceSigningDate)
	if contract != nil {
		equipment = contract.EquipmentItems
		if contract.ContractNumber != nil {
			contractNumber = *contract.ContractNumber
		}
		startDate = formatReportDate(&contract.StartDate)
	}

	totalElevators := 0
	for _, item := range equipment {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		totalElevators += quantity
	}

	fields := map[string]string{
		"no":                strconv.Itoa(sequence),
		"customerName":      customer.CustomerName,
		"companyName":       customer.CompanyName,
		"address":           customer.Address,
		"isBT":              task(model.TaskTypeMaintenance),
		"isBH":              task(model.TaskTypeWarranty),
		"isKhac":            task(model.TaskTypeOther),
		"isKH_YC":           task(model.TaskTypeCustomerRequestedRepair),
		"isCty_YC":          task(model.TaskTypeCompanyRequestedRepair),
		"contractNumber":    contractNumber,
		"startDate":         startDate,
		"equipmentItems":    formatEquipmentItems(equipment),
		"numberOfElevators": strconv.Itoa(totalElevators),
		"month":             strconv.Itoa(int(req.VisitDate.Month())),
		"year":              strconv.Itoa(req.VisitDate.Year()),
	}
	// The form prints the checklist in two columns: odd items down the left,
	// even items down the right.
	for i := 0; i < 7; i++ {
		fields["ck"+strconv.Itoa(i+1)] = check(DefaultMaintenanceContents[i*2])
		fields["ck"+strconv.Itoa(i+8)] = check(DefaultMaintenanceContents[i*2+1])
	}
	return fields
}

// formatEquipmentItems renders the equipment list as the form expects:
// one line per item, continuation lines indented to the field column.
func formatEquipmentItems(items []model.Elevator) string {
	if len(items) == 0 {
		return ""
	}
	indent := strings.Repeat(" ", 17)
	lines := make([]string, 0, len(items))
	for i, item := range items {
		prefix := ""
		if item.Quantity > 1 {
			prefix = fmt.Sprintf("%d x ", item.Quantity)
		}
		line := fmt.Sprintf("%sThang máy tải trọng %skg, %d điểm dừng",
			prefix, item.Weight.String(), item.NumberOfStops)
		if i > 0 {
			line = indent + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatReportDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
