package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

// ReportService exports service histories as spreadsheets
type ReportService interface {
	// ServicesReport renders the filtered services into an xlsx
	// workbook and returns the file contents.
	ServicesReport(ctx context.Context, filter port.ServiceFilter) ([]byte, error)
}

type reportServiceImpl struct {
	workflow WorkflowService
	logger   Logger
}

// NewReportService creates a new ReportService
func NewReportService(workflow WorkflowService, logger Logger) ReportService {
	return &reportServiceImpl{workflow: workflow, logger: logger}
}

var reportHeader = []string{
	"Service ID", "Type", "Client", "Machine Serial",
	"Maintenance Type", "Problem", "Steps Done", "Steps Total", "Opened At",
}

func (s *reportServiceImpl) ServicesReport(ctx context.Context, filter port.ServiceFilter) ([]byte, error) {
	services, err := s.workflow.ListServices(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Services"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for i, svc := range services {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]interface{}{
			svc.ID,
			svc.Type.String(),
			clientName(svc),
			machineSerial(svc),
			maintenanceType(svc),
			problemDescription(svc),
			completedSteps(svc.Steps),
			len(svc.Steps),
			svc.CreatedAt.Format("2006-01-02 15:04"),
		}); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("Services report generated", "services", len(services))
	return buf.Bytes(), nil
}

func clientName(svc *entity.Service) string {
	if svc.Client != nil {
		return svc.Client.Name
	}
	return ""
}

func machineSerial(svc *entity.Service) string {
	if svc.Machine != nil {
		return svc.Machine.SerialNumber
	}
	return ""
}

func maintenanceType(svc *entity.Service) string {
	if svc.Maintenance != nil {
		return svc.Maintenance.Type.String()
	}
	return ""
}

func problemDescription(svc *entity.Service) string {
	if svc.Maintenance != nil {
		return svc.Maintenance.ProblemDescription
	}
	return ""
}

func completedSteps(steps []*entity.ServiceStep) int {
	n := 0
	for _, step := range steps {
		if step.Status == workflow.StepCompleted {
			n++
		}
	}
	return n
}
