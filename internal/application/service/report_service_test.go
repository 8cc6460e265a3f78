package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/intersul/copimanager/internal/application/port"
	"github.com/intersul/copimanager/internal/domain/entity"
	"github.com/intersul/copimanager/internal/domain/workflow"
)

type stubWorkflowService struct {
	WorkflowService
	services []*entity.Service
}

func (s *stubWorkflowService) ListServices(ctx context.Context, filter port.ServiceFilter) ([]*entity.Service, error) {
	return s.services, nil
}

func TestReportService_ServicesReport(t *testing.T) {
	workflowStub := &stubWorkflowService{services: []*entity.Service{
		{
			ID:       1,
			Type:     workflow.ServiceMaintenance,
			ClientID: 1,
			Client:   &entity.Client{ID: 1, Name: "ACME Copiers"},
			Machine:  &entity.ClientCopyMachine{ID: 1, SerialNumber: "SN-100"},
			Maintenance: &entity.Maintenance{
				Type:               workflow.MaintenanceInternal,
				ProblemDescription: "paper jam",
			},
			Steps: []*entity.ServiceStep{
				{Status: workflow.StepCompleted},
				{Status: workflow.StepInProgress},
				{Status: workflow.StepPending},
			},
		},
	}}

	svc := NewReportService(workflowStub, &mockLogger{})

	data, err := svc.ServicesReport(context.Background(), port.ServiceFilter{})
	if err != nil {
		t.Fatalf("ServicesReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Services")
	if err != nil {
		t.Fatalf("missing Services sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one service", len(rows))
	}

	header := rows[0]
	if header[0] != "Service ID" || header[2] != "Client" {
		t.Errorf("unexpected header: %v", header)
	}

	row := rows[1]
	if row[2] != "ACME Copiers" {
		t.Errorf("client cell = %q", row[2])
	}
	if row[3] != "SN-100" {
		t.Errorf("serial cell = %q", row[3])
	}
	if row[6] != "1" || row[7] != "3" {
		t.Errorf("step counts = %q/%q, want 1/3", row[6], row[7])
	}
}

func TestReportService_EmptyReport(t *testing.T) {
	svc := NewReportService(&stubWorkflowService{}, &mockLogger{})

	data, err := svc.ServicesReport(context.Background(), port.ServiceFilter{})
	if err != nil {
		t.Fatalf("ServicesReport() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("report is not a readable workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Services")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("empty report should carry only the header, got %d rows", len(rows))
	}
}
