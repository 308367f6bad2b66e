package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rings-s/anha/internal/common"
	"github.com/rings-s/anha/internal/models"
	"github.com/rings-s/anha/internal/repositories"
)

const exportBatchLimit = 500

// ReportServiceInterface produces admin exports of booking data.
type ReportServiceInterface interface {
	ExportBookingsXLSX(ctx context.Context, actor *models.Identity) (*bytes.Buffer, error)
}

type reportService struct {
	bookingRepo repositories.BookingRepository
	serviceRepo repositories.ServiceRepository
	userRepo    repositories.UserRepository
}

func NewReportService(
	bookingRepo repositories.BookingRepository,
	serviceRepo repositories.ServiceRepository,
	userRepo repositories.UserRepository,
) ReportServiceInterface {
	return &reportService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
	}
}

// ExportBookingsXLSX renders every booking into a workbook with one
// sheet per status, client and service names resolved inline.
func (s *reportService) ExportBookingsXLSX(ctx context.Context, actor *models.Identity) (*bytes.Buffer, error) {
	if !Allows(actor.Role, ActionManageBookings) {
		return nil, common.ErrForbidden
	}

	bookings, err := s.fetchAllBookings(ctx)
	if err != nil {
		return nil, err
	}

	serviceNames, err := s.serviceNameIndex(ctx)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	byStatus := make(map[models.BookingStatus][]*models.Booking)
	for _, b := range bookings {
		byStatus[b.Status] = append(byStatus[b.Status], b)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	clientNames := make(map[uuid.UUID]string)

	// Sheets in lifecycle order; statuses with no bookings are skipped.
	for _, status := range models.AllBookingStatuses {
		rows := byStatus[status]
		if len(rows) == 0 {
			continue
		}
		sheet := string(status)
		if _, err := file.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}

		headers := []string{"Booking ID", "Created", "Service", "Client", "Contact Phone", "Price", "Address", "Assigned To"}
		if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
			return nil, fmt.Errorf("write headers: %w", err)
		}
		if err := file.SetCellStyle(sheet, "A1", "H1", headerStyle); err != nil {
			return nil, fmt.Errorf("style headers: %w", err)
		}
		widths := map[string]float64{"A": 38, "B": 18, "C": 30, "D": 30, "E": 18, "F": 12, "G": 40, "H": 30}
		for col, width := range widths {
			if err := file.SetColWidth(sheet, col, col, width); err != nil {
				return nil, fmt.Errorf("set column width: %w", err)
			}
		}

		for i, b := range rows {
			clientName, err := s.resolveName(ctx, clientNames, b.ClientID)
			if err != nil {
				return nil, err
			}
			assignedName := ""
			if b.AssignedEmployeeID != nil {
				if assignedName, err = s.resolveName(ctx, clientNames, *b.AssignedEmployeeID); err != nil {
					return nil, err
				}
			}
			rowData := []interface{}{
				b.ID.String(),
				b.CreatedAt.Format("2006-01-02 15:04"),
				serviceNames[b.ServiceID],
				clientName,
				b.ContactPhone,
				b.Price,
				b.AddressText,
				assignedName,
			}
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := file.SetSheetRow(sheet, cell, &rowData); err != nil {
				return nil, fmt.Errorf("write row %d: %w", i+2, err)
			}
		}
	}

	file.SetActiveSheet(0)
	if idx, _ := file.GetSheetIndex("Sheet1"); idx != -1 {
		if err := file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("delete default sheet: %w", err)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buffer, nil
}

func (s *reportService) fetchAllBookings(ctx context.Context) ([]*models.Booking, error) {
	var all []*models.Booking
	offset := 0
	for {
		page, err := s.bookingRepo.List(ctx, &models.BookingFilter{Limit: exportBatchLimit, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		all = append(all, page...)
		if len(page) < exportBatchLimit {
			return all, nil
		}
		offset += exportBatchLimit
	}
}

func (s *reportService) serviceNameIndex(ctx context.Context) (map[uuid.UUID]string, error) {
	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	names := make(map[uuid.UUID]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.NameAr
	}
	return names, nil
}

func (s *reportService) resolveName(ctx context.Context, cache map[uuid.UUID]string, id uuid.UUID) (string, error) {
	if name, ok := cache[id]; ok {
		return name, nil
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("look up user: %w", err)
	}
	name := ""
	if user != nil {
		name = user.FullName
	}
	cache[id] = name
	return name, nil
}
