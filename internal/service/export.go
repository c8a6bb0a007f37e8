package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ExportService renders a fully loaded roster as CSV bytes. Spreadsheet and
// PDF output are produced by external report generators from the same read
// query; CSV is the format this service commits to.
type ExportService struct {
	rosters *RosterService
	log     *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(rosters *RosterService, log *zap.Logger) *ExportService {
	return &ExportService{rosters: rosters, log: log}
}

var csvHeader = []string{
	"staff_name", "staff_email", "position", "start_time", "end_time", "hours", "confirmed", "notes",
}

// RosterCSV loads the roster with shifts and staff joined and renders it.
func (s *ExportService) RosterCSV(tenantID, rosterID uint) ([]byte, string, error) {
	roster, err := s.rosters.GetRosterWithShifts(tenantID, rosterID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, "", err
	}

	for i := range roster.Shifts {
		shift := &roster.Shifts[i]
		record := []string{
			shift.Staff.Name,
			shift.Staff.Email,
			shift.Position,
			shift.StartTime.Format(time.RFC3339),
			shift.EndTime.Format(time.RFC3339),
			strconv.FormatFloat(shift.Duration().Hours(), 'f', 2, 64),
			strconv.FormatBool(shift.IsConfirmed),
			shift.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("roster-%d-%s.csv", roster.ID, roster.StartDate.Format("2006-01-02"))

	s.log.Info("Roster exported",
		zap.Uint("roster_id", roster.ID),
		zap.Uint("tenant_id", tenantID),
		zap.Int("shifts", len(roster.Shifts)))

	return buf.Bytes(), filename, nil
}
