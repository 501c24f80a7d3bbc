package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/models"
)

// AuditResultsFilename is the download name of the premium audit results
const AuditResultsFilename = "CCI_Audit_Results.json"

// exportService is the concrete implementation of ExportService
type exportService struct {
	log zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(log zerolog.Logger) *exportService {
	return &exportService{
		log: log.With().Str("service", "export").Logger(),
	}
}

// NewExportService creates an ExportService
func NewExportService(log zerolog.Logger) ExportService {
	return newExportService(log)
}

// WriteReport sends a downloaded report to the browser under its fixed filename
func (s *exportService) WriteReport(w http.ResponseWriter, report *client.Report) error {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", attachment(report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Body)))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(report.Body); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	s.log.Info().Str("filename", report.Filename).Int("bytes", len(report.Body)).Msg("Report sent")
	return nil
}

// StreamAuditResults streams audit results as a pretty-printed JSON array
func (s *exportService) StreamAuditResults(w http.ResponseWriter, results []models.AuditResult) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", attachment(AuditResultsFilename))
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	w.Write([]byte("["))
	for i, r := range results {
		if i > 0 {
			w.Write([]byte(","))
		}
		data, err := json.MarshalIndent(r, "  ", "  ")
		if err != nil {
			return err
		}
		w.Write([]byte("\n  "))
		w.Write(data)

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	if len(results) > 0 {
		w.Write([]byte("\n"))
	}
	w.Write([]byte("]"))

	s.log.Info().Int("count", len(results)).Msg("Audit results export completed")
	return nil
}

func attachment(filename string) string {
	return `attachment; filename="` + filename + `"`
}
