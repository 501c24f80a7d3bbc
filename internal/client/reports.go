package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ReportKind identifies one of the downloadable entity reports
type ReportKind string

const (
	ReportUsers     ReportKind = "users"
	ReportContracts ReportKind = "contracts"
	ReportPremiums  ReportKind = "premiums"
	ReportClaims    ReportKind = "claims"
)

// DocxContentType is the MIME type of generated reports
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// MaxReportSize caps the size of a downloaded report
const MaxReportSize = 50 << 20

type reportEndpoint struct {
	path     string
	filename string
}

var reportEndpoints = map[ReportKind]reportEndpoint{
	ReportUsers:     {"/admin-auth/admin/report", "CCI_User_Report.docx"},
	ReportContracts: {"/admin-insurance/admin/contract/report", "CCI_Contract_Report.docx"},
	ReportPremiums:  {"/admin-premiums/admin/report", "CCI_Premium_Report.docx"},
	ReportClaims:    {"/admin-claims/admin/report", "CCI_Claim_Report.docx"},
}

// Report is a downloaded document, saved by the browser under Filename
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportFilename returns the fixed download filename of a report kind
func ReportFilename(kind ReportKind) (string, bool) {
	ep, ok := reportEndpoints[kind]
	return ep.filename, ok
}

// DownloadReport fetches the report of kind filtered by query
func (c *Client) DownloadReport(ctx context.Context, kind ReportKind, query url.Values) (*Report, error) {
	ep, ok := reportEndpoints[kind]
	if !ok {
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}

	req, err := c.newRequest(ctx, http.MethodGet, ep.path, query, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", DocxContentType+", application/octet-stream")

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxReport+1))
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: FallbackMessage, cause: fmt.Errorf("failed to read report: %w", err)}
	}
	if int64(len(body)) > c.maxReport {
		c.log.Warn().Str("report", ep.filename).Int64("limit", c.maxReport).Msg("Report exceeds size limit")
		return nil, &APIError{Status: resp.StatusCode, Message: "report too large"}
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = DocxContentType
	}
	return &Report{Filename: ep.filename, ContentType: ct, Body: body}, nil
}
