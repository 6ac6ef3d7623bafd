package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"paytrack/internal/app/server"
	"paytrack/internal/domain/auth"
	"paytrack/internal/domain/bulkimport"
	"paytrack/internal/platform/config"
	"paytrack/internal/platform/jobs"
	"paytrack/internal/platform/workbook"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func TestSalaryImportAndBackupJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:              dbURL,
		JWTSecret:                "test-secret",
		Environment:              "test",
		LogLevel:                 "warn",
		RunMigrations:            true,
		MigrationsDir:            "../../../../migrations",
		MaxUploadBytes:           10 * 1024 * 1024,
		RateLimitPerMinute:       1000,
		MutationLimitPerMinute:   1000,
		AuditRetentionDays:       365,
		IdempotencyRetentionDays: 7,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	userID := uuid.NewString()
	token, err := auth.GenerateToken(cfg.JWTSecret, userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}

	recordID := createSalaryRecord(t, client, ts.URL, token)
	if recordID == "" {
		t.Fatal("expected a salary record id")
	}

	plan := buildImportPlan(t, client, ts.URL, token)
	if plan.TotalRecordsToImport != 2 {
		t.Fatalf("expected 2 records in plan, got %d", plan.TotalRecordsToImport)
	}
	if plan.TotalSkippedRows != 1 {
		t.Fatalf("expected 1 skipped row, got %d", plan.TotalSkippedRows)
	}
	if len(plan.InvalidRows) != 1 || plan.InvalidRows[0].Reason != "Missing Month/Year value" {
		t.Fatalf("expected one missing month/year invalid row, got %+v", plan.InvalidRows)
	}

	summary := executeImportPlan(t, client, ts.URL, token, plan, "journey-key-1")
	if summary.RecordsProcessed != 2 {
		t.Fatalf("expected 2 records processed, got %d", summary.RecordsProcessed)
	}
	if summary.TemplatesReplaced != 1 {
		t.Fatalf("expected 1 template replaced, got %d", summary.TemplatesReplaced)
	}

	imported := listRecords(t, client, ts.URL, token, "TCS")
	if len(imported) != 2 {
		t.Fatalf("expected 2 TCS records after import, got %d", len(imported))
	}

	// Replaying the same plan must upsert, not duplicate.
	if again := executeImportPlan(t, client, ts.URL, token, plan, "journey-key-2"); again.RecordsProcessed != 2 {
		t.Fatalf("expected replayed import to process 2 records, got %d", again.RecordsProcessed)
	}
	if reimported := listRecords(t, client, ts.URL, token, "TCS"); len(reimported) != 2 {
		t.Fatalf("expected 2 TCS records after re-import, got %d", len(reimported))
	}

	// The same Idempotency-Key replays the stored response without re-running.
	if replayed := executeImportPlan(t, client, ts.URL, token, plan, "journey-key-2"); replayed.RecordsProcessed != 2 {
		t.Fatalf("expected idempotent replay summary, got %+v", replayed)
	}

	exported := exportWorkbook(t, client, ts.URL, token)
	sheetNames := make([]string, 0, len(exported))
	for _, sheet := range exported {
		sheetNames = append(sheetNames, sheet.Name)
	}
	if len(exported) == 0 {
		t.Fatalf("expected exported sheets, got %v", sheetNames)
	}

	backupBody := exportBackup(t, client, ts.URL, token)
	preview := previewRestore(t, client, ts.URL, token, backupBody)
	if preview.ToRestore.SalaryRecords != 3 {
		t.Fatalf("expected 3 records in restore preview, got %d", preview.ToRestore.SalaryRecords)
	}

	result := confirmRestore(t, client, ts.URL, token, backupBody)
	if result.RecordsRestored != 3 {
		t.Fatalf("expected 3 records restored, got %d", result.RecordsRestored)
	}

	if restored := listRecords(t, client, ts.URL, token, ""); len(restored) != 3 {
		t.Fatalf("expected 3 records after restore, got %d", len(restored))
	}

	// Retention jobs run inline so the journey covers the maintenance path.
	if _, err := app.Jobs.RunNow(context.Background(), jobs.JobAuditRetention, app.Jobs.PruneAuditEvents); err != nil {
		t.Fatalf("audit retention job failed: %v", err)
	}
	if _, err := app.Jobs.RunNow(context.Background(), jobs.JobIdempotencyRetention, app.Jobs.PruneIdempotencyKeys); err != nil {
		t.Fatalf("idempotency retention job failed: %v", err)
	}
}

func createSalaryRecord(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()
	payload := map[string]any{
		"organization":    "Infosys",
		"month":           12,
		"year":            2024,
		"totalEarnings":   "95000",
		"totalDeductions": "21000",
		"netSalary":       "74000",
		"earnings": []map[string]any{
			{"category": "Basic Salary", "amount": "60000"},
			{"category": "HRA", "amount": "35000"},
		},
		"deductions": []map[string]any{
			{"category": "Income Tax", "amount": "15000"},
			{"category": "Provident Fund", "amount": "6000"},
		},
	}
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/salary-records", token, "", payload, http.StatusCreated)
	var record struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("failed to decode created record: %v", err)
	}
	return record.ID
}

func buildImportPlan(t *testing.T, client *http.Client, baseURL, token string) bulkimport.ImportPlan {
	t.Helper()
	book, err := workbook.Write([]workbook.WriteSheet{{
		Name:    "TCS",
		Headers: []string{"Month Year", "Basic Salary", "HRA", "Income Tax", "Provident Fund", "Total Earnings", "Total Deductions", "Net Salary"},
		Rows: []map[string]any{
			{"Month Year": "JAN 2025", "Basic Salary": 80000, "HRA": 32000, "Income Tax": 18000, "Provident Fund": 9600, "Total Earnings": 112000, "Total Deductions": 27600, "Net Salary": 84400},
			{"Month Year": "FEB 2025", "Basic Salary": 80000, "HRA": 32000, "Income Tax": 18000, "Provident Fund": 9600, "Total Earnings": 112000, "Total Deductions": 27600, "Net Salary": 84400},
			{"Basic Salary": 80000},
		},
	}})
	if err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/import/plan", bytes.NewReader(book))
	if err != nil {
		t.Fatalf("failed to build plan request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("plan request failed: %v", err)
	}
	defer resp.Body.Close()
	data := decodeEnvelope(t, resp, http.StatusOK)

	var plan bulkimport.ImportPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		t.Fatalf("failed to decode import plan: %v", err)
	}
	return plan
}

func executeImportPlan(t *testing.T, client *http.Client, baseURL, token string, plan bulkimport.ImportPlan, idempotencyKey string) bulkimport.ImportSummary {
	t.Helper()
	data := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/import/execute", token, idempotencyKey, plan, http.StatusOK)
	var summary bulkimport.ImportSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("failed to decode import summary: %v", err)
	}
	return summary
}

func listRecords(t *testing.T, client *http.Client, baseURL, token, organization string) []json.RawMessage {
	t.Helper()
	url := baseURL + "/api/v1/salary-records"
	if organization != "" {
		url += "?organization=" + organization
	}
	data := doJSON(t, client, http.MethodGet, url, token, "", nil, http.StatusOK)
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("failed to decode record list: %v", err)
	}
	return records
}

func exportWorkbook(t *testing.T, client *http.Client, baseURL, token string) []workbook.Sheet {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/export/workbook", nil)
	if err != nil {
		t.Fatalf("failed to build export request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected export status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read export body: %v", err)
	}
	sheets, err := workbook.Read(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("exported workbook is unreadable: %v", err)
	}
	return sheets
}

func exportBackup(t *testing.T, client *http.Client, baseURL, token string) []byte {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/backup/export", nil)
	if err != nil {
		t.Fatalf("failed to build backup request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("backup export failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected backup status 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read backup body: %v", err)
	}
	return body
}

type restorePreview struct {
	ToWipe    entityCounts `json:"toWipe"`
	ToRestore entityCounts `json:"toRestore"`
}

type restoreResult struct {
	TemplatesRestored  int  `json:"templatesRestored"`
	RecordsRestored    int  `json:"recordsRestored"`
	EmploymentRestored int  `json:"employmentRestored"`
	BudgetsRestored    int  `json:"budgetsRestored"`
	ProfileRestored    bool `json:"profileRestored"`
}

type entityCounts struct {
	SalaryRecords         int `json:"salaryRecords"`
	OrganizationTemplates int `json:"organizationTemplates"`
	EmploymentHistory     int `json:"employmentHistory"`
	Budgets               int `json:"budgets"`
}

func previewRestore(t *testing.T, client *http.Client, baseURL, token string, backupBody []byte) restorePreview {
	t.Helper()
	data := doRaw(t, client, baseURL+"/api/v1/backup/restore", token, backupBody, http.StatusOK)
	var preview restorePreview
	if err := json.Unmarshal(data, &preview); err != nil {
		t.Fatalf("failed to decode restore preview: %v", err)
	}
	return preview
}

func confirmRestore(t *testing.T, client *http.Client, baseURL, token string, backupBody []byte) restoreResult {
	t.Helper()
	data := doRaw(t, client, baseURL+"/api/v1/backup/restore?confirm=true", token, backupBody, http.StatusOK)
	var result restoreResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to decode restore result: %v", err)
	}
	return result
}

func doRaw(t *testing.T, client *http.Client, url, token string, body []byte, wantStatus int) json.RawMessage {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request for %s: %v", url, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	return decodeEnvelope(t, resp, wantStatus)
}

func doJSON(t *testing.T, client *http.Client, method, url, token, idempotencyKey string, payload any, wantStatus int) json.RawMessage {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to encode payload for %s: %v", url, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("failed to build request for %s: %v", url, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request to %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	return decodeEnvelope(t, resp, wantStatus)
}

func decodeEnvelope(t *testing.T, resp *http.Response, wantStatus int) json.RawMessage {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, resp.StatusCode, string(body))
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("response is not an envelope: %v (%s)", err, string(body))
	}
	if env.Error != nil {
		t.Fatalf("unexpected error in envelope: %v", env.Error)
	}
	return env.Data
}
