package backup

import (
	"encoding/json"
	"errors"
	"time"

	"paytrack/internal/domain/budget"
	"paytrack/internal/domain/orgs"
	"paytrack/internal/domain/profile"
	"paytrack/internal/domain/salary"
)

// MaxBackupBytes caps accepted backup payloads.
const MaxBackupBytes = 10 * 1024 * 1024

// EnvelopeVersion is the only format this build reads or writes. There is no
// migration path for other versions.
const EnvelopeVersion = 1

// FileName is the download name for plain JSON backups.
const FileName = "salary-tracker-backup.json"

var (
	ErrTooLarge           = errors.New("backup exceeds the maximum allowed size")
	ErrInvalidFormat      = errors.New("backup file is not valid JSON")
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)

type Envelope struct {
	Version               int                  `json:"version"`
	ExportedAt            time.Time            `json:"exportedAt"`
	UserID                string               `json:"userId"`
	Profile               *profile.Profile     `json:"profile,omitempty"`
	SalaryRecords         []salary.Record      `json:"salaryRecords"`
	OrganizationTemplates []orgs.Template      `json:"organizationTemplates"`
	EmploymentHistory     []profile.Employment `json:"employmentHistory"`
	BudgetHistory         []budget.Budget      `json:"budgetHistory"`
}

// Parse validates a backup payload without touching storage: size first,
// then JSON shape, then version. Restore only proceeds past this gate.
func Parse(data []byte) (Envelope, error) {
	if len(data) > MaxBackupBytes {
		return Envelope{}, ErrTooLarge
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, ErrInvalidFormat
	}
	if env.Version != EnvelopeVersion {
		return Envelope{}, ErrUnsupportedVersion
	}
	return env, nil
}

// EntityCounts reports per-entity-kind totals for previews and summaries.
type EntityCounts struct {
	SalaryRecords         int `json:"salaryRecords"`
	OrganizationTemplates int `json:"organizationTemplates"`
	EmploymentHistory     int `json:"employmentHistory"`
	Budgets               int `json:"budgets"`
}

// Preview names exactly what a confirmed restore would wipe and recreate.
type Preview struct {
	ToWipe    EntityCounts `json:"toWipe"`
	ToRestore EntityCounts `json:"toRestore"`
}

type RestoreSummary struct {
	Wiped              EntityCounts `json:"wiped"`
	TemplatesRestored  int          `json:"templatesRestored"`
	RecordsRestored    int          `json:"recordsRestored"`
	EmploymentRestored int          `json:"employmentRestored"`
	BudgetsRestored    int          `json:"budgetsRestored"`
	ProfileRestored    bool         `json:"profileRestored"`
}
