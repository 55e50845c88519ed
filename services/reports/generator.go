package reports

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"schooladmin/config"
	"schooladmin/database"
	"schooladmin/models"
	"schooladmin/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Report type selectors
const (
	TypeAll         = "all"
	TypeAcademic    = "academic"
	TypeFinancial   = "financial"
	TypeAttendance  = "attendance"
	TypePerformance = "performance"
)

// IsValidReportType reports whether t is a known report selector.
func IsValidReportType(t string) bool {
	switch t {
	case TypeAll, TypeAcademic, TypeFinancial, TypeAttendance, TypePerformance:
		return true
	}
	return false
}

// Options selects what one generation run produces.
type Options struct {
	ReportType string
	Format     string
	BaseDir    string
}

// Generator produces report bundles on disk and records each run.
type Generator struct {
	db *gorm.DB
}

func NewGenerator() *Generator {
	return &Generator{db: database.GetDB()}
}

// Generate builds a timestamped report directory with one subdirectory
// per category, a metadata.json and a README.txt, then records the run.
// The summary report is always produced regardless of the selector.
func (g *Generator) Generate(opts Options) (*models.ReportRun, error) {
	if opts.ReportType == "" {
		opts.ReportType = TypeAll
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if !IsValidReportType(opts.ReportType) {
		return nil, fmt.Errorf("invalid report type: %s", opts.ReportType)
	}
	if !IsValidFormat(opts.Format) {
		return nil, fmt.Errorf("invalid report format: %s", opts.Format)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = config.AppConfig.ReportDir
	}

	now := time.Now()
	timestamp := now.Format("20060102_150405")
	reportDir := filepath.Join(opts.BaseDir, "report_"+timestamp)

	run := &models.ReportRun{
		RunID:      uuid.New().String(),
		ReportType: opts.ReportType,
		Format:     opts.Format,
		Directory:  reportDir,
		Status:     "pending",
	}
	if err := g.db.Create(run).Error; err != nil {
		return nil, err
	}

	if err := g.generateInto(reportDir, timestamp, opts, now); err != nil {
		run.Status = "failed"
		run.Error = err.Error()
		finished := time.Now()
		run.FinishedAt = &finished
		if dbErr := g.db.Save(run).Error; dbErr != nil {
			logrus.WithError(dbErr).Error("Failed to record failed report run")
		}
		return run, err
	}

	if config.AppConfig.UploadReportsToS3 {
		s3Key, err := g.uploadArchive(reportDir, timestamp)
		if err != nil {
			logrus.WithError(err).Error("Failed to upload report archive")
		} else {
			run.S3Key = s3Key
		}
	}

	run.Status = "completed"
	finished := time.Now()
	run.FinishedAt = &finished
	if err := g.db.Save(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (g *Generator) generateInto(reportDir, timestamp string, opts Options, now time.Time) error {
	for _, subdir := range []string{TypeAcademic, TypeFinancial, TypeAttendance, TypePerformance, "summary"} {
		if err := os.MkdirAll(filepath.Join(reportDir, subdir), 0o755); err != nil {
			return err
		}
	}

	snap, err := LoadSnapshot(g.db, now)
	if err != nil {
		return err
	}

	wants := func(t string) bool {
		return opts.ReportType == TypeAll || opts.ReportType == t
	}

	if wants(TypeAcademic) {
		if err := WriteDocument(filepath.Join(reportDir, TypeAcademic), BuildAcademic(snap), opts.Format); err != nil {
			return err
		}
	}
	if wants(TypeFinancial) {
		if err := WriteDocument(filepath.Join(reportDir, TypeFinancial), BuildFinancial(snap, now), opts.Format); err != nil {
			return err
		}
	}
	if wants(TypeAttendance) {
		if err := WriteDocument(filepath.Join(reportDir, TypeAttendance), BuildAttendance(snap, now), opts.Format); err != nil {
			return err
		}
	}
	if wants(TypePerformance) {
		if err := WriteDocument(filepath.Join(reportDir, TypePerformance), BuildPerformance(snap), opts.Format); err != nil {
			return err
		}
	}
	if err := WriteDocument(filepath.Join(reportDir, "summary"), BuildSummary(snap, now), opts.Format); err != nil {
		return err
	}

	if err := writeMetadata(reportDir, timestamp, opts.ReportType, now); err != nil {
		return err
	}
	return writeReadme(reportDir, timestamp, opts.ReportType, now)
}

func writeMetadata(reportDir, timestamp, reportType string, now time.Time) error {
	includes := func(t string) bool {
		return reportType == TypeAll || reportType == t
	}
	metadata := map[string]interface{}{
		"report_id":    "report_" + timestamp,
		"generated_at": now.Format(time.RFC3339),
		"report_type":  reportType,
		"version":      "1.0",
		"generator":    "School Administration System",
		"includes": map[string]bool{
			TypeAcademic:    includes(TypeAcademic),
			TypeFinancial:   includes(TypeFinancial),
			TypeAttendance:  includes(TypeAttendance),
			TypePerformance: includes(TypePerformance),
			"summary":       true,
		},
	}
	data, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(reportDir, "metadata.json"), data, 0o644)
}

func writeReadme(reportDir, timestamp, reportType string, now time.Time) error {
	content := fmt.Sprintf(`School Administration Report - %s

Report Type: %s
Generated: %s

Contents:
- metadata.json: Report metadata and information
- academic/: Academic reports (enrollment, classes, teachers, subjects)
- financial/: Financial reports (fees, payments, trends)
- attendance/: Attendance reports (statistics, trends, analysis)
- performance/: Performance reports (grades, rankings, analysis)
- summary/: Overall summary and system health

For detailed information, see metadata.json
`, timestamp, reportType, now.Format("2006-01-02 15:04:05"))
	return os.WriteFile(filepath.Join(reportDir, "README.txt"), []byte(content), 0o644)
}

// uploadArchive zips the report directory and ships it to S3, returning
// the object key.
func (g *Generator) uploadArchive(reportDir, timestamp string) (string, error) {
	buf, err := zipDirectory(reportDir)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("reports/%s/report_%s.zip", timestamp[:6], timestamp)
	if err := storage.UploadArchive(key, buf); err != nil {
		return "", err
	}
	return key, nil
}

func zipDirectory(dir string) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf, nil
}
