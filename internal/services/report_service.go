package services

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/complianceguard/regdash/data"
	"github.com/complianceguard/regdash/internal/models"
)

var reportTemplates = template.Must(template.ParseFS(data.Templates, "templates/*.tmpl"))

// aiSummaryEmpty is the literal the AI pipeline writes when a regulation
// has no summary content.
const aiSummaryEmpty = "- [개정이유]: 없음\n\n- [주요내용]: 없음"

// reportRegulation is the per-regulation view of the monthly report body.
// The AI fields come from the workbook as prepared rich text and render
// as-is, unescaped, matching the original string-substitution templates.
type reportRegulation struct {
	LawName       string
	LawType       string
	EffectiveDate string
	AmendmentType string
	AISummary     template.HTML
	AIFollowUp    template.HTML
}

type monthlyReportView struct {
	Department  string
	Month       int
	Stat        models.DepartmentStat
	Regulations []reportRegulation
	FromEmail   string
	SentAt      string
}

// MonthlyReportSubject builds the subject line for a department's monthly
// status mail.
func MonthlyReportSubject(department string, now time.Time) string {
	return fmt.Sprintf("📋 %s %d월 시행 예정 법규 안내", department, int(now.Month()))
}

// RenderMonthlyReport renders the department's monthly status email body.
func RenderMonthlyReport(department string, stat models.DepartmentStat, regs []models.Regulation, fromEmail string, now time.Time) (string, error) {
	view := monthlyReportView{
		Department: department,
		Month:      int(now.Month()),
		Stat:       stat,
		FromEmail:  fromEmail,
		SentAt:     now.Format("2006-01-02 15:04"),
	}
	for _, r := range regs {
		item := reportRegulation{
			LawName:       r.LawName,
			LawType:       r.LawType,
			EffectiveDate: r.EffectiveDate,
			AmendmentType: r.AmendmentType,
		}
		if r.AISummary != "" && r.AISummary != aiSummaryEmpty {
			item.AISummary = template.HTML(r.AISummary)
		}
		if r.HasFollowUp() {
			item.AIFollowUp = template.HTML(r.AIFollowUp)
		}
		view.Regulations = append(view.Regulations, item)
	}

	var b strings.Builder
	if err := reportTemplates.ExecuteTemplate(&b, "monthly_report", view); err != nil {
		return "", fmt.Errorf("render monthly report: %w", err)
	}
	return b.String(), nil
}

// TestEmailSubject is the subject of the ad-hoc test message.
const TestEmailSubject = "🧪 ComplianceGuard 이메일 테스트"

// RenderTestEmail renders the ad-hoc test email body.
func RenderTestEmail(transport string, now time.Time) (string, error) {
	view := struct {
		SentAt    string
		Transport string
	}{
		SentAt:    now.Format("2006-01-02 15:04:05"),
		Transport: transport,
	}

	var b strings.Builder
	if err := reportTemplates.ExecuteTemplate(&b, "test_email", view); err != nil {
		return "", fmt.Errorf("render test email: %w", err)
	}
	return b.String(), nil
}
