// analysis_service.go
//
// A single-binary Go replacement for the ComplianceGuard node/express dashboard server
// Copyright (c) 2026 ComplianceGuard contributors
//
// This file is part of regdash.
// regdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// regdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with regdash.
// If not, see <https://www.gnu.org/licenses/>.

package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/mailer"
	"github.com/complianceguard/regdash/internal/models"
)

// Analyzer runs the per-department monthly analysis: compute progress
// stats, collect the regulations due this month, and mail each department
// its status report.
type Analyzer struct {
	Cfg    *config.Config
	Store  *ExcelStore
	DB     *gorm.DB
	Mailer *mailer.Mailer
}

// RunMonthlyAnalysis processes departments one at a time, sequentially, and
// returns one DispatchResult per department. A failed send for one
// department does not abort the loop. When departments is non-empty the run
// is restricted to those names.
func (a *Analyzer) RunMonthlyAnalysis(ctx context.Context, departments []string, now time.Time) ([]models.DispatchResult, error) {
	regs, err := a.Store.LoadAll()
	if err != nil {
		return nil, err
	}

	all, err := a.Store.Departments()
	if err != nil {
		return nil, err
	}
	targets := selectDepartments(all, departments)

	stats := ComputeDepartmentStats(regs, now, a.Cfg.PriorityDepartments)
	statByName := make(map[string]models.DepartmentStat, len(stats))
	for _, s := range stats {
		statByName[s.Name] = s
	}

	fromEmail := a.Cfg.SMTPUser
	if fromEmail == "" {
		fromEmail = a.Cfg.SendgridFrom
	}

	results := make([]models.DispatchResult, 0, len(targets))
	for _, dept := range targets {
		log.Printf("monthly analysis: %s", dept)

		dueThisMonth := RegulationsForMonth(regs, dept, now)
		result := models.DispatchResult{
			Department:  dept,
			Regulations: len(dueThisMonth),
		}

		if len(dueThisMonth) == 0 {
			result.Error = "no regulations due this month"
			results = append(results, result)
			continue
		}

		email, err := ContactEmailForDepartment(a.DB, dept)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		if email == "" {
			result.Error = "no contact registered"
			results = append(results, result)
			continue
		}
		result.Email = email

		html, err := RenderMonthlyReport(dept, statByName[dept], dueThisMonth, fromEmail, now)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		sent := a.Mailer.Send(ctx, mailer.Message{
			To:      email,
			From:    fromEmail,
			Subject: MonthlyReportSubject(dept, now),
			HTML:    html,
		})
		result.Sent = sent
		if !sent {
			result.Error = "delivery failed, see email log"
		}
		results = append(results, result)
	}

	a.recordCompletion(results, now)

	return results, nil
}

// recordCompletion appends the run outcome to the notification feed. Feed
// failures are logged, not propagated: the analysis itself succeeded.
func (a *Analyzer) recordCompletion(results []models.DispatchResult, now time.Time) {
	sent := 0
	for _, r := range results {
		if r.Sent {
			sent++
		}
	}
	_, err := CreateNotification(a.DB, NotificationSystem,
		"월간 분석 완료",
		fmt.Sprintf("%d월 전체 부서 법규 분석이 완료되었습니다. (발송 %d/%d개 부서)", int(now.Month()), sent, len(results)),
		results,
	)
	if err != nil {
		log.Printf("monthly analysis: record notification: %v", err)
	}
}

// selectDepartments intersects the requested names with the departments
// actually present; an empty request means all of them.
func selectDepartments(all, requested []string) []string {
	if len(requested) == 0 {
		return all
	}
	present := make(map[string]struct{}, len(all))
	for _, d := range all {
		present[d] = struct{}{}
	}
	out := make([]string, 0, len(requested))
	for _, d := range requested {
		if _, ok := present[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
