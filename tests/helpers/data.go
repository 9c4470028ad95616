// data.go
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

package helpers

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/complianceguard/regdash/internal/models"
)

// WorkbookHeaders is the header row of the regulation workbook, in the column
// order the production file uses.
var WorkbookHeaders = []string{
	models.ColSeq,
	models.ColProclamationNo,
	models.ColProclamationDate,
	models.ColEffectiveDate,
	models.ColAbbreviation,
	models.ColLawName,
	models.ColLawType,
	models.ColMinistry,
	models.ColScheduled,
	models.ColDepartment,
	models.ColManager,
	models.ColRevisionDate,
	models.ColAmendedArticles,
	models.ColAmendmentSummary,
	models.ColAmendmentType,
	models.ColComparisonURL,
	models.ColReasonURL,
	models.ColAISummary,
	models.ColAIFollowUp,
}

// RegulationRow builds a workbook row from a Regulation, matching
// WorkbookHeaders column for column.
func RegulationRow(r models.Regulation) []string {
	return []string{
		r.Seq, r.ProclamationNo, r.ProclamationDate, r.EffectiveDate,
		r.Abbreviation, r.LawName, r.LawType, r.Ministry, r.Scheduled,
		r.Department, r.Manager, r.RevisionDate, r.AmendedArticles,
		r.AmendmentSummary, r.AmendmentType, r.ComparisonURL, r.ReasonURL,
		r.AISummary, r.AIFollowUp,
	}
}

// WriteWorkbook writes an xlsx file with the standard header row followed by
// rows, and returns its path.
func WriteWorkbook(t *testing.T, dir string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &WorkbookHeaders); err != nil {
		t.Fatalf("Failed to write header row: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("Failed to compute cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	path := filepath.Join(dir, "regulations.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

// SampleRegulations is a small but representative regulation set: three
// departments, effective dates through 2025, one row with AI follow-up
// content and one with the empty placeholder.
func SampleRegulations() []models.Regulation {
	return []models.Regulation{
		{
			Seq: "1", LawName: "산업안전보건법", LawType: "법률",
			Ministry: "고용노동부", Department: "안전보건기획그룹", Manager: "김안전",
			EffectiveDate: "2025-01-15", AmendmentType: "일부개정",
			AISummary:  "- [개정이유]: 안전 기준 강화\n\n- [주요내용]: 보호구 지급 대상 확대",
			AIFollowUp: "보호구 지급 기준 개정 반영",
		},
		{
			Seq: "2", LawName: "화학물질관리법", LawType: "법률",
			Ministry: "환경부", Department: "환경기획그룹", Manager: "이환경",
			EffectiveDate: "2025-06-01", AmendmentType: "일부개정",
			AIFollowUp: models.AIFollowUpEmpty,
		},
		{
			Seq: "3", LawName: "개인정보 보호법", LawType: "법률",
			Ministry: "개인정보보호위원회", Department: "정보보호사무국", Manager: "박보안",
			EffectiveDate: "2025-06-20", AmendmentType: "전부개정",
		},
		{
			Seq: "4", LawName: "대기환경보전법 시행령", LawType: "시행령",
			Ministry: "환경부", Department: "환경기획그룹", Manager: "이환경",
			EffectiveDate: "2025-11-01", AmendmentType: "일부개정",
		},
		{
			Seq: "5", LawName: "정보통신망법", LawType: "법률",
			Ministry: "과학기술정보통신부", Department: "정보보호사무국", Manager: "박보안",
			EffectiveDate: "2024-12-01", AmendmentType: "일부개정",
		},
	}
}

// sampleWorkbookRows appends the junk rows every real export carries to regs:
// a repeated header row, a row missing its law name, and a row missing its
// sequence number. Loaders must drop all three.
func sampleWorkbookRows(regs []models.Regulation) [][]string {
	rows := make([][]string, 0, len(regs)+3)
	for _, r := range regs {
		rows = append(rows, RegulationRow(r))
	}
	rows = append(rows,
		RegulationRow(models.Regulation{Seq: models.ColSeq, LawName: models.ColLawName}),
		RegulationRow(models.Regulation{Seq: "98", LawName: "", Department: "총무그룹"}),
		RegulationRow(models.Regulation{Seq: "", LawName: "이름만 있는 법", Department: "총무그룹"}),
	)
	return rows
}

// SampleWorkbook writes the SampleRegulations set plus the standard junk rows.
func SampleWorkbook(t *testing.T, dir string) string {
	t.Helper()
	return WriteWorkbook(t, dir, sampleWorkbookRows(SampleRegulations()))
}

// SampleWorkbookAt writes the same workbook with the effective dates pinned
// around now, for tests that run the dispatch path against a live clock: both
// 환경기획그룹 and 정보보호사무국 get a regulation due in now's month, the
// other rows land in the following month and the previous year.
func SampleWorkbookAt(t *testing.T, dir string, now time.Time) string {
	t.Helper()

	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := anchor.AddDate(0, 1, 0)

	regs := SampleRegulations()
	regs[0].EffectiveDate = dateCell(next, 15)
	regs[1].EffectiveDate = dateCell(anchor, 1)
	regs[2].EffectiveDate = dateCell(anchor, 20)
	regs[3].EffectiveDate = dateCell(next, 1)
	regs[4].EffectiveDate = dateCell(anchor.AddDate(-1, 0, 0), 1)
	return WriteWorkbook(t, dir, sampleWorkbookRows(regs))
}

func dateCell(t time.Time, day int) string {
	return fmt.Sprintf("%d-%02d-%02d", t.Year(), t.Month(), day)
}

// SeedContact inserts a department contact row.
func SeedContact(t *testing.T, db *gorm.DB, name, code, email string) models.DepartmentContact {
	t.Helper()

	contact := models.DepartmentContact{
		Name:         name,
		Code:         code,
		ContactName:  "담당자",
		ContactEmail: email,
		ContactPhone: "02-0000-0000",
	}
	if err := db.Create(&contact).Error; err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	return contact
}
