// excel_service.go
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
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"

	"github.com/complianceguard/regdash/internal/models"
)

// ErrDataSourceUnavailable is returned when the regulation workbook cannot
// be opened or parsed. A previously cached set is never served in its place.
var ErrDataSourceUnavailable = errors.New("regulation data source unavailable")

const regulationsCacheKey = "regulations"

// ExcelStore reads the regulation workbook and answers queries over it from
// an in-memory cache. One instance is shared by all callers; construct a
// fresh one per test case.
type ExcelStore struct {
	path  string
	cache *gocache.Cache
}

// NewExcelStore creates a store for the workbook at path, re-reading it
// after ttl has elapsed since the last successful load.
func NewExcelStore(path string, ttl time.Duration) *ExcelStore {
	return &ExcelStore{
		path:  path,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// LoadAll returns every retained regulation row. Within the cache TTL the
// same slice is returned unchanged; after expiry the whole workbook is
// re-read. Rows missing a sequence number or law name, and repeated header
// rows, are dropped here and never surfaced.
func (s *ExcelStore) LoadAll() ([]models.Regulation, error) {
	if cached, found := s.cache.Get(regulationsCacheKey); found {
		return cached.([]models.Regulation), nil
	}

	regs, err := s.readWorkbook()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataSourceUnavailable, err)
	}

	s.cache.Set(regulationsCacheKey, regs, gocache.DefaultExpiration)
	log.Printf("Loaded %d legal regulations from %s", len(regs), s.path)

	return regs, nil
}

// Invalidate drops the cached set so the next LoadAll re-reads the file.
// The admin sync trigger is exactly this plus a LoadAll.
func (s *ExcelStore) Invalidate() {
	s.cache.Delete(regulationsCacheKey)
}

// ByID returns the regulation whose sequence number equals id, or nil.
func (s *ExcelStore) ByID(id string) (*models.Regulation, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	for i := range regs {
		if regs[i].Seq == id {
			return &regs[i], nil
		}
	}
	return nil, nil
}

// ByDepartment returns regulations whose department field contains name,
// case-insensitively, in load order.
func (s *ExcelStore) ByDepartment(name string) ([]models.Regulation, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	out := make([]models.Regulation, 0)
	for _, r := range regs {
		if r.Department != "" && strings.Contains(strings.ToLower(r.Department), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ByType returns regulations whose law-type field contains typeName,
// case-insensitively, in load order.
func (s *ExcelStore) ByType(typeName string) ([]models.Regulation, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(typeName)
	out := make([]models.Regulation, 0)
	for _, r := range regs {
		if r.LawType != "" && strings.Contains(strings.ToLower(r.LawType), needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search returns regulations where any of law name, abbreviation,
// supervising ministry, department, or AI summary contains term,
// case-insensitively.
func (s *ExcelStore) Search(term string) ([]models.Regulation, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(term)
	out := make([]models.Regulation, 0)
	for _, r := range regs {
		if containsFold(r.LawName, needle) ||
			containsFold(r.Abbreviation, needle) ||
			containsFold(r.Ministry, needle) ||
			containsFold(r.Department, needle) ||
			containsFold(r.AISummary, needle) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Departments returns the sorted distinct department names, excluding empty
// values and the "None" placeholder.
func (s *ExcelStore) Departments() ([]string, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return distinct(regs, func(r models.Regulation) string { return r.Department }), nil
}

// Types returns the sorted distinct law types, excluding empty values and
// the "None" placeholder.
func (s *ExcelStore) Types() ([]string, error) {
	regs, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return distinct(regs, func(r models.Regulation) string { return r.LawType }), nil
}

func (s *ExcelStore) readWorkbook() ([]models.Regulation, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("workbook has no header row")
	}

	headers := rows[0]
	regs := make([]models.Regulation, 0, len(rows)-1)
	for _, row := range rows[1:] {
		reg := mapRow(headers, row)
		if reg.Valid() {
			regs = append(regs, reg)
		}
	}

	return regs, nil
}

// mapRow assigns cells to fields by header text. Short rows are padded with
// empty strings, columns with unknown headers are ignored.
func mapRow(headers, row []string) models.Regulation {
	var reg models.Regulation
	for i, h := range headers {
		var cell string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		switch strings.TrimSpace(h) {
		case models.ColSeq:
			reg.Seq = cell
		case models.ColProclamationNo:
			reg.ProclamationNo = cell
		case models.ColProclamationDate:
			reg.ProclamationDate = cell
		case models.ColEffectiveDate:
			reg.EffectiveDate = cell
		case models.ColAbbreviation:
			reg.Abbreviation = cell
		case models.ColLawName:
			reg.LawName = cell
		case models.ColLawType:
			reg.LawType = cell
		case models.ColMinistry:
			reg.Ministry = cell
		case models.ColScheduled:
			reg.Scheduled = cell
		case models.ColDepartment:
			reg.Department = cell
		case models.ColManager:
			reg.Manager = cell
		case models.ColRevisionDate:
			reg.RevisionDate = cell
		case models.ColAmendedArticles:
			reg.AmendedArticles = cell
		case models.ColAmendmentSummary:
			reg.AmendmentSummary = cell
		case models.ColAmendmentType:
			reg.AmendmentType = cell
		case models.ColComparisonURL:
			reg.ComparisonURL = cell
		case models.ColReasonURL:
			reg.ReasonURL = cell
		case models.ColAISummary:
			reg.AISummary = cell
		case models.ColAIFollowUp:
			reg.AIFollowUp = cell
		}
	}
	return reg
}

func containsFold(haystack, lowerNeedle string) bool {
	return haystack != "" && strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

func distinct(regs []models.Regulation, field func(models.Regulation) string) []string {
	seen := make(map[string]struct{})
	for _, r := range regs {
		v := field(r)
		if v == "" || v == models.NoneValue {
			continue
		}
		seen[v] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
