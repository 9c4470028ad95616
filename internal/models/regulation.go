package models

// Column headers of the source workbook, first row of the first sheet.
// The file is maintained by the legal team in Korean; header text is the
// contract, column position is not.
const (
	ColSeq              = "번호"
	ColProclamationNo   = "공포번호"
	ColProclamationDate = "공포일자"
	ColEffectiveDate    = "시행일자"
	ColAbbreviation     = "법령(약칭)"
	ColLawName          = "법률명"
	ColLawType          = "법령종류"
	ColMinistry         = "소관부처"
	ColScheduled        = "예정"
	ColDepartment       = "담당부서"
	ColManager          = "담당자"
	ColRevisionDate     = "제/개정일(시행일)"
	ColAmendedArticles  = "개정 법률 조항"
	ColAmendmentSummary = "주요 개정 내용"
	ColAmendmentType    = "제정·개정구분"
	ColComparisonURL    = "신구법비교_URL"
	ColReasonURL        = "제정/개정 이유_URL"
	ColAISummary        = "AI 주요 개정 정리"
	ColAIFollowUp       = "AI 후속 조치 사항"
)

// NoneValue is the literal placeholder the legal team uses for absent values.
const NoneValue = "None"

// AIFollowUpEmpty is the literal the AI pipeline writes when a regulation
// needs no follow-up action.
const AIFollowUpEmpty = "내용/조치사항 없음"

// Regulation is one parsed row of the source workbook. All fields are kept
// as the free text found in the cell; date fields in particular are
// inconsistently formatted (YYYY-MM-DD, YYYY.MM, or "None") and must not be
// parsed as dates.
type Regulation struct {
	Seq              string `json:"seq"`
	ProclamationNo   string `json:"proclamationNo"`
	ProclamationDate string `json:"proclamationDate"`
	EffectiveDate    string `json:"effectiveDate"`
	Abbreviation     string `json:"abbreviation"`
	LawName          string `json:"lawName"`
	LawType          string `json:"lawType"`
	Ministry         string `json:"ministry"`
	Scheduled        string `json:"scheduled"`
	Department       string `json:"department"`
	Manager          string `json:"manager"`
	RevisionDate     string `json:"revisionDate"`
	AmendedArticles  string `json:"amendedArticles"`
	AmendmentSummary string `json:"amendmentSummary"`
	AmendmentType    string `json:"amendmentType"`
	ComparisonURL    string `json:"comparisonUrl"`
	ReasonURL        string `json:"reasonUrl"`
	AISummary        string `json:"aiSummary"`
	AIFollowUp       string `json:"aiFollowUp"`
}

// Valid reports whether a parsed row should be retained: a row needs a
// sequence number and a law name, and a sequence number equal to its own
// header label marks a repeated header row mid-file.
func (r Regulation) Valid() bool {
	return r.Seq != "" && r.LawName != "" && r.Seq != ColSeq
}

// HasFollowUp reports whether the AI pipeline flagged this regulation with
// a concrete follow-up action.
func (r Regulation) HasFollowUp() bool {
	return r.AIFollowUp != "" && r.AIFollowUp != AIFollowUpEmpty
}
