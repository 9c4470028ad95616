package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/complianceguard/regdash/internal/models"
	"github.com/complianceguard/regdash/internal/services"
)

// Debug tool: dump what the loader actually sees in a regulation workbook.
func main() {
	month := flag.Int("month", int(time.Now().Month()), "month to filter effective dates on")
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		path = os.Getenv("EXCEL_PATH")
	}
	if path == "" {
		path = "./data/regulations.xlsx"
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Workbook: %s\nSheet: %s\nRaw rows: %d\n", path, sheet, len(rows))
	if len(rows) > 0 {
		fmt.Printf("Headers: %v\n", rows[0])
	}

	store := services.NewExcelStore(path, time.Minute)
	regs, err := store.LoadAll()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Valid regulations: %d\n", len(regs))

	departments, err := store.Departments()
	if err != nil {
		log.Fatal(err)
	}
	when := time.Date(time.Now().Year(), time.Month(*month), 1, 0, 0, 0, 0, time.Local)

	fmt.Printf("\n=== Departments (%d) ===\n", len(departments))
	for _, dept := range departments {
		due := services.RegulationsForMonth(regs, dept, when)
		fmt.Printf("%-20s total=%d month%02d=%d\n", dept, countByDepartment(regs, dept), *month, len(due))
		for _, r := range due {
			fmt.Printf("    %s: %s (%s)\n", r.Seq, r.LawName, r.EffectiveDate)
		}
	}

	fmt.Printf("\n=== Effective date samples ===\n")
	for i, r := range regs {
		if i >= 10 {
			break
		}
		fmt.Printf("%s: %s -> %q\n", r.Seq, r.LawName, r.EffectiveDate)
	}
}

func countByDepartment(regs []models.Regulation, dept string) int {
	n := 0
	for _, r := range regs {
		if r.Department == dept {
			n++
		}
	}
	return n
}
