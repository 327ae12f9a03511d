package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"apartment-scraper/models"
	"apartment-scraper/utils"
)

// numberRegexp captures the first number in a price or square-footage cell,
// e.g. "$1,845" or "1,845 – 2,010".
var numberRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(records []*models.UnitRecord) *models.UnitSummary {
	report := &models.UnitSummary{}
	if len(records) == 0 {
		return report
	}

	var priceTotal, sqftTotal float64
	var sqftCount int

	for _, r := range records {
		if r == nil {
			continue
		}
		report.TotalUnits++

		if r.UnitNumber == "" || r.SqFt == "" || r.Price == "" || r.Availability == "" {
			report.Incomplete++
		}
		if strings.Contains(strings.ToLower(r.Availability), "now") {
			report.AvailableNow++
		}
		if sqft, ok := parseNumber(r.SqFt); ok {
			sqftTotal += sqft
			sqftCount++
		}

		price, ok := parseNumber(r.Price)
		if !ok || price <= 0 {
			continue
		}
		if report.PricedUnits == 0 || price < report.MinPrice {
			report.MinPrice = price
			report.Cheapest = r
		}
		if price > report.MaxPrice {
			report.MaxPrice = price
		}
		priceTotal += price
		report.PricedUnits++
	}

	if report.PricedUnits > 0 {
		report.AveragePrice = round2(priceTotal / float64(report.PricedUnits))
	}
	if sqftCount > 0 {
		report.AverageSqFt = round2(sqftTotal / float64(sqftCount))
	}

	s.logger.Debug("[summary] %d units, %d priced, %d incomplete",
		report.TotalUnits, report.PricedUnits, report.Incomplete)
	return report
}

func (s *SummaryService) Print(r *models.UnitSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏢 UNIT SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Units scraped        : \033[1m%d\033[0m\n", r.TotalUnits)
	fmt.Printf("  Available now        : \033[1m%d\033[0m\n", r.AvailableNow)
	fmt.Printf("  Missing some fields  : \033[1m%d\033[0m\n", r.Incomplete)
	if r.AverageSqFt > 0 {
		fmt.Printf("  Average size         : \033[1m%.0f sq ft\033[0m\n", r.AverageSqFt)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Rent (per month)\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.PricedUnits > 0 {
		fmt.Printf("  Average : \033[1;32m$%.2f\033[0m\n", r.AveragePrice)
		fmt.Printf("  Minimum : \033[1;32m$%.2f\033[0m\n", r.MinPrice)
		fmt.Printf("  Maximum : \033[1;32m$%.2f\033[0m\n", r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}

	if r.Cheapest != nil {
		fmt.Println()
		fmt.Printf("\033[1;33m  Cheapest Unit\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Unit      : %s\n", truncate(r.Cheapest.UnitNumber, 40))
		fmt.Printf("  Size      : %s\n", r.Cheapest.SqFt)
		fmt.Printf("  Price     : %s\n", r.Cheapest.Price)
		fmt.Printf("  Available : %s\n", r.Cheapest.Availability)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func parseNumber(raw string) (float64, bool) {
	match := numberRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
