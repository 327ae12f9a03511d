package models

// Column names of the exported table, in output order.
const (
	ColUnitNumber   = "unit_number"
	ColSqFt         = "sq_ft"
	ColPrice        = "price"
	ColAvailability = "availability"
)

// Columns lists the exported header row.
var Columns = []string{ColUnitNumber, ColSqFt, ColPrice, ColAvailability}

// UnitRecord is one rentable unit as read from the listing page.
// Every field is a best-effort string; a field whose selector did not
// resolve is left empty.
type UnitRecord struct {
	UnitNumber   string
	SqFt         string
	Price        string
	Availability string
}

// Values returns the record's cells in Columns order.
func (u *UnitRecord) Values() []string {
	return []string{u.UnitNumber, u.SqFt, u.Price, u.Availability}
}

// UnitSummary holds aggregate figures computed over a scraped result set.
type UnitSummary struct {
	TotalUnits   int
	PricedUnits  int
	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64
	Cheapest     *UnitRecord
	AverageSqFt  float64
	AvailableNow int
	Incomplete   int
}
