package apartments

// CSS selectors for apartments.com unit rows
const (
	UnitContainerSelector = ".js-unitContainerV3"

	UnitNumberSelector   = ".unitColumn.column"
	SqFtSelector         = ".sqftColumn.column span:nth-child(2)"
	PriceSelector        = ".pricingColumn.column .screenReaderOnly + span"
	AvailabilitySelector = "span.dateAvailable"
)
