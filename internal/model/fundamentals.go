package model

// PeriodValue is one labelled figure in a reporting period.
type PeriodValue struct {
	Period string  `yaml:"period" json:"period"`
	Value  float64 `yaml:"value" json:"value"`
}

// MarginPoint carries the profitability ratios (percent) for one period.
type MarginPoint struct {
	Period    string  `yaml:"period" json:"period"`
	Gross     float64 `yaml:"gross" json:"gross"`
	Operating float64 `yaml:"operating" json:"operating"`
	Net       float64 `yaml:"net" json:"net"`
}

// Segment is one slice of the revenue mix.
type Segment struct {
	Name  string  `yaml:"name" json:"name"`
	Share float64 `yaml:"share" json:"share"`
}

// Scenario holds the inputs of the forward valuation calculator.
type Scenario struct {
	ProjectedRevenue float64   `yaml:"projected_revenue" json:"projected_revenue"`
	NetCash          float64   `yaml:"net_cash" json:"net_cash"`
	Multiples        []float64 `yaml:"multiples" json:"multiples"`
	TargetPrice      float64   `yaml:"target_price" json:"target_price"`
}

// Fundamentals are the static figures behind the non-price charts.
type Fundamentals struct {
	SharesOutstanding float64       `yaml:"shares_outstanding" json:"shares_outstanding"`
	Revenue           []PeriodValue `yaml:"revenue" json:"revenue"`
	Margins           []MarginPoint `yaml:"margins" json:"margins"`
	Segments          []Segment     `yaml:"segments" json:"segments"`
	Scenario          Scenario      `yaml:"scenario" json:"scenario"`
}
