package models

import "time"

type ChartView string

const (
	ChartRevenue ChartView = "revenue"
	ChartSales   ChartView = "sales"
	ChartPie     ChartView = "pie"
	ChartScatter ChartView = "scatter"
	ChartGrowth  ChartView = "growth"
	ChartAll     ChartView = "all"
)

var ChartViews = []ChartView{ChartRevenue, ChartSales, ChartPie, ChartScatter, ChartGrowth, ChartAll}

func (v ChartView) Valid() bool {
	for _, cv := range ChartViews {
		if cv == v {
			return true
		}
	}
	return false
}

// DailyAggregate is the revenue and entry count of one IST calendar date
type DailyAggregate struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Entries int     `json:"entries"`
}

// ReportRange bounds a report by IST dates, both inclusive. Nil means open.
type ReportRange struct {
	From *time.Time
	To   *time.Time
}

type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type CorrelationPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Entries int     `json:"entries"`
}

// ChartReport holds the series for one view. Series not in the view are omitted.
type ChartReport struct {
	View         ChartView          `json:"view"`
	From         string             `json:"from,omitempty"`
	To           string             `json:"to,omitempty"`
	Revenue      []ChartPoint       `json:"revenue,omitempty"`
	Sales        []ChartPoint       `json:"sales,omitempty"`
	Distribution []ChartPoint       `json:"distribution,omitempty"`
	Correlation  []CorrelationPoint `json:"correlation,omitempty"`
	Growth       []ChartPoint       `json:"growth,omitempty"`
	TotalRevenue float64            `json:"total_revenue"`
	TotalEntries int                `json:"total_entries"`
}
