package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf/v2"
	"parking-backend/internal/cache"
	"parking-backend/internal/models"
	"parking-backend/internal/timeutil"
	"parking-backend/internal/validation"
)

// ReportService aggregates revenue and sales per day for the charts
type ReportService struct {
	Reports ReportStore
	Clock   timeutil.Clock
}

func NewReportService(reports ReportStore, clock timeutil.Clock) *ReportService {
	return &ReportService{Reports: reports, Clock: clock}
}

// ParseRange reads optional YYYY-MM-DD bounds
func ParseRange(from, to string) (models.ReportRange, error) {
	var rng models.ReportRange
	if from != "" {
		t, err := timeutil.ParseDate(from)
		if err != nil {
			return rng, validation.New("from", "Date must be YYYY-MM-DD")
		}
		rng.From = &t
	}
	if to != "" {
		t, err := timeutil.ParseDate(to)
		if err != nil {
			return rng, validation.New("to", "Date must be YYYY-MM-DD")
		}
		rng.To = &t
	}
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return rng, validation.New("to", "End date is before start date")
	}
	return rng, nil
}

func rangeLabels(rng models.ReportRange) (string, string) {
	var from, to string
	if rng.From != nil {
		from = timeutil.FormatIST(*rng.From, timeutil.DateLayout)
	}
	if rng.To != nil {
		to = timeutil.FormatIST(*rng.To, timeutil.DateLayout)
	}
	return from, to
}

// Chart returns the series of one view, served from cache when possible
func (s *ReportService) Chart(ctx context.Context, view models.ChartView, rng models.ReportRange) (*models.ChartReport, error) {
	if !view.Valid() {
		return nil, validation.New("view", "Chart must be one of revenue, sales, pie, scatter, growth, all")
	}

	from, to := rangeLabels(rng)
	key := cache.ReportKey(string(view), from, to)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cached models.ChartReport
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	days, err := s.Reports.DailyTotals(ctx, rng)
	if err != nil {
		return nil, err
	}

	report := BuildChart(view, days)
	report.From, report.To = from, to

	if data, err := json.Marshal(report); err == nil {
		cache.SetCached(ctx, key, data, cache.ReportTTL)
	}
	return report, nil
}

// BuildChart derives the series of a view from daily totals ordered by date
func BuildChart(view models.ChartView, days []models.DailyAggregate) *models.ChartReport {
	report := &models.ChartReport{View: view}
	for _, d := range days {
		report.TotalRevenue += d.Revenue
		report.TotalEntries += d.Entries
	}
	report.TotalRevenue = round2(report.TotalRevenue)

	all := view == models.ChartAll
	if all || view == models.ChartRevenue {
		report.Revenue = make([]models.ChartPoint, 0, len(days))
		for _, d := range days {
			report.Revenue = append(report.Revenue, models.ChartPoint{Label: d.Date, Value: d.Revenue})
		}
	}
	if all || view == models.ChartSales {
		report.Sales = make([]models.ChartPoint, 0, len(days))
		for _, d := range days {
			report.Sales = append(report.Sales, models.ChartPoint{Label: d.Date, Value: float64(d.Entries)})
		}
	}
	if all || view == models.ChartPie {
		report.Distribution = make([]models.ChartPoint, 0, len(days))
		for _, d := range days {
			share := 0.0
			if report.TotalRevenue > 0 {
				share = round2(d.Revenue / report.TotalRevenue * 100)
			}
			report.Distribution = append(report.Distribution, models.ChartPoint{Label: d.Date, Value: share})
		}
	}
	if all || view == models.ChartScatter {
		report.Correlation = make([]models.CorrelationPoint, 0, len(days))
		for _, d := range days {
			report.Correlation = append(report.Correlation, models.CorrelationPoint{Date: d.Date, Revenue: d.Revenue, Entries: d.Entries})
		}
	}
	if all || view == models.ChartGrowth {
		report.Growth = make([]models.ChartPoint, 0, len(days))
		for i, d := range days {
			delta := 0.0
			if i > 0 {
				delta = round2(d.Revenue - days[i-1].Revenue)
			}
			report.Growth = append(report.Growth, models.ChartPoint{Label: d.Date, Value: delta})
		}
	}
	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ChartPDF draws the chosen view on A4 landscape pages
func (s *ReportService) ChartPDF(ctx context.Context, view models.ChartView, rng models.ReportRange) ([]byte, error) {
	report, err := s.Chart(ctx, view, rng)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)

	subtitle := fmt.Sprintf("Generated: %s", s.Clock.Now().Format("02-Jan-2006 03:04 PM"))
	if report.From != "" || report.To != "" {
		subtitle = fmt.Sprintf("%s to %s | %s", orDash(report.From), orDash(report.To), subtitle)
	}

	if report.Revenue != nil {
		chartPage(pdf, "Revenue Trend", subtitle)
		drawBars(pdf, report.Revenue, "Rs. ")
	}
	if report.Sales != nil {
		chartPage(pdf, "Sales Trend", subtitle)
		drawBars(pdf, report.Sales, "")
	}
	if report.Distribution != nil {
		chartPage(pdf, "Revenue Distribution", subtitle)
		drawPie(pdf, report.Distribution)
	}
	if report.Correlation != nil {
		chartPage(pdf, "Revenue vs Sales", subtitle)
		drawScatter(pdf, report.Correlation)
	}
	if report.Growth != nil {
		chartPage(pdf, "Revenue Growth", subtitle)
		drawBars(pdf, report.Growth, "Rs. ")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(267, 8, fmt.Sprintf("Total Revenue: Rs. %.2f    Total Vehicles: %d", report.TotalRevenue, report.TotalEntries),
		"", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Chart area on an A4 landscape page
const (
	chartLeft   = 30.0
	chartTop    = 40.0
	chartWidth  = 240.0
	chartHeight = 120.0
)

func chartPage(pdf *gofpdf.Fpdf, title, subtitle string) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(267, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(267, 6, subtitle, "", 1, "C", false, 0, "")
}

func noData(pdf *gofpdf.Fpdf) {
	pdf.SetXY(chartLeft, chartTop+chartHeight/2)
	pdf.SetFont("Arial", "I", 12)
	pdf.CellFormat(chartWidth, 8, "No data for this period", "", 1, "C", false, 0, "")
	pdf.SetY(chartTop + chartHeight + 15)
}

// drawBars handles negative values by moving the baseline up
func drawBars(pdf *gofpdf.Fpdf, points []models.ChartPoint, prefix string) {
	if len(points) == 0 {
		noData(pdf)
		return
	}

	maxV, minV := 0.0, 0.0
	for _, p := range points {
		maxV = math.Max(maxV, p.Value)
		minV = math.Min(minV, p.Value)
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}
	baseline := chartTop + chartHeight*maxV/span

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(chartLeft, chartTop, chartLeft, chartTop+chartHeight)
	pdf.Line(chartLeft, baseline, chartLeft+chartWidth, baseline)

	slot := chartWidth / float64(len(points))
	barW := slot * 0.6
	pdf.SetFont("Arial", "", 7)
	for i, p := range points {
		h := chartHeight * math.Abs(p.Value) / span
		x := chartLeft + float64(i)*slot + (slot-barW)/2
		y := baseline - h
		if p.Value < 0 {
			y = baseline
			pdf.SetFillColor(220, 80, 80)
		} else {
			pdf.SetFillColor(70, 130, 180)
		}
		pdf.Rect(x, y, barW, h, "F")

		pdf.SetXY(x-2, y-5)
		pdf.CellFormat(barW+4, 4, fmt.Sprintf("%s%.0f", prefix, p.Value), "", 0, "C", false, 0, "")
		pdf.TransformBegin()
		pdf.TransformRotate(45, x+barW/2, chartTop+chartHeight+4)
		pdf.Text(x+barW/2-14, chartTop+chartHeight+4, p.Label)
		pdf.TransformEnd()
	}
	pdf.SetY(chartTop + chartHeight + 20)
}

var pieColors = [][3]int{
	{70, 130, 180}, {240, 128, 60}, {60, 179, 113}, {220, 80, 80},
	{147, 112, 219}, {205, 133, 63}, {255, 182, 193}, {128, 128, 128},
}

func drawPie(pdf *gofpdf.Fpdf, points []models.ChartPoint) {
	total := 0.0
	for _, p := range points {
		total += p.Value
	}
	if total == 0 {
		noData(pdf)
		return
	}

	cx, cy, r := chartLeft+60, chartTop+chartHeight/2, 55.0
	start := -math.Pi / 2
	pdf.SetFont("Arial", "", 9)
	for i, p := range points {
		if p.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * p.Value / total
		c := pieColors[i%len(pieColors)]
		pdf.SetFillColor(c[0], c[1], c[2])

		// approximate the wedge with a polygon, one vertex per ~2 degrees
		steps := int(math.Ceil(sweep / (math.Pi / 90)))
		pts := []gofpdf.PointType{{X: cx, Y: cy}}
		for k := 0; k <= steps; k++ {
			a := start + sweep*float64(k)/float64(steps)
			pts = append(pts, gofpdf.PointType{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
		}
		pdf.Polygon(pts, "F")
		start += sweep

		// legend
		ly := chartTop + float64(i)*7
		pdf.Rect(chartLeft+140, ly, 5, 5, "F")
		pdf.SetXY(chartLeft+148, ly)
		pdf.CellFormat(80, 5, fmt.Sprintf("%s  %.2f%%", p.Label, p.Value), "", 0, "L", false, 0, "")
	}
	pdf.SetY(chartTop + chartHeight + 15)
}

func drawScatter(pdf *gofpdf.Fpdf, points []models.CorrelationPoint) {
	if len(points) == 0 {
		noData(pdf)
		return
	}

	maxRev, maxEntries := 0.0, 0
	for _, p := range points {
		maxRev = math.Max(maxRev, p.Revenue)
		if p.Entries > maxEntries {
			maxEntries = p.Entries
		}
	}
	if maxRev == 0 {
		maxRev = 1
	}
	if maxEntries == 0 {
		maxEntries = 1
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.Line(chartLeft, chartTop, chartLeft, chartTop+chartHeight)
	pdf.Line(chartLeft, chartTop+chartHeight, chartLeft+chartWidth, chartTop+chartHeight)

	pdf.SetFont("Arial", "", 8)
	pdf.Text(chartLeft+chartWidth/2-10, chartTop+chartHeight+10, "Vehicles")
	pdf.Text(chartLeft-22, chartTop-3, fmt.Sprintf("Rs. %.0f", maxRev))
	pdf.Text(chartLeft+chartWidth-5, chartTop+chartHeight+5, fmt.Sprintf("%d", maxEntries))

	pdf.SetFillColor(70, 130, 180)
	for _, p := range points {
		x := chartLeft + chartWidth*float64(p.Entries)/float64(maxEntries)
		y := chartTop + chartHeight - chartHeight*p.Revenue/maxRev
		pdf.Circle(x, y, 1.8, "F")
	}
	pdf.SetY(chartTop + chartHeight + 15)
}
