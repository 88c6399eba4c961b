package report

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// NetBar builds a bar chart of gross/exempted/net counts per roster member.
func NetBar(title string, s Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
	)

	labels := make([]string, len(s.Rows))
	gross := make([]opts.BarData, len(s.Rows))
	exempted := make([]opts.BarData, len(s.Rows))
	net := make([]opts.BarData, len(s.Rows))
	for i, row := range s.Rows {
		labels[i] = row.Member
		gross[i] = opts.BarData{Value: row.Gross}
		exempted[i] = opts.BarData{Value: row.Exempted}
		net[i] = opts.BarData{Value: row.Net}
	}

	bar.SetXAxis(labels).
		AddSeries("Gross", gross).
		AddSeries("Exempted", exempted).
		AddSeries("Net", net)
	return bar
}

// SharePie builds a donut of the roster's net share against everyone else.
func SharePie(title string, rosterNet, totalNet int) *charts.Pie {
	others := totalNet - rosterNet
	if others < 0 {
		others = 0
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("share", []opts.PieData{
		{Name: "Roster", Value: rosterNet},
		{Name: "Other Teams", Value: others},
	}).SetSeriesOptions(
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

// TrendLine builds a per-member line chart over the matrix buckets.
func TrendLine(title string, m Matrix) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "500px"}),
	)

	line.SetXAxis(m.Buckets)
	for i, member := range m.Members {
		data := make([]opts.LineData, len(m.Buckets))
		for j, v := range m.Net[i] {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(member, data)
	}
	return line
}

// ChartsPage assembles the report's charts into one renderable page.
func ChartsPage(rep Report) *components.Page {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		NetBar("Net Contributions - Week "+rep.Week.String(), rep.WeekSummary),
		NetBar("Net Contributions - "+rep.Month.Display(), rep.MonthSummary),
		SharePie("Roster Share - Week "+rep.Week.String(), rep.WeekSummary.RosterNet(), rep.WeekSummary.TotalNet()),
		SharePie("Roster Share - "+rep.Month.Display(), rep.MonthSummary.RosterNet(), rep.MonthSummary.TotalNet()),
		TrendLine("Weekly Net Trend", rep.Weekly),
	)
	return page
}
