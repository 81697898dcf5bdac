package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CryptoForecast/internal/model"
	"CryptoForecast/internal/recorder"
)

// FormatForecastReport formats one asset's forecast: starting price, median final
// price, 95% band and the annualized parameters it was simulated with.
func FormatForecastReport(fc *model.Forecast) string {
	var b strings.Builder
	final := fc.Final()

	b.WriteString(fmt.Sprintf("<b>%s Forecast</b> (%d days from %s)\n",
		fc.Symbol, fc.HorizonDays, fc.End.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Starting Price: $%s\n", formatMoney(fc.Params.LastPrice)))
	b.WriteString(fmt.Sprintf("Median Price: $%s\n", formatMoney(final.Median)))
	b.WriteString(fmt.Sprintf("95%% CI: [$%s, $%s]\n", formatMoney(final.Lower), formatMoney(final.Upper)))
	b.WriteString(fmt.Sprintf("Annualized Return (mu): %.2f%%\n", fc.Params.Mu*100))
	b.WriteString(fmt.Sprintf("Annualized Volatility (sigma): %.2f%%\n", fc.Params.Sigma*100))
	b.WriteString(fmt.Sprintf("Paths: %d | History: %s to %s\n",
		fc.NumPaths, fc.Start.Format("2006-01-02"), fc.End.Format("2006-01-02")))
	return b.String()
}

// FormatRunSummary joins per-asset reports and lists failed assets at the end.
func FormatRunSummary(reports []string, failures map[string]error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 <b>Monte Carlo Forecast</b> | %s\n\n", time.Now().Format("2006-01-02")))
	for _, r := range reports {
		b.WriteString(r)
		b.WriteString(strings.Repeat("-", 50))
		b.WriteString("\n")
	}
	if len(failures) > 0 {
		b.WriteString("\n❌ <b>Failed:</b>\n")
		for symbol, err := range failures {
			b.WriteString(fmt.Sprintf("  %s: %v\n", symbol, err))
		}
	}
	return b.String()
}

// FormatHistory lists recorded forecasts for one asset, newest first.
func FormatHistory(symbol string, records []recorder.ForecastRecord) string {
	if len(records) == 0 {
		return fmt.Sprintf("No recorded forecasts for %s", symbol)
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s forecast history</b>\n\n", symbol))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%s  start $%s → median $%s [$%s, $%s] (%dd, σ %.1f%%)\n",
			r.RecordedAt.Format("2006-01-02 15:04"),
			formatMoney(r.LastPrice), formatMoney(r.Final.Median),
			formatMoney(r.Final.Lower), formatMoney(r.Final.Upper),
			r.HorizonDays, r.Sigma*100))
	}
	return b.String()
}

// formatMoney renders v with two decimals and thousands separators.
func formatMoney(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
