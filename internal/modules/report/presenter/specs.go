package presenter

import (
	"bikeshare-dashboard/internal/modules/report/preprocess"
	"bikeshare-dashboard/internal/modules/report/types"
)

const (
	PageTitle = "Bike Sharing Analysis Dashboard"

	description = `This dashboard provides insights into bike sharing data based on weather conditions, weekdays, and user patterns.`

	conclusion = `- **Pengaruh Cuaca**: Temperatur yang lebih tinggi cenderung meningkatkan penggunaan sepeda, terutama saat kondisi cuaca lebih cerah.
- **Hari Kerja vs Hari Libur**: Penggunaan sepeda lebih tinggi pada hari kerja, kemungkinan karena penggunaan untuk perjalanan rutin seperti ke kantor.
- **Outliers**: Analisis outliers membantu membersihkan data sehingga lebih siap untuk analisis lanjutan.`
)

// Specs returns the analyses of the report in page order.
func Specs() []types.ChartSpec {
	numeric := preprocess.NumericColumns()
	return []types.ChartSpec{
		{
			Slug:    "outliers",
			Kind:    types.ChartBox,
			Columns: numeric,
			Title:   "Pemeriksaan Outlier pada Kolom Numerik",
			Header:  "Data Cleaning",
			Text:    "Pemeriksaan Outlier pada Kolom Numerik",
		},
		{
			Slug:      "temperature",
			Kind:      types.ChartHistogram,
			X:         types.ColTemp,
			Bins:      20,
			Color:     "blue",
			Title:     "Distribusi Temperatur",
			XLabel:    "Temperatur (Normalized)",
			YLabel:    "Frekuensi",
			Header:    "Data Distribution",
			Subheader: "Distribusi Temperatur",
		},
		{
			Slug:      "humidity",
			Kind:      types.ChartHistogram,
			X:         types.ColHumidity,
			Bins:      20,
			Color:     "green",
			Title:     "Distribusi Kelembaban",
			XLabel:    "Kelembaban (Normalized)",
			YLabel:    "Frekuensi",
			Subheader: "Distribusi Kelembaban",
		},
		{
			Slug:    "correlation",
			Kind:    types.ChartHeatmap,
			Columns: numeric,
			Title:   "Heatmap Korelasi Variabel Numerik",
			Header:  "Correlation Analysis",
		},
		{
			Slug:   "weather",
			Kind:   types.ChartScatter,
			X:      types.ColTemp,
			Y:      types.ColCount,
			Hue:    types.ColWeather,
			Title:  "Pengaruh Temperatur terhadap Penggunaan Sepeda Berdasarkan Kondisi Cuaca",
			XLabel: "Temperatur (Normalized)",
			YLabel: "Jumlah Pengguna Sepeda (cnt)",
			Header: "Pengaruh Cuaca terhadap Penggunaan Sepeda",
		},
		{
			Slug:   "workingday",
			Kind:   types.ChartBox,
			X:      types.ColWorkingDay,
			Y:      types.ColCount,
			Title:  "Distribusi Penggunaan Sepeda pada Hari Kerja vs Hari Libur",
			XLabel: "Hari Kerja (0: Libur, 1: Kerja)",
			YLabel: "Jumlah Pengguna Sepeda (cnt)",
			Header: "Distribusi Penggunaan Sepeda pada Hari Kerja vs Hari Libur",
		},
	}
}

// SpecBySlug finds one of the report's analyses.
func SpecBySlug(slug string) (types.ChartSpec, bool) {
	for _, s := range Specs() {
		if s.Slug == slug {
			return s, true
		}
	}
	return types.ChartSpec{}, false
}
