package dashboard

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rogerio-castellano/pos-manager/internal/models"
)

const noProducts = "No products found."

// ProductFrame lays the products out as a DataFrame with one column per field.
func ProductFrame(products []models.Product) dataframe.DataFrame {
	ids := make([]int, len(products))
	names := make([]string, len(products))
	descriptions := make([]string, len(products))
	prices := make([]string, len(products))
	stocks := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		names[i] = p.Name
		descriptions[i] = p.Description
		prices[i] = p.Price.StringFixed(2)
		stocks[i] = p.Stock
	}

	return dataframe.New(
		series.New(ids, series.Int, "id"),
		series.New(names, series.String, "name"),
		series.New(descriptions, series.String, "description"),
		series.New(prices, series.String, "price"),
		series.New(stocks, series.Int, "stock"),
	)
}

// Render writes the products as an aligned table.
func Render(w io.Writer, products []models.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, noProducts)
		return err
	}

	df := ProductFrame(products)
	if df.Err != nil {
		return df.Err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, record := range df.Records() {
		if _, err := fmt.Fprintln(tw, strings.Join(record, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func RenderMetrics(w io.Writer, m Metrics) error {
	rows := [][2]string{
		{"Products", strconv.Itoa(m.TotalProducts)},
		{"Out of stock", strconv.Itoa(m.OutOfStockCount)},
		{"Transactions", strconv.Itoa(m.TotalTransactions)},
		{"Revenue", m.Revenue.StringFixed(2)},
	}
	if m.BestSeller.UnitsSold > 0 {
		rows = append(rows, [2]string{"Best seller", fmt.Sprintf("%s (%d units)", m.BestSeller.Name, m.BestSeller.UnitsSold)})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
