package dashboard

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rogerio-castellano/pos-manager/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, nil))
	assert.Equal(t, "No products found.\n", buf.String())
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, []models.Product{
		{ID: 1, Name: "Coffee", Price: decimal.RequireFromString("2.5"), Stock: 10},
		{ID: 2, Name: "Sandwich", Description: "ham", Price: decimal.RequireFromString("9.99"), Stock: 5},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"id", "name", "description", "price", "stock"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1", "Coffee", "2.50", "10"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "Sandwich", "ham", "9.99", "5"}, strings.Fields(lines[2]))
}

func TestProductFrame(t *testing.T) {
	df := ProductFrame([]models.Product{{ID: 7, Name: "Tea", Price: decimal.NewFromInt(3), Stock: 0}})
	require.NoError(t, df.Err)
	assert.Equal(t, 1, df.Nrow())
	assert.Equal(t, []string{"id", "name", "description", "price", "stock"}, df.Names())
}

func TestRenderMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderMetrics(&buf, Metrics{
		TotalProducts:     2,
		TotalTransactions: 1,
		Revenue:           decimal.RequireFromString("17.49"),
		BestSeller:        BestSeller{ProductID: 1, Name: "Coffee", UnitsSold: 3},
	}))
	out := buf.String()
	assert.Contains(t, out, "17.49")
	assert.Contains(t, out, "Coffee (3 units)")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRenderMetrics_WriteError(t *testing.T) {
	err := RenderMetrics(failingWriter{}, Metrics{TotalProducts: 1})
	assert.Error(t, err)
}
