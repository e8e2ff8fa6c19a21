package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestWriteProductsCSV(t *testing.T) {
	country, slug := "TR", "cay"
	created := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)
	products := []models.Product{
		{
			ID: 7, Name: "Çay, demlik", Country: &country, Description: "<p>hot</p>", IsInStock: true,
			Slug: &slug, CreateDate: created, UpdateDate: created.Add(time.Hour),
			Categories: []models.Category{{ID: 1}, {ID: 3}},
		},
		{ID: 8, Name: "Lamp", Description: "d", CreateDate: created, UpdateDate: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, products))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(ProductColumns, ","), lines[0])
	assert.Equal(t, `7,"Çay, demlik",TR,<p>hot</p>,1,cay,2024-03-05 10:30:00.000,2024-03-05 11:30:00.000,,"1,3"`, lines[1])
	assert.Equal(t, `8,Lamp,,d,0,,2024-03-05 10:30:00.000,2024-03-05 10:30:00.000,,`, lines[2])
}

func TestExportThenParseKeepsFields(t *testing.T) {
	country, slug := "FR", "baguette"
	now := time.Now().UTC()
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, []models.Product{{
		ID: 4, Name: "Baguette", Country: &country, Description: "bread", Slug: &slug,
		CreateDate: now, UpdateDate: now, Image: "product/b.png", Categories: []models.Category{{ID: 2}},
	}}))

	rows, err := ParseProductsCSV(&buf, "utf-8")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0]
	assert.Equal(t, uint(4), got.Product.ID)
	assert.Equal(t, "FR", got.Product.CountryCode())
	assert.Equal(t, "baguette", got.Product.SlugValue())
	assert.False(t, got.Product.IsInStock)
	assert.Equal(t, "product/b.png", got.Product.Image)
	assert.Equal(t, []uint{2}, got.CategoryIDs)
	assert.True(t, got.Product.CreateDate.IsZero(), "timestamps are managed by the model")
}

func TestParseProductsCSVDefaultsAndOrder(t *testing.T) {
	in := "\ufeffdescription,Name,unknown\nsome text,Lamp,x\n,,\n"
	rows, err := ParseProductsCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Lamp", rows[0].Product.Name)
	assert.Zero(t, rows[0].Product.ID)
	assert.True(t, rows[0].Product.IsInStock)
	assert.Equal(t, "DE", rows[0].Product.CountryCode())
	assert.True(t, rows[0].Columns["name"])
	assert.False(t, rows[0].Columns["category"])
	assert.False(t, rows[0].Columns["slug"])
}

func TestParseProductsCSVKeepsBlankCountryWhenColumnPresent(t *testing.T) {
	in := "name,description,country\nLamp,text,\n"
	rows, err := ParseProductsCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Product.Country)
	assert.True(t, rows[0].Columns["country"])
}

func TestParseProductsCSVReportsEveryBadRow(t *testing.T) {
	in := strings.Join([]string{
		"id,name,description,country,is_in_stock,slug,category",
		"x,,d,XX,maybe,bad slug,1;2",
		",Fine,d,DE,true,fine,1",
		",Also bad,,,,,",
	}, "\n")
	_, err := ParseProductsCSV(strings.NewReader(in), "utf-8")
	require.Error(t, err)

	var rowErrs ImportErrors
	require.ErrorAs(t, err, &rowErrs)
	require.Len(t, rowErrs, 2)
	assert.Equal(t, 2, rowErrs[0].Line)
	for _, col := range []string{"id", "name", "country", "is_in_stock", "slug", "category"} {
		assert.Contains(t, rowErrs[0].Errors, col)
	}
	assert.Equal(t, 4, rowErrs[1].Line)
	assert.Contains(t, rowErrs[1].Errors, "description")
	assert.Contains(t, err.Error(), "line 2: id:")
}

func TestParseProductsCSVDecodesLegacyEncodings(t *testing.T) {
	raw, err := charmap.Windows1254.NewEncoder().String("name,description\nÇay bardağı,şık\n")
	require.NoError(t, err)

	rows, err := ParseProductsCSV(strings.NewReader(raw), "windows-1254")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Çay bardağı", rows[0].Product.Name)
	assert.Equal(t, "şık", rows[0].Product.Description)

	_, err = ParseProductsCSV(strings.NewReader(raw), "ebcdic")
	assert.Error(t, err)
}

func TestParseProductsCSVRejectsEmptyFiles(t *testing.T) {
	_, err := ParseProductsCSV(strings.NewReader(""), "utf-8")
	assert.ErrorIs(t, err, ErrEmptyImport)

	_, err = ParseProductsCSV(strings.NewReader("name,description\n"), "utf-8")
	assert.ErrorIs(t, err, ErrEmptyImport)

	_, err = ParseProductsCSV(strings.NewReader("name\nLamp\n"), "utf-8")
	assert.ErrorContains(t, err, `"description"`)
}
