package services

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-catalog-admin/app/helpers"
	"github.com/Rakhulsr/go-catalog-admin/app/models"
	"github.com/Rakhulsr/go-catalog-admin/app/repositories"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024

	csvTimeLayout = "2006-01-02 15:04:05.000"
)

// ProductColumns is the header of exported files. Imports accept any order
// and ignore unknown columns.
var ProductColumns = []string{"id", "name", "country", "description", "is_in_stock", "slug", "create_date", "update_date", "image", "category"}

// ImportEncodings are the file encodings the import form offers.
var ImportEncodings = []models.Choice{
	{Value: "utf-8", Label: "UTF-8"},
	{Value: "windows-1254", Label: "Windows-1254 (Turkish)"},
	{Value: "iso-8859-9", Label: "ISO-8859-9 (Latin-5)"},
	{Value: "windows-1252", Label: "Windows-1252 (Western)"},
}

func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	case "windows-1254":
		return charmap.Windows1254, nil
	case "iso-8859-9":
		return charmap.ISO8859_9, nil
	case "windows-1252":
		return charmap.Windows1252, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
}

// WriteProductsCSV streams products with their category ids.
func WriteProductsCSV(w io.Writer, products []models.Product) error {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	if err := writer.Write(ProductColumns); err != nil {
		return err
	}
	for i, p := range products {
		ids := make([]string, 0, len(p.Categories))
		for _, id := range p.CategoryIDs() {
			ids = append(ids, strconv.FormatUint(uint64(id), 10))
		}
		err := writer.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.CountryCode(),
			p.Description,
			formatBool(p.IsInStock),
			p.SlugValue(),
			p.CreateDate.UTC().Format(csvTimeLayout),
			p.UpdateDate.UTC().Format(csvTimeLayout),
			p.Image,
			strings.Join(ids, ","),
		})
		if err != nil {
			return err
		}
		if (i+1)%csvFlushEvery == 0 {
			writer.Flush()
			if err := writer.Error(); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return buf.Flush()
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// RowError reports the problems of one data row; Line counts the header as line 1.
type RowError struct {
	Line   int
	Errors map[string]string
}

type ImportErrors []RowError

func (e ImportErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, row := range e {
		fields := make([]string, 0, len(row.Errors))
		for _, col := range ProductColumns {
			if msg, ok := row.Errors[col]; ok {
				fields = append(fields, col+": "+msg)
			}
		}
		parts = append(parts, fmt.Sprintf("line %d: %s", row.Line, strings.Join(fields, "; ")))
	}
	return strings.Join(parts, " | ")
}

var ErrEmptyImport = errors.New("the file contains no product rows")

// ParseProductsCSV reads an import file. Either every row is valid or the
// returned error is ImportErrors listing each invalid row.
func ParseProductsCSV(r io.Reader, enc string) ([]repositories.ProductImport, error) {
	decoder, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(transform.NewReader(r, decoder.NewDecoder()))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, required := range []string{"name", "description"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	present := make(map[string]bool, len(index))
	for col := range index {
		present[col] = true
	}

	var (
		rows    []repositories.ProductImport
		invalid ImportErrors
		line    = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv read error: %w", err)
		}
		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}
		if isBlank(record) {
			continue
		}
		row, fieldErrs := parseProductRow(get, present)
		if len(fieldErrs) > 0 {
			invalid = append(invalid, RowError{Line: line, Errors: fieldErrs})
			continue
		}
		rows = append(rows, row)
	}
	if len(invalid) > 0 {
		return nil, invalid
	}
	if len(rows) == 0 {
		return nil, ErrEmptyImport
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseProductRow fills only the fields whose column is in the file. Country
// falls back to the model default when the file has no country column.
func parseProductRow(get func(string) string, present map[string]bool) (repositories.ProductImport, map[string]string) {
	errs := make(map[string]string)
	row := repositories.ProductImport{Columns: present}
	p := &row.Product

	if s := get("id"); s != "" {
		id, ok := helpers.ParseID(s)
		if !ok {
			errs["id"] = "Enter a whole number."
		}
		p.ID = id
	}

	p.Name = get("name")
	switch {
	case p.Name == "":
		errs["name"] = "This field is required."
	case len([]rune(p.Name)) > 100:
		errs["name"] = "Ensure this value has at most 100 characters."
	}

	p.Description = get("description")
	if p.Description == "" {
		errs["description"] = "This field is required."
	}

	if c := strings.ToUpper(get("country")); c != "" {
		if models.CountryLabel(c) == c {
			errs["country"] = fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", c)
		}
		p.Country = &c
	} else if !present["country"] {
		c := models.DefaultCountry
		p.Country = &c
	}

	p.IsInStock = true
	if s := get("is_in_stock"); s != "" {
		v, ok := parseBool(s)
		if !ok {
			errs["is_in_stock"] = fmt.Sprintf("“%s” value must be either True or False.", s)
		}
		p.IsInStock = v
	}

	if s := get("slug"); s != "" {
		switch {
		case len(s) > helpers.SlugMaxLength:
			errs["slug"] = "Ensure this value has at most 50 characters."
		case !helpers.IsSlug(s):
			errs["slug"] = "Enter a valid “slug” consisting of letters, numbers, underscores or hyphens."
		}
		p.Slug = &s
	}

	if s := get("image"); s != "" {
		if !strings.HasPrefix(s, models.ImageNamespace) || strings.Contains(s, "..") {
			errs["image"] = "Images must live under " + models.ImageNamespace + "."
		}
		p.Image = s
	}

	if s := get("category"); s != "" {
		for _, part := range strings.Split(s, ",") {
			id, ok := helpers.ParseID(part)
			if !ok {
				errs["category"] = fmt.Sprintf("“%s” is not a valid category id.", strings.TrimSpace(part))
				break
			}
			row.CategoryIDs = append(row.CategoryIDs, id)
		}
	}
	return row, errs
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y", "t":
		return true, true
	case "0", "false", "no", "n", "f":
		return false, true
	}
	return false, false
}

// ExportFilename names a download after the model and the export time.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("Product-%s.csv", now.UTC().Format("2006-01-02"))
}
