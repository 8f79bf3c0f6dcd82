package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ReadHTML reads the first <table> element of an HTML document. The header
// comes from the first row; cells are trimmed of surrounding whitespace and
// empty cells are null.
func ReadHTML(r io.Reader, opts ...ReadOption) (*Table, error) {
	o := buildOptions(opts)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	tbl := doc.Find("table").First()
	if tbl.Length() == 0 {
		return nil, fmt.Errorf("%w: document has no table element", ErrNoHeader)
	}

	var records [][]string
	tbl.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// Rows of tables nested inside this one belong to the inner table.
		if tr.Closest("table").Get(0) != tbl.Get(0) {
			return
		}
		var rec []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			c := cell.Clone()
			c.Find("table").Remove()
			rec = append(rec, strings.TrimSpace(c.Text()))
		})
		if len(rec) > 0 {
			records = append(records, rec)
		}
	})
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	return fromRecords(records[0], records[1:], 2, o)
}
