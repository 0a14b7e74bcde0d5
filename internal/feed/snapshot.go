// Package feed decodes tick snapshot fixtures: one JSON object per line,
// prices and quantities as decimal strings converted to scaled integers
// using the symbol's configured scale.
package feed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/yanun0323/decimal"

	"marketmaker/internal/schema"
)

type bookJSON struct {
	Bids     [][]decimal.Decimal `json:"bids"`
	Asks     [][]decimal.Decimal `json:"asks"`
	Position int64               `json:"position"`
	Last     decimal.Decimal     `json:"last"`
}

type tickJSON struct {
	Time  int64               `json:"time"`
	Books map[string]bookJSON `json:"books"`
}

// Decoder reads tick snapshots line by line.
type Decoder struct {
	s   *bufio.Scanner
	reg *schema.Registry
	ln  int
}

// NewDecoder wraps a reader with snapshot decoding against a registry.
func NewDecoder(r io.Reader, reg *schema.Registry) *Decoder {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Decoder{s: s, reg: reg}
}

// Next returns the next tick, or io.EOF when the input is exhausted.
func (d *Decoder) Next() (schema.Tick, error) {
	for d.s.Scan() {
		d.ln++
		line := d.s.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw tickJSON
		if err := json.Unmarshal(line, &raw); err != nil {
			return schema.Tick{}, fmt.Errorf("snapshot line %d: %w", d.ln, err)
		}
		tick, err := d.resolve(raw)
		if err != nil {
			return schema.Tick{}, fmt.Errorf("snapshot line %d: %w", d.ln, err)
		}
		return tick, nil
	}
	if err := d.s.Err(); err != nil {
		return schema.Tick{}, err
	}
	return schema.Tick{}, io.EOF
}

func (d *Decoder) resolve(raw tickJSON) (schema.Tick, error) {
	tick := schema.Tick{Time: raw.Time, Books: make(map[schema.SymbolID]schema.Book, len(raw.Books))}
	for name, rb := range raw.Books {
		id, ok := d.reg.SymbolByName(name)
		if !ok {
			return schema.Tick{}, fmt.Errorf("symbol not found: %s", name)
		}
		symbol, _ := d.reg.Symbol(id)
		book, err := resolveBook(rb, symbol.Scale)
		if err != nil {
			return schema.Tick{}, fmt.Errorf("%s: %w", name, err)
		}
		tick.Books[id] = book
	}
	return tick, nil
}

func resolveBook(rb bookJSON, scale schema.ScaleSpec) (schema.Book, error) {
	book := schema.Book{Position: schema.Quantity(rb.Position)}
	var err error
	if book.Ladder.Bids, err = resolveLevels(rb.Bids, scale); err != nil {
		return schema.Book{}, fmt.Errorf("bids: %w", err)
	}
	if book.Ladder.Asks, err = resolveLevels(rb.Asks, scale); err != nil {
		return schema.Book{}, fmt.Errorf("asks: %w", err)
	}
	if s := rb.Last.String(); s != "" && s != "0" {
		last, err := scaledInt(rb.Last, scale.PriceScale)
		if err != nil {
			return schema.Book{}, fmt.Errorf("last: %w", err)
		}
		book.LastPrice = schema.Price(last)
	}
	return book, nil
}

func resolveLevels(rows [][]decimal.Decimal, scale schema.ScaleSpec) ([]schema.PriceLevel, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	levels := make([]schema.PriceLevel, 0, len(rows))
	for i, row := range rows {
		if len(row) != 2 {
			return nil, fmt.Errorf("level %d: want [price, qty], got %d values", i, len(row))
		}
		price, err := scaledInt(row[0], scale.PriceScale)
		if err != nil {
			return nil, fmt.Errorf("level %d price: %w", i, err)
		}
		qty, err := scaledInt(row[1], scale.QuantityScale)
		if err != nil {
			return nil, fmt.Errorf("level %d qty: %w", i, err)
		}
		levels = append(levels, schema.PriceLevel{Price: schema.Price(price), Qty: schema.Quantity(qty)})
	}
	return levels, nil
}
