package tracelog

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Event is one parsed trace line.
type Event struct {
	Time   int64
	Action string
	Qty    int64
	Price  int64
}

// Reader decodes trace lines sequentially. Lines with a token count other
// than 3 or 4, or with unparsable numeric tokens, are skipped and counted.
type Reader struct {
	s           *bufio.Scanner
	currentTime int64
	skipped     int
}

// NewReader wraps an io.Reader with trace decoding.
func NewReader(r io.Reader) *Reader {
	return &Reader{s: bufio.NewScanner(r)}
}

// Next returns the next well-formed event, or io.EOF when the input is
// exhausted.
func (r *Reader) Next() (Event, error) {
	for r.s.Scan() {
		e, ok := r.parse(strings.Fields(r.s.Text()))
		if !ok {
			r.skipped++
			continue
		}
		return e, nil
	}
	if err := r.s.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}

// Skipped returns the number of malformed lines ignored so far.
func (r *Reader) Skipped() int { return r.skipped }

func (r *Reader) parse(tokens []string) (Event, bool) {
	switch len(tokens) {
	case 4:
		t, err := strconv.ParseInt(tokens[0], 10, 64)
		if err != nil {
			return Event{}, false
		}
		e, ok := parseBody(tokens[1], tokens[2], tokens[3])
		if !ok {
			return Event{}, false
		}
		e.Time = t
		r.currentTime = t
		return e, true
	case 3:
		e, ok := parseBody(tokens[0], tokens[1], tokens[2])
		if !ok {
			return Event{}, false
		}
		e.Time = r.currentTime
		return e, true
	default:
		return Event{}, false
	}
}

// parseBody mirrors the historical tooling exactly: the quantity token is
// parsed by dropping its final character (the `x` suffix).
func parseBody(action, qtyToken, priceToken string) (Event, bool) {
	if len(qtyToken) < 2 {
		return Event{}, false
	}
	qty, err := strconv.ParseInt(qtyToken[:len(qtyToken)-1], 10, 64)
	if err != nil {
		return Event{}, false
	}
	price, err := strconv.ParseInt(priceToken, 10, 64)
	if err != nil {
		return Event{}, false
	}
	return Event{Action: action, Qty: qty, Price: price}, true
}

// ReadAll decodes every well-formed event and reports how many lines were
// skipped.
func ReadAll(r io.Reader) ([]Event, int, error) {
	reader := NewReader(r)
	var events []Event
	for {
		e, err := reader.Next()
		if err == io.EOF {
			return events, reader.Skipped(), nil
		}
		if err != nil {
			return events, reader.Skipped(), err
		}
		events = append(events, e)
	}
}
