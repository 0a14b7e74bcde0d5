package tracelog

// Point is the cumulative cash state after one event.
type Point struct {
	Time   int64
	Spend  int64
	Profit int64
}

// Profit folds events into a cumulative profit curve: BUY adds qty*price
// to spend, SELL subtracts it, any other action leaves spend unchanged but
// still contributes a sample. Profit is the negated spend.
func Profit(events []Event) []Point {
	points := make([]Point, 0, len(events))
	var spend int64
	for _, e := range events {
		switch e.Action {
		case "BUY":
			spend += e.Qty * e.Price
		case "SELL":
			spend -= e.Qty * e.Price
		}
		points = append(points, Point{Time: e.Time, Spend: spend, Profit: -spend})
	}
	return points
}
