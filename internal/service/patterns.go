package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
)

const defaultPatternMonths = 6

type patternKey struct {
	year    int
	month   int
	weekday int
	hour    int
}

type patternAcc struct {
	key        patternKey
	orders     int
	revenue    decimal.Decimal
	customers  map[uint]struct{}
	categories quantities
}

type rollUpAcc struct {
	groups  int
	orders  int
	revenue decimal.Decimal
}

func (a *rollUpAcc) add(g *patternAcc) {
	a.groups++
	a.orders += g.orders
	a.revenue = a.revenue.Add(g.revenue)
}

func (a rollUpAcc) result() transport.RollUp {
	out := transport.RollUp{
		Groups:            a.groups,
		TotalOrders:       a.orders,
		TotalRevenue:      money(a.revenue),
		AverageRevenue:    average(a.revenue, int64(a.groups)),
		AverageOrderValue: average(a.revenue, int64(a.orders)),
	}
	if a.groups > 0 {
		out.AverageOrders = float64(a.orders) / float64(a.groups)
	}
	return out
}

// PurchasePatterns groups non-cancelled orders by (year, month, weekday, hour)
// in UTC and rolls the groups up by month, weekday and hour.
func (s *SearchService) PurchasePatterns(ctx context.Context, start, end *time.Time) (*transport.PurchasePatternsResponse, error) {
	now := nowUTC(s.Now)
	to := now
	if end != nil {
		to = end.UTC()
	}
	from := to.AddDate(0, -defaultPatternMonths, 0)
	if start != nil {
		from = start.UTC()
	}
	if from.After(to) {
		return nil, validationf("startDate must not be after endDate")
	}

	orders, err := s.Repo.FindOrderHeaders(ctx, repo.OrderQuery{From: &from, To: &to, ExcludeCancelled: true})
	if err != nil {
		return nil, err
	}
	pu, err := loadPurchases(ctx, s.Repo, orders)
	if err != nil {
		return nil, err
	}

	groups := make(map[patternKey]*patternAcc)
	for _, o := range orders {
		g := groupFor(groups, o)
		g.orders++
		g.revenue = g.revenue.Add(o.TotalAmount)
		g.customers[o.CustomerID] = struct{}{}
		pu.addOrder(o.ID, g.categories, nil)
	}

	sorted := make([]*patternAcc, 0, len(groups))
	for _, g := range groups {
		sorted = append(sorted, g)
	}
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].key, sorted[j].key
		if a.year != b.year {
			return a.year < b.year
		}
		if a.month != b.month {
			return a.month < b.month
		}
		if a.weekday != b.weekday {
			return a.weekday < b.weekday
		}
		return a.hour < b.hour
	})

	resp := &transport.PurchasePatternsResponse{
		Patterns: make([]transport.PatternGroup, 0, len(sorted)),
		Monthly:  []transport.MonthlyPattern{},
		Weekday:  []transport.WeekdayPattern{},
		Hourly:   []transport.HourlyPattern{},
	}

	type monthKey struct{ year, month int }
	var (
		monthly    = map[monthKey]*rollUpAcc{}
		weekday    = map[int]*rollUpAcc{}
		hourly     = map[int]*rollUpAcc{}
		monthOrder []monthKey
		totalRev   = decimal.Zero
		totalOrd   int
	)
	for _, g := range sorted {
		resp.Patterns = append(resp.Patterns, transport.PatternGroup{
			Year:              g.key.year,
			Month:             g.key.month,
			DayOfWeek:         g.key.weekday,
			DayName:           time.Weekday(g.key.weekday).String(),
			Hour:              g.key.hour,
			OrderCount:        g.orders,
			Revenue:           money(g.revenue),
			AverageOrderValue: average(g.revenue, int64(g.orders)),
			UniqueCustomers:   len(g.customers),
			TopCategories:     g.categories.top(topN, pu.categoryNames),
		})

		mk := monthKey{g.key.year, g.key.month}
		if monthly[mk] == nil {
			monthly[mk] = &rollUpAcc{revenue: decimal.Zero}
			monthOrder = append(monthOrder, mk)
		}
		monthly[mk].add(g)
		if weekday[g.key.weekday] == nil {
			weekday[g.key.weekday] = &rollUpAcc{revenue: decimal.Zero}
		}
		weekday[g.key.weekday].add(g)
		if hourly[g.key.hour] == nil {
			hourly[g.key.hour] = &rollUpAcc{revenue: decimal.Zero}
		}
		hourly[g.key.hour].add(g)

		totalOrd += g.orders
		totalRev = totalRev.Add(g.revenue)
	}

	// sorted is ordered by (year, month) first, so monthOrder is ascending.
	for _, mk := range monthOrder {
		resp.Monthly = append(resp.Monthly, transport.MonthlyPattern{
			Year:      mk.year,
			Month:     mk.month,
			MonthName: time.Month(mk.month).String(),
			RollUp:    monthly[mk].result(),
		})
	}
	for d := 0; d < 7; d++ {
		if acc, ok := weekday[d]; ok {
			resp.Weekday = append(resp.Weekday, transport.WeekdayPattern{
				DayOfWeek: d,
				DayName:   time.Weekday(d).String(),
				RollUp:    acc.result(),
			})
		}
	}
	for h := 0; h < 24; h++ {
		if acc, ok := hourly[h]; ok {
			resp.Hourly = append(resp.Hourly, transport.HourlyPattern{Hour: h, RollUp: acc.result()})
		}
	}

	resp.Summary = transport.PatternSummary{
		TotalOrders:  totalOrd,
		TotalRevenue: money(totalRev),
		Period:       transport.Period{Start: from, End: to},
	}
	for i := range resp.Monthly {
		if resp.Summary.BestMonth == nil || resp.Monthly[i].TotalRevenue.GreaterThan(resp.Summary.BestMonth.TotalRevenue) {
			resp.Summary.BestMonth = &resp.Monthly[i]
		}
	}
	for i := range resp.Weekday {
		if resp.Summary.BestDay == nil || resp.Weekday[i].TotalRevenue.GreaterThan(resp.Summary.BestDay.TotalRevenue) {
			resp.Summary.BestDay = &resp.Weekday[i]
		}
	}
	for i := range resp.Hourly {
		if resp.Summary.BestHour == nil || resp.Hourly[i].TotalRevenue.GreaterThan(resp.Summary.BestHour.TotalRevenue) {
			resp.Summary.BestHour = &resp.Hourly[i]
		}
	}
	return resp, nil
}

func groupFor(groups map[patternKey]*patternAcc, o models.Order) *patternAcc {
	t := o.OrderDate.UTC()
	k := patternKey{year: t.Year(), month: int(t.Month()), weekday: int(t.Weekday()), hour: t.Hour()}
	g, ok := groups[k]
	if !ok {
		g = &patternAcc{
			key:        k,
			revenue:    decimal.Zero,
			customers:  map[uint]struct{}{},
			categories: quantities{},
		}
		groups[k] = g
	}
	return g
}
