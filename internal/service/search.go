package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/product_catalog/internal/models"
	"github.com/Skotchmaster/product_catalog/internal/repo"
	"github.com/Skotchmaster/product_catalog/internal/transport"
	"github.com/Skotchmaster/product_catalog/internal/util"
)

const (
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 50
	topN                = 3
)

const (
	reasonSameCategory = "same category"
	reasonSameBrand    = "same brand"
	reasonSimilarPrice = "similar price"
)

var (
	similarPriceLow  = decimal.RequireFromString("0.8")
	similarPriceHigh = decimal.RequireFromString("1.2")
)

type SearchService struct {
	Repo  *repo.GormRepo
	Index ProductIndex
	Now   func() time.Time
}

type AdvancedSearchParams struct {
	Filter        repo.ProductFilter
	SortDirection string
	Page          int
	PageSize      int
}

func (s *SearchService) AdvancedProducts(ctx context.Context, p AdvancedSearchParams) (*transport.AdvancedSearchResponse, error) {
	f := p.Filter
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, validationf("minPrice must not exceed maxPrice")
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedFrom.After(*f.CreatedTo) {
		return nil, validationf("createdFrom must not be after createdTo")
	}

	f.SortBy = repo.NormalizeProductSort(f.SortBy)
	dir := "asc"
	if strings.EqualFold(strings.TrimSpace(p.SortDirection), "desc") {
		dir = "desc"
	}
	f.SortDesc = dir == "desc"

	page, size := util.Clamp(p.Page, p.PageSize)
	f.Offset, f.Limit = util.Calculate(page, size)

	items, total, err := s.Repo.AdvancedProductSearch(ctx, f)
	if err != nil {
		return nil, err
	}
	products, err := productResponses(ctx, s.Repo, items)
	if err != nil {
		return nil, err
	}

	return &transport.AdvancedSearchResponse{
		Products: products,
		Filters: transport.SearchFilters{
			Name:          f.Name,
			Description:   f.Description,
			Brand:         f.Brand,
			CategoryID:    f.CategoryID,
			MinPrice:      f.MinPrice,
			MaxPrice:      f.MaxPrice,
			MinRating:     f.MinRating,
			MinStock:      f.MinStock,
			InStock:       f.InStock,
			CreatedFrom:   f.CreatedFrom,
			CreatedTo:     f.CreatedTo,
			SortBy:        f.SortBy,
			SortDirection: dir,
		},
		Pagination: transport.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
			TotalPages: util.TotalPages(total, size),
		},
	}, nil
}

type similarCandidate struct {
	product      models.Product
	sameCategory bool
	sameBrand    bool
	diff         decimal.Decimal
	reasons      []string
}

func rank(b bool) int {
	if b {
		return 0
	}
	return 1
}

// SimilarProducts ranks same category first, then same brand, then the
// closest price.
func (s *SearchService) SimilarProducts(ctx context.Context, id uint, limit int) (*transport.SimilarProductsResponse, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxSimilarLimit {
		limit = MaxSimilarLimit
	}

	src, err := s.Repo.GetActiveProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product")
	}
	lo := src.Price.Mul(similarPriceLow)
	hi := src.Price.Mul(similarPriceHigh)

	candidates, err := s.Repo.SimilarCandidates(ctx, src, lo, hi)
	if err != nil {
		return nil, err
	}

	srcBrand := strings.TrimSpace(src.Brand)
	ranked := make([]similarCandidate, 0, len(candidates))
	for _, p := range candidates {
		c := similarCandidate{
			product:      p,
			sameCategory: p.CategoryID == src.CategoryID,
			sameBrand:    srcBrand != "" && strings.EqualFold(strings.TrimSpace(p.Brand), srcBrand),
			diff:         p.Price.Sub(src.Price).Abs(),
		}
		if c.sameCategory {
			c.reasons = append(c.reasons, reasonSameCategory)
		}
		if c.sameBrand {
			c.reasons = append(c.reasons, reasonSameBrand)
		}
		if p.Price.GreaterThanOrEqual(lo) && p.Price.LessThanOrEqual(hi) {
			c.reasons = append(c.reasons, reasonSimilarPrice)
		}
		if len(c.reasons) == 0 {
			continue
		}
		ranked = append(ranked, c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if rank(a.sameCategory) != rank(b.sameCategory) {
			return rank(a.sameCategory) < rank(b.sameCategory)
		}
		if rank(a.sameBrand) != rank(b.sameBrand) {
			return rank(a.sameBrand) < rank(b.sameBrand)
		}
		if cmp := a.diff.Cmp(b.diff); cmp != 0 {
			return cmp < 0
		}
		return a.product.ID < b.product.ID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	all := make([]models.Product, 0, len(ranked)+1)
	all = append(all, *src)
	for _, c := range ranked {
		all = append(all, c.product)
	}
	responses, err := productResponses(ctx, s.Repo, all)
	if err != nil {
		return nil, err
	}

	out := &transport.SimilarProductsResponse{
		Source:  responses[0],
		Similar: make([]transport.SimilarProduct, 0, len(ranked)),
	}
	for i, c := range ranked {
		out.Similar = append(out.Similar, transport.SimilarProduct{
			Product:         responses[i+1],
			Reasons:         c.reasons,
			PriceDifference: money(c.diff),
		})
	}
	return out, nil
}

// quantities accumulates purchased quantities per entity id.
type quantities map[uint]int64

// top returns the n largest entries, ties broken by name then id.
func (q quantities) top(n int, names map[uint]string) []transport.NamedQuantity {
	out := make([]transport.NamedQuantity, 0, len(q))
	for id, qty := range q {
		out = append(out, transport.NamedQuantity{ID: id, Name: names[id], Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// purchases is the item-level view of a set of orders, with product and
// category names resolved up front.
type purchases struct {
	itemsByOrder    map[uint][]models.OrderItem
	productCategory map[uint]uint
	productNames    map[uint]string
	categoryNames   map[uint]string
}

func loadPurchases(ctx context.Context, r *repo.GormRepo, orders []models.Order) (*purchases, error) {
	orderIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}
	items, err := r.ItemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	pu := &purchases{
		itemsByOrder:    make(map[uint][]models.OrderItem),
		productCategory: make(map[uint]uint),
		productNames:    make(map[uint]string),
	}
	productIDs := make([]uint, 0, len(items))
	for _, it := range items {
		pu.itemsByOrder[it.OrderID] = append(pu.itemsByOrder[it.OrderID], it)
		productIDs = append(productIDs, it.ProductID)
	}
	products, err := r.ProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	categoryIDs := make([]uint, 0, len(products))
	for id, p := range products {
		pu.productCategory[id] = p.CategoryID
		pu.productNames[id] = p.Name
		categoryIDs = append(categoryIDs, p.CategoryID)
	}
	pu.categoryNames, err = r.CategoryNames(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}
	return pu, nil
}

func (pu *purchases) addOrder(orderID uint, byCategory, byProduct quantities) {
	for _, it := range pu.itemsByOrder[orderID] {
		if byCategory != nil {
			byCategory[pu.productCategory[it.ProductID]] += int64(it.Quantity)
		}
		if byProduct != nil {
			byProduct[it.ProductID] += int64(it.Quantity)
		}
	}
}

var (
	premiumThreshold = decimal.NewFromInt(1000)
	regularThreshold = decimal.NewFromInt(500)
)

func segmentFor(spent decimal.Decimal) string {
	switch {
	case spent.GreaterThan(premiumThreshold):
		return "Premium"
	case spent.GreaterThan(regularThreshold):
		return "Regular"
	default:
		return "Basic"
	}
}

type BehaviorParams struct {
	City            string
	MinTotalSpent   *decimal.Decimal
	MinOrderCount   *int
	RegisteredAfter *time.Time
	Page            int
	PageSize        int
}

// CustomerBehavior aggregates non-cancelled orders per customer. The spend
// and order count thresholds apply to the aggregates, before paging.
func (s *SearchService) CustomerBehavior(ctx context.Context, p BehaviorParams) (*transport.CustomerBehaviorResponse, error) {
	now := nowUTC(s.Now)

	customers, err := s.Repo.FilterCustomers(ctx, repo.CustomerFilter{City: p.City, RegisteredAfter: p.RegisteredAfter})
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if len(customers) > 0 {
		ids := make([]uint, 0, len(customers))
		for _, c := range customers {
			ids = append(ids, c.ID)
		}
		orders, err = s.Repo.FindOrderHeaders(ctx, repo.OrderQuery{CustomerIDs: ids, ExcludeCancelled: true})
		if err != nil {
			return nil, err
		}
	}
	pu, err := loadPurchases(ctx, s.Repo, orders)
	if err != nil {
		return nil, err
	}

	ordersByCustomer := make(map[uint][]models.Order)
	for _, o := range orders {
		ordersByCustomer[o.CustomerID] = append(ordersByCustomer[o.CustomerID], o)
	}

	rows := make([]transport.CustomerBehavior, 0, len(customers))
	for _, c := range customers {
		own := ordersByCustomer[c.ID]
		row := transport.CustomerBehavior{
			CustomerID:   c.ID,
			Name:         c.Name,
			Email:        c.Email,
			City:         c.City,
			RegisteredAt: c.CreatedAt,
			TotalOrders:  len(own),
			TotalSpent:   decimal.Zero,
		}

		byCategory, byProduct := quantities{}, quantities{}
		for i := range own {
			o := own[i]
			row.TotalSpent = row.TotalSpent.Add(o.TotalAmount)
			if row.LastOrderDate == nil || o.OrderDate.After(*row.LastOrderDate) {
				row.LastOrderDate = &own[i].OrderDate
			}
			pu.addOrder(o.ID, byCategory, byProduct)
		}
		row.TotalSpent = money(row.TotalSpent)
		row.AverageOrderValue = average(row.TotalSpent, int64(len(own)))
		row.TopCategories = byCategory.top(topN, pu.categoryNames)
		row.TopProducts = byProduct.top(topN, pu.productNames)
		row.Segment = segmentFor(row.TotalSpent)

		since := c.CreatedAt
		if row.LastOrderDate != nil {
			since = *row.LastOrderDate
		}
		row.DaysSinceLastActivity = daysBetween(since, now)

		if p.MinTotalSpent != nil && row.TotalSpent.LessThan(*p.MinTotalSpent) {
			continue
		}
		if p.MinOrderCount != nil && row.TotalOrders < *p.MinOrderCount {
			continue
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if cmp := rows[i].TotalSpent.Cmp(rows[j].TotalSpent); cmp != 0 {
			return cmp > 0
		}
		return rows[i].CustomerID < rows[j].CustomerID
	})

	page, size := util.Clamp(p.Page, p.PageSize)
	offset, limit := util.Calculate(page, size)
	lo, hi := util.Window(len(rows), offset, limit)
	total := int64(len(rows))

	return &transport.CustomerBehaviorResponse{
		Customers: rows[lo:hi],
		Filters: transport.BehaviorFilters{
			City:            p.City,
			MinTotalSpent:   p.MinTotalSpent,
			MinOrderCount:   p.MinOrderCount,
			RegisteredAfter: p.RegisteredAfter,
		},
		Pagination: transport.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
			TotalPages: util.TotalPages(total, size),
		},
	}, nil
}

func daysBetween(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// IndexedProducts runs a full-text query against the search index and loads
// the matching active products in relevance order.
func (s *SearchService) IndexedProducts(ctx context.Context, query string, page, pageSize int) (*transport.IndexedSearchResponse, error) {
	if s.Index == nil {
		return nil, ErrUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationf("q is required")
	}

	page, size := util.Clamp(page, pageSize)
	offset, limit := util.Calculate(page, size)
	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}

	byID, err := s.Repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.Active {
			items = append(items, p)
		}
	}
	products, err := productResponses(ctx, s.Repo, items)
	if err != nil {
		return nil, err
	}

	return &transport.IndexedSearchResponse{
		Products: products,
		Query:    query,
		Pagination: transport.Pagination{
			Page:       page,
			PageSize:   size,
			TotalCount: total,
			TotalPages: util.TotalPages(total, size),
		},
	}, nil
}
