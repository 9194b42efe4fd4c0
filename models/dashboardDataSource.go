package models

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// postedStatuses are the document states that count as booked revenue or cost.
var postedStatuses = []string{"Confirmed", "Partial Paid", "Paid"}

const (
	dashboardSalesQuery = `
SELECT
    DATE_FORMAT(inv.invoice_date, '%Y-%m-%d') AS date,
    inv.invoice_total_amount AS amount,
    inv.current_status AS status
FROM sales_invoices inv
WHERE inv.business_id = ?
    AND inv.current_status IN ?
ORDER BY inv.invoice_date`

	dashboardCostsQuery = `
SELECT date, amount, category FROM (
    SELECT
        DATE_FORMAT(e.expense_date, '%Y-%m-%d') AS date,
        e.amount AS amount,
        'Expense' AS category
    FROM expenses e
    WHERE e.business_id = ?
    UNION ALL
    SELECT
        DATE_FORMAT(b.bill_date, '%Y-%m-%d') AS date,
        b.bill_total_amount AS amount,
        'Bill' AS category
    FROM bills b
    WHERE b.business_id = ?
        AND b.current_status IN ?
) costs
ORDER BY date`

	dashboardProductsQuery = `
SELECT
    p.id,
    p.name,
    COALESCE(SUM(ss.current_qty), 0) AS quantity,
    p.purchase_price AS cost_price,
    p.sales_price AS sell_price
FROM products p
LEFT JOIN stock_summaries ss ON ss.product_id = p.id AND ss.business_id = p.business_id
WHERE p.business_id = ?
GROUP BY p.id, p.name, p.purchase_price, p.sales_price`

	dashboardCustomersQuery = `
SELECT
    c.id,
    c.name,
    COALESCE(SUM(inv.remaining_balance), 0) AS due
FROM customers c
LEFT JOIN sales_invoices inv ON inv.customer_id = c.id
    AND inv.business_id = c.business_id
    AND inv.current_status IN ?
WHERE c.business_id = ?
GROUP BY c.id, c.name`

	dashboardServiceRequestsQuery = `
SELECT
    sr.id,
    DATE_FORMAT(sr.request_date, '%Y-%m-%d') AS date,
    sr.status,
    sr.service_charge AS charge
FROM service_requests sr
WHERE sr.business_id = ?`
)

// GormDataSource reads the dashboard's raw records from the books database.
type GormDataSource struct {
	db *gorm.DB
}

func NewGormDataSource(db *gorm.DB) *GormDataSource {
	return &GormDataSource{db: db}
}

func (s *GormDataSource) LoadRawData(ctx context.Context, businessId string) (RawData, error) {
	var data RawData
	if s == nil || s.db == nil {
		return data, errors.New("database not initialized")
	}
	if businessId == "" {
		return data, errors.New("business id is required")
	}
	db := s.db.WithContext(ctx)

	if err := db.Raw(dashboardSalesQuery, businessId, postedStatuses).Scan(&data.Sales).Error; err != nil {
		return data, fmt.Errorf("load sales: %w", err)
	}
	if err := db.Raw(dashboardCostsQuery, businessId, businessId, postedStatuses).Scan(&data.Costs).Error; err != nil {
		return data, fmt.Errorf("load costs: %w", err)
	}
	if err := db.Raw(dashboardProductsQuery, businessId).Scan(&data.Products).Error; err != nil {
		return data, fmt.Errorf("load products: %w", err)
	}
	if err := db.Raw(dashboardCustomersQuery, postedStatuses, businessId).Scan(&data.Customers).Error; err != nil {
		return data, fmt.Errorf("load customers: %w", err)
	}
	if err := db.Raw(dashboardServiceRequestsQuery, businessId).Scan(&data.ServiceRequests).Error; err != nil {
		return data, fmt.Errorf("load service requests: %w", err)
	}
	return data, nil
}
