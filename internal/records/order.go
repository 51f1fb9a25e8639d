// internal/records/order.go
package records

import (
	"sort"

	"github.com/yahiawalid23/HEPTA/internal/models"
	"github.com/yahiawalid23/HEPTA/internal/spreadsheet"
)

var orderColumns = []string{
	"id", "date", "customer", "company", "phone",
	"email", "address", "items", "total", "status",
}

func isOrderColumn(name string) bool {
	for _, c := range orderColumns {
		if c == name {
			return true
		}
	}
	return false
}

// OrderMapper maps order rows. Columns outside the known set are carried
// in Order.Extra so that hand-added columns survive a rewrite.
type OrderMapper struct{}

func (OrderMapper) SheetName() string { return "Orders" }

// Columns returns the known columns followed by every extra column used by
// any order, sorted by name.
func (OrderMapper) Columns(orders []models.Order) []string {
	cols := make([]string, len(orderColumns))
	copy(cols, orderColumns)

	seen := make(map[string]bool)
	var extra []string
	for _, o := range orders {
		for k := range o.Extra {
			if seen[k] || isOrderColumn(k) {
				continue
			}
			seen[k] = true
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func (OrderMapper) ID(o models.Order) string { return o.ID }

func (OrderMapper) ToRow(o models.Order) spreadsheet.Row {
	row := make(spreadsheet.Row, len(orderColumns)+len(o.Extra))
	for k, v := range o.Extra {
		row[k] = v
	}
	row["id"] = o.ID
	row["date"] = o.Date
	row["customer"] = o.Customer
	row["company"] = o.Company
	row["phone"] = o.Phone
	row["email"] = o.Email
	row["address"] = o.Address
	row["items"] = o.Items
	row["total"] = o.Total
	row["status"] = string(o.Status)
	return row
}

func (OrderMapper) FromRow(row spreadsheet.Row) models.Order {
	o := models.Order{
		ID:       spreadsheet.Text(row["id"]),
		Date:     spreadsheet.Text(row["date"]),
		Customer: spreadsheet.Text(row["customer"]),
		Company:  spreadsheet.Text(row["company"]),
		Phone:    spreadsheet.Text(row["phone"]),
		Email:    spreadsheet.Text(row["email"]),
		Address:  spreadsheet.Text(row["address"]),
		Items:    spreadsheet.Text(row["items"]),
		Total:    spreadsheet.Text(row["total"]),
		Status:   models.OrderStatus(spreadsheet.Text(row["status"])),
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	for k, v := range row {
		if isOrderColumn(k) {
			continue
		}
		if o.Extra == nil {
			o.Extra = make(map[string]interface{})
		}
		o.Extra[k] = v
	}
	return o
}
