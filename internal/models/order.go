// internal/models/order.go
package models

import (
	"encoding/json"
)

// Order is one row of the orders spreadsheet. Columns the sheet carries
// beyond the known ones are kept in Extra and written back unchanged.
type Order struct {
	ID       string
	Date     string
	Customer string
	Company  string
	Phone    string
	Email    string
	Address  string
	Items    string
	Total    string
	Status   OrderStatus
	Extra    map[string]interface{}
}

// MarshalJSON flattens Extra into the order object; known fields win.
func (o Order) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(o.Extra)+10)
	for k, v := range o.Extra {
		out[k] = v
	}
	out["id"] = o.ID
	out["date"] = o.Date
	out["customer"] = o.Customer
	out["company"] = o.Company
	out["phone"] = o.Phone
	out["email"] = o.Email
	out["address"] = o.Address
	out["items"] = o.Items
	out["total"] = o.Total
	out["status"] = o.Status
	return json.Marshal(out)
}
