package reports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"supermarket-erp/models"
)

var salesHeader = []string{
	"Transaction", "Date", "Cashier", "Payment Method", "Items", "Subtotal", "Tax", "Total", "Status",
}

// WriteSalesCSV writes one row per sale. Fields containing commas, quotes or
// newlines are quoted.
func WriteSalesCSV(w io.Writer, sales []models.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range sales {
		items := 0
		for _, l := range s.Lines {
			items += l.Quantity
		}
		row := []string{
			s.TransactionID,
			s.Timestamp.UTC().Format(time.RFC3339),
			s.Cashier,
			string(s.PaymentMethod),
			strconv.Itoa(items),
			strconv.FormatInt(s.Subtotal, 10),
			strconv.FormatInt(s.Tax, 10),
			strconv.FormatInt(s.Total, 10),
			string(s.Status),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write sale %s: %w", s.TransactionID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
