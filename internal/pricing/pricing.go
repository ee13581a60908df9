package pricing

import (
	"fmt"

	"github.com/harshWarbhe/revticket/internal/domain"
)

// Total sums the prices of the requested seats. A seat without a price
// entry is a validation failure, never a silent zero.
func Total(seatIDs []string, prices domain.PriceList) (float64, error) {
	if len(seatIDs) == 0 {
		return 0, domain.ErrInvalidSeats
	}

	var total float64
	for _, seatID := range seatIDs {
		price, ok := prices[seatID]
		if !ok {
			return 0, fmt.Errorf("seat %s: %w", seatID, domain.ErrSeatNotPriced)
		}
		total += price
	}
	return total, nil
}
