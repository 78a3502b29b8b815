package workers

import (
	"errors"
	"log"
	"time"

	"gobeampay/redis"
	"gobeampay/store"
	"gobeampay/types"
)

// Worker_processSettlements links submitted settlement records to order
// state: once the reconciliation scanner marks the matching order paid,
// the record moves to confirmed. Orders are the ground truth; the
// record only mirrors them for the merchant's settlement history.
func Worker_processSettlements(orders *store.Store) {
	for !WorkerShutdown {
		time.Sleep(3 * time.Second)

		submitted, err := redis.FindAllSettlementRecordsByStatus("submitted")
		if err != nil {
			log.Printf("Error getting submitted settlement records: %v", err)
			continue
		}

		for _, rec := range submitted {
			order, err := orders.GetOrder(rec.OrderID)
			if errors.Is(err, store.ErrOrderNotFound) {
				rec.Status = "failed"
				rec.Message = "order deleted before settlement confirmed"
				if err := redis.ChangeSettlementRecordStatus(rec, "submitted"); err != nil {
					log.Printf("Error updating settlement record %s: %v", rec.ID, err)
				}
				continue
			}
			if err != nil {
				log.Printf("Error loading order %d for settlement %s: %v", rec.OrderID, rec.ID, err)
				continue
			}

			if order.Status != types.OrderPaid {
				continue
			}

			log.Printf("Settlement %s confirmed: order %d paid on %s", rec.ID, order.ID, order.PaidNetwork)
			rec.Status = "confirmed"
			if err := redis.ChangeSettlementRecordStatus(rec, "submitted"); err != nil {
				log.Printf("Error updating settlement record %s: %v", rec.ID, err)
			}
		}
	}
}
