// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"log"
	"time"

	"table_order/service"

	"github.com/robfig/cron/v3"
)

var orderCron *cron.Cron

// SweepStaleOrders cancels orders left PENDING for longer than ttl.
func SweepStaleOrders(orders *service.OrderService, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := orders.CancelStalePending(ctx, ttl)
	if err != nil {
		log.Printf("stale order sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("cancelled %d order(s) pending for more than %s", n, ttl)
	}
}

// StartStaleOrderScheduler checks every five minutes. A ttl of zero disables it.
func StartStaleOrderScheduler(orders *service.OrderService, ttl time.Duration) error {
	if ttl <= 0 {
		log.Println("stale order sweep disabled")
		return nil
	}
	orderCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	if _, err := orderCron.AddFunc("*/5 * * * *", func() { SweepStaleOrders(orders, ttl) }); err != nil {
		return err
	}

	orderCron.Start()
	log.Printf("stale order sweep started (every 5 minutes, ttl %s)", ttl)
	return nil
}

func StopStaleOrderScheduler() {
	if orderCron != nil {
		<-orderCron.Stop().Done()
	}
}
