package scheduler

import (
	"context"
	"log"
	"time"

	"table_order/service"

	"github.com/go-co-op/gocron/v2"
)

var tokenScheduler gocron.Scheduler

func PurgeResetTokens(auth *service.AuthService) {
	n, err := auth.PurgeExpiredResetTokens(context.Background())
	if err != nil {
		log.Printf("reset token purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("purged %d expired reset token(s)", n)
	}
}

// StartTokenPurgeScheduler runs the purge daily at 03:00 in loc.
func StartTokenPurgeScheduler(auth *service.AuthService, loc *time.Location) error {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(3, 0, 0),
			),
		),
		gocron.NewTask(PurgeResetTokens, auth),
	)
	if err != nil {
		return err
	}

	tokenScheduler = s
	s.Start()
	log.Println("reset token purge scheduled (03:00 daily)")
	return nil
}

func StopTokenPurgeScheduler() {
	if tokenScheduler != nil {
		if err := tokenScheduler.Shutdown(); err != nil {
			log.Printf("token scheduler shutdown: %v", err)
		}
	}
}
