package jobs

import (
	"errors"
	"log"

	"github.com/robfig/cron/v3"
)

// DailyRecapSchedule fires at midnight in the scheduler's location.
const DailyRecapSchedule = "0 0 * * *"

// DailyRecapper summarizes the day that just ended. It never changes records.
type DailyRecapper interface {
	RunDailyRecap() error
}

var dailyRecapper DailyRecapper

func SetDailyRecapper(recapper DailyRecapper) {
	dailyRecapper = recapper
}

// InitCronJobs registers the jobs and starts the scheduler.
func InitCronJobs(c *cron.Cron) error {
	if dailyRecapper == nil {
		return errors.New("daily recapper is not set")
	}
	if _, err := c.AddFunc(DailyRecapSchedule, runDailyRecap); err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}

func runDailyRecap() {
	if err := dailyRecapper.RunDailyRecap(); err != nil {
		log.Printf("daily recap failed: %v", err)
	}
}
